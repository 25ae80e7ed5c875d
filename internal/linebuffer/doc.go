// Package linebuffer reassembles partial reads from a byte stream into complete lines.
//
// Reassemble is the pure building block: it receives the bytes of one read together
// with the residue of the previous read and reports which bytes can be emitted now.
// Buffer keeps that residue for a single stream. Bytes stay raw until emission;
// DecodeText converts emitted bytes to text and replaces invalid UTF-8 sequences.
package linebuffer
