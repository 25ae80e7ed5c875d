// Package which locates executables the way the shell builtin does, with explicit input
// validation: malformed arguments are errors, an executable that is simply absent is not.
package which
