//go:build windows

package linebuffer

const defaultSeparatorConstant = "\r\n"
