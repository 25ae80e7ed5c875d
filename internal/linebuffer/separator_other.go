//go:build !windows

package linebuffer

const defaultSeparatorConstant = "\n"
