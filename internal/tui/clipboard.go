package tui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("no clipboard utility available (install wl-copy, xclip or xsel)")

// clipboardWrite is swapped in tests.
var clipboardWrite = func(s string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(s)
}

func copyToClipboard(s string) error {
	return clipboardWrite(strings.ReplaceAll(s, "\r\n", "\n"))
}
