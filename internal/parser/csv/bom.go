package csv

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 byte order mark. It runs before decoding so a
// BOM in a file declared latin1 does not turn into "ï»¿".
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// trimBOM removes a BOM rune left at the start of a header cell.
func trimBOM(s string) string { return strings.TrimPrefix(s, "\uFEFF") }
