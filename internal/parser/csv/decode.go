package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// SupportedEncodings lists the accepted source encoding names.
var SupportedEncodings = []string{"utf-8", "latin1", "iso-8859-1", "windows-1252"}

// IsSupportedEncoding reports whether name is a known source encoding.
func IsSupportedEncoding(name string) bool {
	_, err := decoderFor(name)
	return err == nil
}

// NewDecodingReader wraps r so it yields UTF-8. For "utf-8" the input is
// returned unchanged and validated cell by cell by the reader.
func NewDecodingReader(r io.Reader, encoding string) (io.Reader, error) {
	cm, err := decoderFor(encoding)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return r, nil
	}
	return transform.NewReader(r, cm.NewDecoder()), nil
}

func decoderFor(name string) (*charmap.Charmap, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported source encoding %q", name)
	}
}
