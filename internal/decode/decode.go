// Package decode converts uploaded CV documents into plain text.
package decode

import (
	"fmt"
	"strings"
)

// Decode extracts plain text from a raw document buffer. The extension
// selects the decoder: ".pdf" or ".docx" (case-insensitive). Any other
// extension fails with *UnsupportedFormatError; a corrupt or unparseable
// buffer fails with *DecodeError. A successful decode never returns
// empty text.
func Decode(buf []byte, extension string) (string, error) {
	var (
		text   string
		format string
		err    error
	)

	switch strings.ToLower(extension) {
	case ".pdf":
		format = "pdf"
		text, err = extractPDFText(buf)
	case ".docx":
		format = "docx"
		text, err = extractDocxText(buf)
	default:
		return "", &UnsupportedFormatError{Extension: extension}
	}

	if err != nil {
		return "", &DecodeError{Format: format, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &DecodeError{Format: format, Cause: fmt.Errorf("document contains no extractable text")}
	}
	return text, nil
}
