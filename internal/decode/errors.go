package decode

import "fmt"

// UnsupportedFormatError indicates the file extension is not one the
// decoder handles. The submission cannot proceed.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q (only .pdf and .docx are accepted)", e.Extension)
}

// DecodeError indicates the buffer could not be decoded for a supported
// format. It is fatal to the submission; no fallback text is substituted.
type DecodeError struct {
	Format string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s document: %v", e.Format, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
