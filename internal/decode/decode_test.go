package decode

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildDocx assembles a minimal OOXML package with the given document
// body XML, sufficient for the docx reader to open it.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"word/document.xml": documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// buildPDF assembles a single-page PDF whose content stream shows the
// given text through one Tj operator. Object offsets and the xref table
// are computed as the body is written, so the file is well formed.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	return buf.Bytes()
}

func TestDecode_Pdf(t *testing.T) {
	buf := buildPDF(t, "Jane Doe jane.doe@example.com")

	text, err := Decode(buf, ".pdf")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !strings.Contains(text, "Jane Doe jane.doe@example.com") {
		t.Errorf("Decode() = %q, want it to contain %q", text, "Jane Doe jane.doe@example.com")
	}
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
	<w:body>
		<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
		<w:p><w:r><w:t>Email: jane.doe@example.com</w:t></w:r></w:p>
		<w:p><w:r><w:t>Software </w:t></w:r><w:r><w:b/><w:t>Engineer</w:t></w:r></w:p>
	</w:body>
</w:document>`

func TestDecode_Docx(t *testing.T) {
	buf := buildDocx(t, sampleDocumentXML)

	text, err := Decode(buf, ".docx")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := "Jane Doe\nEmail: jane.doe@example.com\nSoftware Engineer"
	if text != want {
		t.Errorf("Decode() = %q, want %q", text, want)
	}
}

func TestDecode_DocxUppercaseExtension(t *testing.T) {
	buf := buildDocx(t, sampleDocumentXML)

	if _, err := Decode(buf, ".DOCX"); err != nil {
		t.Errorf("Decode() with uppercase extension error = %v", err)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	for _, ext := range []string{".doc", ".txt", ".png", "", "pdf"} {
		_, err := Decode([]byte("anything"), ext)

		var unsupported *UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			t.Errorf("Decode(ext=%q) error = %v, want UnsupportedFormatError", ext, err)
			continue
		}
		if unsupported.Extension != ext {
			t.Errorf("UnsupportedFormatError.Extension = %q, want %q", unsupported.Extension, ext)
		}
	}
}

func TestDecode_CorruptBuffers(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		ext  string
	}{
		{"garbage pdf", []byte("not a pdf at all"), ".pdf"},
		{"truncated pdf header", []byte("%PDF-1.4\n"), ".pdf"},
		{"garbage docx", []byte("not a zip archive"), ".docx"},
		{"empty buffer pdf", nil, ".pdf"},
		{"empty buffer docx", nil, ".docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.buf, tt.ext)

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode() error = %v, want DecodeError", err)
			}
			if decodeErr.Cause == nil {
				t.Error("DecodeError should carry the underlying cause")
			}
		})
	}
}

func TestDecode_DocxWithoutText(t *testing.T) {
	empty := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
	<w:body><w:p></w:p></w:body>
</w:document>`
	buf := buildDocx(t, empty)

	_, err := Decode(buf, ".docx")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode() of text-free document error = %v, want DecodeError", err)
	}
}

func TestWordprocessingParagraphs_TabsAndBreaks(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>left</w:t><w:tab/><w:t>right</w:t></w:r></w:p></w:body></w:document>`

	paragraphs, err := wordprocessingParagraphs(doc)
	if err != nil {
		t.Fatalf("wordprocessingParagraphs() error = %v", err)
	}
	if len(paragraphs) != 1 || !strings.Contains(paragraphs[0], "left\tright") {
		t.Errorf("paragraphs = %q, want one paragraph containing %q", paragraphs, "left\tright")
	}
}
