package decode

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDocxText returns the paragraph text of the main document part,
// in document order, with paragraphs separated by newlines. Formatting
// is discarded.
func extractDocxText(buf []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", err
	}
	defer func() { _ = doc.Close() }()

	paragraphs, err := wordprocessingParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// wordprocessingParagraphs walks the WordprocessingML document XML and
// collects the text of each w:p element. Runs of text live in w:t
// elements; w:tab and w:br are rendered as a tab and a newline.
func wordprocessingParagraphs(document string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(document))

	var paragraphs []string
	var current strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
