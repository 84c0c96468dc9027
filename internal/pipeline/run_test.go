package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonathan/applicant-intake/internal/decode"
	"github.com/jonathan/applicant-intake/internal/record"
	"github.com/jonathan/applicant-intake/internal/types"
)

// fakeExtractor implements StructuredExtractor with a canned result.
type fakeExtractor struct {
	result types.StructuredExtraction
	texts  []string
}

func (f *fakeExtractor) Extract(_ context.Context, text string) types.StructuredExtraction {
	f.texts = append(f.texts, text)
	return f.result
}

// buildCVDocx packages paragraphs into a minimal .docx buffer.
func buildCVDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

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
			t.Fatalf("zip create: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestRun_MergesBothPaths(t *testing.T) {
	cv := buildCVDocx(t,
		"Jane Doe",
		"Email: jane.doe@example.com",
		"Phone: (555) 123-4567",
	)
	extractor := &fakeExtractor{
		result: types.StructuredExtraction{
			PersonalInfo: types.PersonalInfo{Name: "Jane A. Doe"},
			Education:    []types.EducationEntry{{Institution: "MIT"}},
		},
	}

	got, err := Run(context.Background(), Options{
		Submission: types.RawSubmission{
			Name:          "",
			Email:         "form@example.com",
			FileBuffer:    cv,
			FileExtension: ".docx",
		},
		Extractor:    extractor,
		CVPublicLink: "https://example.com/files/x.docx",
		Builder:      record.NewBuilderWithClock(fixedClock),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Caller-supplied email wins; structured name wins over the
	// heuristic one; heuristic phone fills the remaining gap.
	if got.PersonalInfo.Email != "form@example.com" {
		t.Errorf("Email = %q", got.PersonalInfo.Email)
	}
	if got.PersonalInfo.Name != "Jane A. Doe" {
		t.Errorf("Name = %q", got.PersonalInfo.Name)
	}
	if got.PersonalInfo.Phone != "(555) 123-4567" {
		t.Errorf("Phone = %q", got.PersonalInfo.Phone)
	}
	if len(got.Education) != 1 || got.Education[0].Institution != "MIT" {
		t.Errorf("Education = %+v", got.Education)
	}
	if got.CVPublicLink != "https://example.com/files/x.docx" {
		t.Errorf("CVPublicLink = %q", got.CVPublicLink)
	}

	if len(extractor.texts) != 1 {
		t.Fatalf("extractor called %d times, want 1", len(extractor.texts))
	}
}

func TestRun_DecodeFailureAborts(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Submission: types.RawSubmission{
			FileBuffer:    []byte("not a document"),
			FileExtension: ".pdf",
		},
		Extractor: &fakeExtractor{},
	})

	var decodeErr *decode.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Run() error = %v, want DecodeError", err)
	}
}

func TestRun_UnsupportedFormatAborts(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Submission: types.RawSubmission{
			FileBuffer:    []byte("plain text"),
			FileExtension: ".txt",
		},
	})

	var unsupported *decode.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Run() error = %v, want UnsupportedFormatError", err)
	}
}

func TestRun_BypassedExtractorFallsBackToSections(t *testing.T) {
	cv := buildCVDocx(t,
		"Jane Doe",
		"Education",
		"BSc Computer Science, MIT",
		"Skills",
		"Go, Kubernetes",
	)

	got, err := Run(context.Background(), Options{
		Submission: types.RawSubmission{
			FileBuffer:    cv,
			FileExtension: ".docx",
		},
		Extractor: nil, // AI path bypassed
		Builder:   record.NewBuilderWithClock(fixedClock),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got.Education) != 1 || got.Education[0].Institution != "BSc Computer Science, MIT" {
		t.Errorf("Education fallback = %+v", got.Education)
	}
	if len(got.Qualifications) != 1 || got.Qualifications[0].Details != "Go, Kubernetes" {
		t.Errorf("Qualifications fallback = %+v", got.Qualifications)
	}
	if got.Projects == nil || len(got.Projects) != 0 {
		t.Errorf("Projects = %+v, want empty non-nil", got.Projects)
	}
}

func TestRun_EmptyExtractionStaysEmpty(t *testing.T) {
	// When the AI path runs but degrades, the coarse sections are NOT
	// substituted; the arrays stay empty.
	cv := buildCVDocx(t, "Jane Doe", "Education", "MIT")
	extractor := &fakeExtractor{result: types.EmptyExtraction()}

	got, err := Run(context.Background(), Options{
		Submission: types.RawSubmission{FileBuffer: cv, FileExtension: ".docx"},
		Extractor:  extractor,
		Builder:    record.NewBuilderWithClock(fixedClock),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got.Education) != 0 {
		t.Errorf("Education = %+v, want empty", got.Education)
	}
}
