// Package pipeline provides the high-level orchestration for CV intake:
// decode the uploaded document, run both extraction paths, and merge the
// results into an ApplicationRecord.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/applicant-intake/internal/decode"
	"github.com/jonathan/applicant-intake/internal/heuristics"
	"github.com/jonathan/applicant-intake/internal/record"
	"github.com/jonathan/applicant-intake/internal/types"
)

// StructuredExtractor is the AI extraction path. Implementations never
// fail; they degrade to empty data.
type StructuredExtractor interface {
	Extract(ctx context.Context, text string) types.StructuredExtraction
}

// Options holds the inputs and collaborators for a single submission run.
type Options struct {
	Submission types.RawSubmission

	// Extractor is the AI path. When nil the AI path is bypassed and the
	// coarse heuristic sections stand in for the structured arrays.
	Extractor StructuredExtractor

	// CVPublicLink is issued by the storage collaborator and attached to
	// the record as-is.
	CVPublicLink string

	// Builder defaults to a wall-clock builder when nil.
	Builder *record.Builder
}

// Run processes one submission: decode, extract (heuristic and AI paths
// run concurrently over the same decoded text), merge. Only a decode
// failure aborts; every later failure degrades to a best-effort record.
func Run(ctx context.Context, opts Options) (types.ApplicationRecord, error) {
	text, err := decode.Decode(opts.Submission.FileBuffer, opts.Submission.FileExtension)
	if err != nil {
		return types.ApplicationRecord{}, err
	}

	var (
		personal   types.PersonalInfo
		sections   types.Sections
		structured types.StructuredExtraction
	)

	// The two extraction paths share no state; each writes only its own
	// result before Wait.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		personal = heuristics.ExtractPersonalInfo(text)
		sections = heuristics.SplitSections(text)
		return nil
	})
	g.Go(func() error {
		if opts.Extractor != nil {
			structured = opts.Extractor.Extract(gctx, text)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.ApplicationRecord{}, err
	}

	if opts.Extractor == nil {
		structured = heuristics.FallbackExtraction(sections)
	}

	builder := opts.Builder
	if builder == nil {
		builder = record.NewBuilder()
	}
	return builder.Build(opts.Submission, personal, structured, opts.CVPublicLink), nil
}
