// Package record builds the final ApplicationRecord from the raw
// submission and the two extraction results under a deterministic
// field-precedence policy.
package record

import (
	"time"

	"github.com/jonathan/applicant-intake/internal/types"
)

// Builder assembles ApplicationRecords. The clock is injectable so
// record construction can be made deterministic in tests.
type Builder struct {
	clock func() time.Time
}

// NewBuilder returns a Builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{clock: time.Now}
}

// NewBuilderWithClock returns a Builder with a fixed or fake clock.
func NewBuilderWithClock(clock func() time.Time) *Builder {
	return &Builder{clock: clock}
}

// Build merges the caller-supplied fields, the AI-structured extraction,
// and the heuristic personal info into one record. Per-field precedence
// for name/email/phone is: caller-supplied, then structured, then
// heuristic. The array fields are owned by the structured extraction.
// Build never fails.
func (b *Builder) Build(
	submission types.RawSubmission,
	heuristic types.PersonalInfo,
	structured types.StructuredExtraction,
	cvPublicLink string,
) types.ApplicationRecord {
	structured.EnsureArrays()

	record := types.ApplicationRecord{
		PersonalInfo: types.PersonalInfo{
			Name:  firstNonEmpty(submission.Name, structured.PersonalInfo.Name, heuristic.Name),
			Email: firstNonEmpty(submission.Email, structured.PersonalInfo.Email, heuristic.Email),
			Phone: firstNonEmpty(submission.Phone, structured.PersonalInfo.Phone, heuristic.Phone),
		},
		Education:      structured.Education,
		Qualifications: structured.Qualifications,
		Projects:       structured.Projects,
		CVPublicLink:   cvPublicLink,
		Status:         types.StatusSubmitted,
	}

	// Two timestamps bound record creation and processing; they are
	// near-identical but recorded independently.
	record.CreatedAt = b.clock().UTC().Format(time.RFC3339)
	record.ProcessedAt = b.clock().UTC().Format(time.RFC3339)

	return record
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
