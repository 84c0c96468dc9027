// Package types provides type definitions for structured data used throughout the applicant-intake system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RawSubmission represents a job application as received from the form:
// caller-supplied contact fields plus the uploaded CV document.
// It is immutable once received.
type RawSubmission struct {
	Name          string
	Email         string
	Phone         string
	FileBuffer    []byte
	FileExtension string // ".pdf" or ".docx", derived from the original filename
}

// PersonalInfo represents applicant contact details. All fields are
// optional; any subset may be absent.
type PersonalInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// EducationEntry represents a single education record extracted from a CV
type EducationEntry struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Year        string `json:"year,omitempty"`
}

// QualificationEntry represents a skill or certification extracted from a CV
type QualificationEntry struct {
	Name    string `json:"name,omitempty"`
	Details string `json:"details,omitempty"`
}

// ProjectEntry represents a project extracted from a CV
type ProjectEntry struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Technologies string `json:"technologies,omitempty"`
}

// StructuredExtraction is the fixed schema both extraction paths produce.
// The array fields are always non-nil, possibly empty, so downstream
// consumers never have to distinguish absent from empty.
type StructuredExtraction struct {
	PersonalInfo   PersonalInfo         `json:"personal_info"`
	Education      []EducationEntry     `json:"education"`
	Qualifications []QualificationEntry `json:"qualifications"`
	Projects       []ProjectEntry       `json:"projects"`
}

// EmptyExtraction returns a StructuredExtraction with empty personal info
// and empty (non-nil) arrays.
func EmptyExtraction() StructuredExtraction {
	return StructuredExtraction{
		Education:      []EducationEntry{},
		Qualifications: []QualificationEntry{},
		Projects:       []ProjectEntry{},
	}
}

// EnsureArrays replaces nil array fields with empty slices
func (s *StructuredExtraction) EnsureArrays() {
	if s.Education == nil {
		s.Education = []EducationEntry{}
	}
	if s.Qualifications == nil {
		s.Qualifications = []QualificationEntry{}
	}
	if s.Projects == nil {
		s.Projects = []ProjectEntry{}
	}
}

// Sections holds the coarse single-string sections produced by the
// line-scan heuristic. They are used only as a degraded fallback when
// the AI extraction path is bypassed entirely.
type Sections struct {
	Education      string
	Qualifications string
	Projects       string
}

// IsZero reports whether no section text was captured
func (s Sections) IsZero() bool {
	return s.Education == "" && s.Qualifications == "" && s.Projects == ""
}

// StatusSubmitted is the status assigned to every newly built application record
const StatusSubmitted = "submitted"

// ApplicationRecord is the terminal entity of the intake pipeline.
// It is created once per submission and never mutated after hand-off
// to the ledger and webhook collaborators.
type ApplicationRecord struct {
	PersonalInfo   PersonalInfo         `json:"personal_info"`
	Education      []EducationEntry     `json:"education"`
	Qualifications []QualificationEntry `json:"qualifications"`
	Projects       []ProjectEntry       `json:"projects"`
	CVPublicLink   string               `json:"cv_public_link"`
	Status         string               `json:"status"`
	CreatedAt      string               `json:"created_at"`
	ProcessedAt    string               `json:"processed_at"`
}
