package heuristics

import (
	"strings"

	"github.com/jonathan/applicant-intake/internal/types"
)

// sectionKeywords maps heading keywords to the section they open. A line
// whose lowercase content contains any keyword switches the scan to that
// section.
var sectionKeywords = []struct {
	section  string
	keywords []string
}{
	{"education", []string{"education", "academic background", "academic qualifications"}},
	{"qualifications", []string{"qualifications", "skills", "certifications"}},
	{"projects", []string{"projects", "experience", "work experience"}},
}

// SplitSections scans text line by line and buckets it into coarse
// single-string sections. Lines accumulate into the current section's
// buffer until the next heading keyword, at which point the buffer is
// flushed. Sections never seen remain empty strings.
func SplitSections(text string) types.Sections {
	var sections types.Sections
	var buffer []string
	current := ""

	flush := func() {
		if current == "" || len(buffer) == 0 {
			return
		}
		setSection(&sections, current, strings.Join(buffer, " "))
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, ok := matchSectionHeading(line); ok {
			flush()
			current = section
			buffer = buffer[:0]
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	return sections
}

func matchSectionHeading(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, entry := range sectionKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.section, true
			}
		}
	}
	return "", false
}

func setSection(s *types.Sections, name, text string) {
	switch name {
	case "education":
		s.Education = text
	case "qualifications":
		s.Qualifications = text
	case "projects":
		s.Projects = text
	}
}

// FallbackExtraction converts coarse sections into the structured shape,
// one entry per non-empty section carrying the section text. It is used
// only when the AI extraction path is bypassed entirely.
func FallbackExtraction(sections types.Sections) types.StructuredExtraction {
	out := types.EmptyExtraction()

	if sections.Education != "" {
		out.Education = append(out.Education, types.EducationEntry{Institution: sections.Education})
	}
	if sections.Qualifications != "" {
		out.Qualifications = append(out.Qualifications, types.QualificationEntry{Details: sections.Qualifications})
	}
	if sections.Projects != "" {
		out.Projects = append(out.Projects, types.ProjectEntry{Description: sections.Projects})
	}

	return out
}
