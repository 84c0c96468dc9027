// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/applicant-intake/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPersonalInfo outputs the merged contact details.
func (p *Printer) PrintPersonalInfo(info types.PersonalInfo) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", info.Email))
	sb.WriteString(fmt.Sprintf("Phone:  %s", info.Phone))

	p.printBox("PERSONAL INFO", sb.String())
}

// PrintExtraction outputs a human-readable summary of the structured
// extraction.
func (p *Printer) PrintExtraction(extraction types.StructuredExtraction) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Education entries:      %d\n", len(extraction.Education)))
	count := min(len(extraction.Education), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := extraction.Education[i]
		line := entry.Institution
		if entry.Degree != "" {
			line += " — " + entry.Degree
		}
		if entry.Year != "" {
			line += fmt.Sprintf(" (%s)", entry.Year)
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", line))
	}
	if len(extraction.Education) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(extraction.Education)-maxItemsToShow))
	}

	sb.WriteString(fmt.Sprintf("\nQualifications:         %d\n", len(extraction.Qualifications)))
	count = min(len(extraction.Qualifications), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", extraction.Qualifications[i].Name))
	}
	if len(extraction.Qualifications) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(extraction.Qualifications)-maxItemsToShow))
	}

	sb.WriteString(fmt.Sprintf("\nProjects:               %d\n", len(extraction.Projects)))
	count = min(len(extraction.Projects), maxItemsToShow)
	for i := 0; i < count; i++ {
		project := extraction.Projects[i]
		line := project.Name
		if project.Technologies != "" {
			line += fmt.Sprintf(" [%s]", project.Technologies)
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", line))
	}
	if len(extraction.Projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(extraction.Projects)-maxItemsToShow))
	}

	p.printBox("STRUCTURED EXTRACTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplicationRecord outputs the final merged record.
func (p *Printer) PrintApplicationRecord(record types.ApplicationRecord) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Applicant:  %s <%s>\n", record.PersonalInfo.Name, record.PersonalInfo.Email))
	sb.WriteString(fmt.Sprintf("Phone:      %s\n", record.PersonalInfo.Phone))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", record.Status))
	sb.WriteString(fmt.Sprintf("CV link:    %s\n", record.CVPublicLink))
	sb.WriteString(fmt.Sprintf("Created:    %s\n", record.CreatedAt))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Education:       %d entries\n", len(record.Education)))
	sb.WriteString(fmt.Sprintf("Qualifications:  %d entries\n", len(record.Qualifications)))
	sb.WriteString(fmt.Sprintf("Projects:        %d entries", len(record.Projects)))

	p.printBox("APPLICATION RECORD", sb.String())
}

// PrintSections outputs the heuristic section split.
func (p *Printer) PrintSections(sections types.Sections) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Education:       %s\n", summarize(sections.Education)))
	sb.WriteString(fmt.Sprintf("Qualifications:  %s\n", summarize(sections.Qualifications)))
	sb.WriteString(fmt.Sprintf("Projects:        %s", summarize(sections.Projects)))

	p.printBox("HEURISTIC SECTIONS", sb.String())
}

func summarize(text string) string {
	if text == "" {
		return "(none)"
	}
	if len(text) > 35 {
		return text[:32] + "..."
	}
	return text
}
