// Package llm - extractor.go builds the CV structured-extraction prompt.
package llm

import "strings"

// cvExtractionInstructions is the fixed contract sent with every CV. The
// JSON shape here must stay in sync with types.StructuredExtraction and
// the embedded schema in internal/schemas.
const cvExtractionInstructions = `Parse the following CV text and extract structured information in JSON format.
Extract the following sections:
1. Personal Information (name, contact details if present)
2. Education (list of institutions, degrees, years)
3. Qualifications/Skills (list of skills, certifications, etc.)
4. Projects (list of projects with name, description, and technologies used)

Return the data in the following JSON structure:
{
  "personal_info": { },
  "education": [ { "institution": "", "degree": "", "year": "" }, ... ],
  "qualifications": [ { "name": "", "details": "" }, ... ],
  "projects": [ { "name": "", "description": "", "technologies": "" }, ... ]
}
`

// BuildCVExtractionPrompt constructs the extraction prompt, embedding the
// decoded CV text verbatim.
func BuildCVExtractionPrompt(cvText string) string {
	var sb strings.Builder
	sb.WriteString(cvExtractionInstructions)
	sb.WriteString("\nCV Text:\n")
	sb.WriteString(cvText)
	sb.WriteString("\n")
	return sb.String()
}
