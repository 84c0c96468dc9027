// Package extraction wraps the LLM client in the structured-extraction
// contract: it always returns a usable StructuredExtraction, degrading
// to empty data on any failure instead of propagating an error.
package extraction

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/applicant-intake/internal/llm"
	"github.com/jonathan/applicant-intake/internal/schemas"
	"github.com/jonathan/applicant-intake/internal/types"
)

// DefaultTimeout bounds the LLM call. Expiry is treated like any other
// extraction failure.
const DefaultTimeout = 60 * time.Second

// Extractor runs LLM-assisted structured extraction over decoded CV text.
type Extractor struct {
	client  llm.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewExtractor creates an Extractor. A zero timeout falls back to
// DefaultTimeout; a nil logger disables logging.
func NewExtractor(client llm.Client, logger *zap.Logger, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{client: client, logger: logger, timeout: timeout}
}

// extractionPayload mirrors the JSON object shape requested from the
// model. Keys absent from the payload default independently.
type extractionPayload struct {
	PersonalInfo   types.PersonalInfo         `json:"personal_info"`
	Education      []types.EducationEntry     `json:"education"`
	Qualifications []types.QualificationEntry `json:"qualifications"`
	Projects       []types.ProjectEntry       `json:"projects"`
}

// Extract sends the CV text to the model and parses the structured
// result out of the free-form response. It never fails: network errors,
// unrecognizable responses, JSON parse failures, and schema violations
// are all logged and degrade to the all-empty extraction so the intake
// pipeline always completes.
func (e *Extractor) Extract(ctx context.Context, text string) types.StructuredExtraction {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := llm.BuildCVExtractionPrompt(text)

	response, err := e.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		e.logger.Error("structured extraction call failed", zap.Error(err))
		return types.EmptyExtraction()
	}

	payload, found := llm.ExtractJSONPayload(response)
	if !found {
		e.logger.Error("no JSON payload in model response",
			zap.String("response", response))
		return types.EmptyExtraction()
	}

	if err := schemas.ValidateExtractionPayload(payload); err != nil {
		e.logger.Error("extraction payload failed schema validation",
			zap.Error(err),
			zap.String("response", response),
			zap.String("payload", payload))
		return types.EmptyExtraction()
	}

	var parsed extractionPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		e.logger.Error("failed to parse extraction payload",
			zap.Error(err),
			zap.String("response", response),
			zap.String("payload", payload))
		return types.EmptyExtraction()
	}

	out := types.StructuredExtraction{
		PersonalInfo:   parsed.PersonalInfo,
		Education:      parsed.Education,
		Qualifications: parsed.Qualifications,
		Projects:       parsed.Projects,
	}
	out.EnsureArrays()
	return out
}
