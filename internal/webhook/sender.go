// Package webhook forwards processed application records to a downstream
// HTTP consumer.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/applicant-intake/internal/types"
)

const defaultTimeout = 15 * time.Second

// CVData is the extracted portion of the webhook payload.
type CVData struct {
	PersonalInfo   types.PersonalInfo         `json:"personal_info"`
	Education      []types.EducationEntry     `json:"education"`
	Qualifications []types.QualificationEntry `json:"qualifications"`
	Projects       []types.ProjectEntry       `json:"projects"`
	CVPublicLink   string                     `json:"cv_public_link"`
}

// Metadata describes the submission the payload belongs to.
type Metadata struct {
	ApplicantName      string `json:"applicant_name"`
	Email              string `json:"email"`
	Status             string `json:"status"`
	CVProcessed        bool   `json:"cv_processed"`
	ProcessedTimestamp string `json:"processed_timestamp"`
}

// Payload is the envelope posted to the webhook endpoint.
type Payload struct {
	CVData   CVData   `json:"cv_data"`
	Metadata Metadata `json:"metadata"`
}

// Sender posts application records to a configured webhook URL.
type Sender struct {
	url            string
	candidateEmail string
	client         *http.Client
	logger         *zap.Logger
}

// NewSender builds a Sender. candidateEmail is attached to every request
// as the X-Candidate-Email header so the consumer can attribute the
// submission batch.
func NewSender(url, candidateEmail string, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		url:            url,
		candidateEmail: candidateEmail,
		client:         &http.Client{Timeout: defaultTimeout},
		logger:         logger,
	}
}

// Send posts the record to the webhook endpoint. Non-2xx responses are
// returned as errors with the response body included.
func (s *Sender) Send(ctx context.Context, record types.ApplicationRecord) error {
	payload := buildPayload(record)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Candidate-Email", s.candidateEmail)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}

	s.logger.Info("webhook delivered",
		zap.String("url", s.url),
		zap.String("applicant", record.PersonalInfo.Email),
		zap.Int("status", resp.StatusCode))
	return nil
}

func buildPayload(record types.ApplicationRecord) Payload {
	return Payload{
		CVData: CVData{
			PersonalInfo:   record.PersonalInfo,
			Education:      record.Education,
			Qualifications: record.Qualifications,
			Projects:       record.Projects,
			CVPublicLink:   record.CVPublicLink,
		},
		Metadata: Metadata{
			ApplicantName:      record.PersonalInfo.Name,
			Email:              record.PersonalInfo.Email,
			Status:             record.Status,
			CVProcessed:        true,
			ProcessedTimestamp: record.ProcessedAt,
		},
	}
}
