package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/applicant-intake/internal/types"
)

func testRecord() types.ApplicationRecord {
	return types.ApplicationRecord{
		PersonalInfo: types.PersonalInfo{
			Name:  "Jane Doe",
			Email: "jane.doe@example.com",
			Phone: "+1 415 555 0101",
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc", Year: "2019"},
		},
		Qualifications: []types.QualificationEntry{},
		Projects:       []types.ProjectEntry{},
		CVPublicLink:   "http://localhost:3000/files/abc.pdf",
		Status:         types.StatusSubmitted,
		CreatedAt:      "2025-03-14T09:26:53Z",
		ProcessedAt:    "2025-03-14T09:26:53Z",
	}
}

func TestSendPostsEnvelope(t *testing.T) {
	var (
		gotBody   []byte
		gotHeader http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewSender(server.URL, "recruiter@example.com", zaptest.NewLogger(t))
	require.NoError(t, sender.Send(context.Background(), testRecord()))

	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "recruiter@example.com", gotHeader.Get("X-Candidate-Email"))

	var payload Payload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "Jane Doe", payload.CVData.PersonalInfo.Name)
	assert.Equal(t, "http://localhost:3000/files/abc.pdf", payload.CVData.CVPublicLink)
	assert.Equal(t, "Jane Doe", payload.Metadata.ApplicantName)
	assert.Equal(t, "jane.doe@example.com", payload.Metadata.Email)
	assert.Equal(t, types.StatusSubmitted, payload.Metadata.Status)
	assert.True(t, payload.Metadata.CVProcessed)
	assert.Equal(t, "2025-03-14T09:26:53Z", payload.Metadata.ProcessedTimestamp)
}

func TestSendEnvelopeKeysMatchContract(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sender := NewSender(server.URL, "recruiter@example.com", zaptest.NewLogger(t))
	require.NoError(t, sender.Send(context.Background(), testRecord()))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gotBody, &raw))
	assert.Contains(t, raw, "cv_data")
	assert.Contains(t, raw, "metadata")

	var cvData map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["cv_data"], &cvData))
	for _, key := range []string{"personal_info", "education", "qualifications", "projects", "cv_public_link"} {
		assert.Contains(t, cvData, key)
	}
}

func TestSendRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	sender := NewSender(server.URL, "recruiter@example.com", zaptest.NewLogger(t))
	err := sender.Send(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestSendPropagatesContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := NewSender(server.URL, "recruiter@example.com", zaptest.NewLogger(t))
	require.Error(t, sender.Send(ctx, testRecord()))
}
