package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-intake/internal/decode"
	"github.com/jonathan/applicant-intake/internal/pipeline"
	"github.com/jonathan/applicant-intake/internal/record"
	"github.com/jonathan/applicant-intake/internal/storage"
	"github.com/jonathan/applicant-intake/internal/types"
)

// maxUploadBytes caps the CV upload size at 10MB.
const maxUploadBytes = 10 << 20

// submitRequest holds the form fields of a submission.
type submitRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Phone string `validate:"omitempty,min=7"`
}

// submitResponse is the body returned on a successful submission.
type submitResponse struct {
	Message        string `json:"message"`
	Reference      string `json:"reference"`
	EmailScheduled bool   `json:"emailScheduled"`
}

// handleSubmit accepts a multipart CV submission and runs it through the
// processing pipeline.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload exceeds the 10MB limit")
		return
	}

	req := submitRequest{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
	}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.errorResponse(w, http.StatusBadRequest,
				"invalid field: "+strings.ToLower(verrs[0].Field()))
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid submission")
		return
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "cv file is required")
		return
	}
	defer file.Close()

	extension := strings.ToLower(filepath.Ext(header.Filename))
	if extension != ".pdf" && extension != ".docx" {
		s.errorResponse(w, http.StatusUnsupportedMediaType,
			"unsupported CV format: only .pdf and .docx are accepted")
		return
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	saved, err := s.store.Save(ctx, buf, extension)
	if err != nil {
		s.logger.Error("failed to store CV", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to store CV")
		return
	}

	rec, err := pipeline.Run(ctx, pipeline.Options{
		Submission: types.RawSubmission{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			FileBuffer:    buf,
			FileExtension: extension,
		},
		Extractor:    s.extractor,
		CVPublicLink: saved.PublicURL,
		Builder:      record.NewBuilder(),
	})
	if err != nil {
		var decodeErr *decode.DecodeError
		if errors.As(err, &decodeErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity,
				"could not extract text from the uploaded CV")
			return
		}
		s.logger.Error("pipeline failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to process application")
		return
	}

	reference := storage.Reference(saved.Name)

	if err := s.ledger.Append(rec); err != nil {
		s.logger.Error("failed to append to ledger", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to record application")
		return
	}

	if s.webhook != nil {
		if err := s.webhook.Send(ctx, rec); err != nil {
			s.logger.Error("failed to deliver webhook", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "failed to forward application")
			return
		}
	}

	// Persistence and scheduling are best-effort: the applicant already
	// has a complete submission at this point.
	if s.records != nil {
		if err := s.records.SaveApplication(ctx, reference, rec); err != nil {
			s.logger.Warn("failed to persist application record",
				zap.String("reference", reference), zap.Error(err))
		}
	}
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleFollowUp(ctx, req.Email, req.Name); err != nil {
			s.logger.Warn("failed to schedule follow-up email",
				zap.String("email", req.Email), zap.Error(err))
		}
	}

	s.logger.Info("application submitted",
		zap.String("reference", reference),
		zap.String("email", req.Email))

	s.jsonResponse(w, http.StatusCreated, submitResponse{
		Message:        "Application submitted successfully",
		Reference:      reference,
		EmailScheduled: true,
	})
}

// handleGetApplication returns a stored record by its reference.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		s.errorResponse(w, http.StatusNotFound, "application lookups are not enabled")
		return
	}

	reference := r.PathValue("reference")
	rec, err := s.records.GetApplication(r.Context(), reference)
	if err != nil {
		s.logger.Error("failed to load application",
			zap.String("reference", reference), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load application")
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

// handleGetFile serves an uploaded CV by its stored name.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("name"))
	if name == "." || name == "/" {
		s.errorResponse(w, http.StatusBadRequest, "invalid file name")
		return
	}

	http.ServeFile(w, r, filepath.Join(s.storageDir, name))
}
