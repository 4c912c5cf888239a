// Package handler exposes the verification pipeline over HTTP. All
// routes require an authenticated subject; the auth middleware puts
// the subject ID into the request context.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mentorgate/internal/verification/document"
	"mentorgate/internal/verification/identity"
	"mentorgate/internal/verification/models"
	"mentorgate/internal/verification/service"
	dErrors "mentorgate/pkg/domain-errors"
	"mentorgate/pkg/httputil"
	"mentorgate/pkg/requestcontext"
)

// maxDocumentBodyBytes bounds document submission bodies. Base64
// inflates the payload by a third, so this admits roughly 12MB of
// raw scans per batch.
const maxDocumentBodyBytes = 16 << 20

// Service defines the verification operations the handler needs.
type Service interface {
	Initiate(ctx context.Context, subjectID uuid.UUID, handle string) (*service.InitiateResult, error)
	Complete(ctx context.Context, subjectID uuid.UUID, handle string) (*models.VerificationRecord, error)
	SubmitDocuments(ctx context.Context, subjectID uuid.UUID, submissions []document.Submission) (*models.VerificationRecord, error)
	StartIdentityVerification(ctx context.Context, subjectID uuid.UUID, channel identity.Channel, destination string) error
	ConfirmIdentity(ctx context.Context, subjectID uuid.UUID, token string) (*models.VerificationRecord, error)
	Status(ctx context.Context, subjectID uuid.UUID) (*models.VerificationRecord, error)
}

// Handler handles verification endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a verification Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, logger: logger}
}

// Register registers the verification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/github/initiate", h.handleInitiate)
	r.Post("/verification/github/complete", h.handleComplete)
	r.Post("/verification/documents", h.handleSubmitDocuments)
	r.Post("/verification/identity/start", h.handleStartIdentity)
	r.Post("/verification/identity/confirm", h.handleConfirmIdentity)
	r.Get("/verification/status", h.handleStatus)
}

// subject extracts the authenticated subject ID from the context.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := requestcontext.SubjectID(r.Context())
	if raw == "" {
		h.logger.ErrorContext(r.Context(), "subject missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return uuid.Nil, false
	}
	subjectID, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid subject"))
		return uuid.Nil, false
	}
	return subjectID, true
}

type initiateResponse struct {
	ChallengeCode string    `json:"challenge_code"`
	ExpiresAt     time.Time `json:"expires_at"`
	Instructions  string    `json:"instructions"`
}

const proofInstructions = "Place the challenge code in your GitHub bio, in a file in your mentor-verification repository, or in a public gist, then complete the challenge."

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req initiateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Initiate(ctx, subjectID, req.GitHubHandle)
	if err != nil {
		h.logger.WarnContext(ctx, "initiate failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if !result.Gate.Passed {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":                string(dErrors.CodeRequirements),
			"failing_requirements": result.Gate.Failing,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, initiateResponse{
		ChallengeCode: result.Code,
		ExpiresAt:     result.ExpiresAt,
		Instructions:  proofInstructions,
	})
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.Complete(ctx, subjectID, req.GitHubHandle)
	if err != nil {
		h.logger.WarnContext(ctx, "complete failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleSubmitDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req submitDocumentsRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	submissions := make([]document.Submission, 0, len(req.Documents))
	for _, doc := range req.Documents {
		submissions = append(submissions, document.Submission{
			Data:         doc.Data,
			DeclaredType: doc.Type,
		})
	}

	rec, err := h.service.SubmitDocuments(ctx, subjectID, submissions)
	if err != nil {
		h.logger.WarnContext(ctx, "document submission failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleStartIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req startIdentityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.StartIdentityVerification(ctx, subjectID, req.Channel, req.Destination); err != nil {
		h.logger.WarnContext(ctx, "identity verification start failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "confirmation sent",
	})
}

func (h *Handler) handleConfirmIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req confirmIdentityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.ConfirmIdentity(ctx, subjectID, req.Token)
	if err != nil {
		h.logger.WarnContext(ctx, "identity confirmation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subject(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Status(ctx, subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}
