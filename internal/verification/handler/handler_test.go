package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mentorgate/internal/verification/document"
	"mentorgate/internal/verification/identity"
	"mentorgate/internal/verification/models"
	"mentorgate/internal/verification/service"
	dErrors "mentorgate/pkg/domain-errors"
	"mentorgate/pkg/requestcontext"
)

type stubService struct {
	initiateResult *service.InitiateResult
	initiateErr    error
	completeRec    *models.VerificationRecord
	completeErr    error
	documentsRec   *models.VerificationRecord
	documentsErr   error
	startErr       error
	confirmRec     *models.VerificationRecord
	confirmErr     error
	statusRec      *models.VerificationRecord

	gotHandle      string
	gotSubmissions []document.Submission
}

func (s *stubService) Initiate(_ context.Context, _ uuid.UUID, handle string) (*service.InitiateResult, error) {
	s.gotHandle = handle
	return s.initiateResult, s.initiateErr
}

func (s *stubService) Complete(_ context.Context, _ uuid.UUID, handle string) (*models.VerificationRecord, error) {
	s.gotHandle = handle
	return s.completeRec, s.completeErr
}

func (s *stubService) SubmitDocuments(_ context.Context, _ uuid.UUID, submissions []document.Submission) (*models.VerificationRecord, error) {
	s.gotSubmissions = submissions
	return s.documentsRec, s.documentsErr
}

func (s *stubService) StartIdentityVerification(_ context.Context, _ uuid.UUID, _ identity.Channel, _ string) error {
	return s.startErr
}

func (s *stubService) ConfirmIdentity(_ context.Context, _ uuid.UUID, _ string) (*models.VerificationRecord, error) {
	return s.confirmRec, s.confirmErr
}

func (s *stubService) Status(_ context.Context, _ uuid.UUID) (*models.VerificationRecord, error) {
	return s.statusRec, nil
}

type HandlerSuite struct {
	suite.Suite

	subjectID uuid.UUID
	stub      *stubService
	router    chi.Router
}

func (s *HandlerSuite) SetupTest() {
	s.subjectID = uuid.New()
	s.stub = &stubService{}

	s.router = chi.NewRouter()
	// Stand-in for the auth middleware.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithSubjectID(r.Context(), s.subjectID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	New(s.stub, nil).Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *HandlerSuite) decode(rr *httptest.ResponseRecorder) map[string]any {
	var payload map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &payload))
	return payload
}

func (s *HandlerSuite) TestInitiate() {
	s.stub.initiateResult = &service.InitiateResult{
		Gate:      models.GateResult{Passed: true},
		Code:      "a1b2c3d4e5f60718",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	rr := s.do(http.MethodPost, "/verification/github/initiate", map[string]string{"github_handle": "octocat"})
	s.Require().Equal(http.StatusOK, rr.Code)

	payload := s.decode(rr)
	s.Equal("a1b2c3d4e5f60718", payload["challenge_code"])
	s.NotEmpty(payload["instructions"])
	s.Equal("octocat", s.stub.gotHandle)
}

func (s *HandlerSuite) TestInitiateGateFailure() {
	s.stub.initiateResult = &service.InitiateResult{
		Gate: models.GateResult{
			Passed: false,
			Failing: []models.RequirementShortfall{
				{Requirement: "min_followers", Current: 3, Minimum: 50},
			},
		},
	}

	rr := s.do(http.MethodPost, "/verification/github/initiate", map[string]string{"github_handle": "octocat"})
	s.Require().Equal(http.StatusUnprocessableEntity, rr.Code)

	payload := s.decode(rr)
	s.Equal("requirements_not_met", payload["error"])
	s.Len(payload["failing_requirements"], 1)
}

func (s *HandlerSuite) TestInitiateValidation() {
	rr := s.do(http.MethodPost, "/verification/github/initiate", map[string]string{"github_handle": "  "})
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestInitiateRejectsUnknownFields() {
	rr := s.do(http.MethodPost, "/verification/github/initiate", map[string]string{"handle": "octocat"})
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestCompleteExpiredChallenge() {
	s.stub.completeErr = dErrors.New(dErrors.CodeChallengeExpired, "code expired or not found")

	rr := s.do(http.MethodPost, "/verification/github/complete", map[string]string{"github_handle": "octocat"})
	s.Require().Equal(http.StatusConflict, rr.Code)
	s.Equal("challenge_expired", s.decode(rr)["error"])
}

func (s *HandlerSuite) TestCompleteHandleMismatch() {
	s.stub.completeErr = dErrors.New(dErrors.CodeHandleMismatch, "handle does not match session")

	rr := s.do(http.MethodPost, "/verification/github/complete", map[string]string{"github_handle": "other"})
	s.Require().Equal(http.StatusConflict, rr.Code)
	s.Equal("handle_mismatch", s.decode(rr)["error"])
}

func (s *HandlerSuite) TestComplete() {
	s.stub.completeRec = &models.VerificationRecord{
		SubjectID:      s.subjectID,
		Status:         models.StatusInReview,
		GitHubVerified: true,
		OverallScore:   70,
	}

	rr := s.do(http.MethodPost, "/verification/github/complete", map[string]string{"github_handle": "octocat"})
	s.Require().Equal(http.StatusOK, rr.Code)

	payload := s.decode(rr)
	s.Equal("in_review", payload["status"])
	s.Equal(float64(70), payload["overall_score"])
}

func (s *HandlerSuite) TestSubmitDocuments() {
	s.stub.documentsRec = &models.VerificationRecord{
		SubjectID:         s.subjectID,
		Status:            models.StatusPending,
		DocumentsVerified: true,
	}

	rr := s.do(http.MethodPost, "/verification/documents", map[string]any{
		"documents": []map[string]any{
			{"type": "degree", "data": []byte("scanned bytes")},
		},
	})
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Require().Len(s.stub.gotSubmissions, 1)
	s.Equal(models.DocumentTypeDegree, s.stub.gotSubmissions[0].DeclaredType)
	s.Equal([]byte("scanned bytes"), s.stub.gotSubmissions[0].Data)
}

func (s *HandlerSuite) TestSubmitDocumentsValidation() {
	rr := s.do(http.MethodPost, "/verification/documents", map[string]any{"documents": []any{}})
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestStartIdentity() {
	rr := s.do(http.MethodPost, "/verification/identity/start", map[string]string{
		"channel":     "email",
		"destination": "mentor@example.com",
	})
	s.Equal(http.StatusAccepted, rr.Code)
}

func (s *HandlerSuite) TestStartIdentityValidation() {
	rr := s.do(http.MethodPost, "/verification/identity/start", map[string]string{
		"channel":     "fax",
		"destination": "mentor@example.com",
	})
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestConfirmIdentityInvalidToken() {
	s.stub.confirmErr = dErrors.New(dErrors.CodeUnauthorized, "invalid confirmation token")

	rr := s.do(http.MethodPost, "/verification/identity/confirm", map[string]string{"token": "nope"})
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestStatus() {
	s.stub.statusRec = &models.VerificationRecord{
		SubjectID: s.subjectID,
		Status:    models.StatusPending,
	}

	rr := s.do(http.MethodGet, "/verification/status", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("pending", s.decode(rr)["status"])
}

func (s *HandlerSuite) TestMissingSubjectContext() {
	router := chi.NewRouter()
	New(s.stub, nil).Register(router)

	req := httptest.NewRequest(http.MethodGet, "/verification/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	s.Equal(http.StatusInternalServerError, rr.Code)
}
