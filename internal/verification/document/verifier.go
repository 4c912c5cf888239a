// Package document validates scanned credential documents. A document passes
// when OCR-extracted text satisfies all four checks of its declared type's
// rule set; metadata extraction is best-effort and independent of the verdict.
package document

import (
	"context"
	"log/slog"
	"strings"

	"mentorgate/internal/verification/document/ocr"
	"mentorgate/internal/verification/models"
)

// Failure reason labels appended to verdicts.
const (
	reasonUnknownType   = "unknown document type"
	reasonExtraction    = "text extraction failed"
	reasonKeywords      = "no expected keyword found"
	reasonIssueYear     = "no issue year found"
	reasonInstitution   = "no issuing institution found"
	reasonCredential    = "no credential title found"
	reasonLowConfidence = "ocr confidence below threshold"
)

// Submission is one uploaded document with its declared type.
type Submission struct {
	Data         []byte
	DeclaredType models.DocumentType
}

// Verifier runs OCR extraction and rule validation.
type Verifier struct {
	engine        ocr.Engine
	minConfidence float64
	logger        *slog.Logger
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) { v.logger = logger }
}

// WithMinConfidence turns the surfaced OCR confidence into a pass/fail gate.
// Zero (the default) disables the gate.
func WithMinConfidence(threshold float64) Option {
	return func(v *Verifier) { v.minConfidence = threshold }
}

// New creates a document verifier over the given OCR engine.
func New(engine ocr.Engine, opts ...Option) *Verifier {
	v := &Verifier{engine: engine}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify extracts text from the document and validates it against the rule
// set of its declared type. All four checks must pass for verified=true; each
// failing check appends a human-readable reason. Metadata is populated from
// the original-case text regardless of the verdict.
func (v *Verifier) Verify(ctx context.Context, submission Submission) models.DocumentVerdict {
	verdict := models.DocumentVerdict{DocumentType: submission.DeclaredType}

	rules, ok := RulesFor(submission.DeclaredType)
	if !ok {
		verdict.FailureReasons = append(verdict.FailureReasons, reasonUnknownType)
		return verdict
	}

	result, err := v.engine.Extract(ctx, submission.Data)
	if err != nil {
		if v.logger != nil {
			v.logger.WarnContext(ctx, "ocr extraction failed",
				"document_type", submission.DeclaredType,
				"error", err,
			)
		}
		verdict.FailureReasons = append(verdict.FailureReasons, reasonExtraction)
		return verdict
	}
	verdict.OCRConfidence = result.Confidence

	lowered := strings.ToLower(result.Text)

	if !containsAny(lowered, rules.Keywords) {
		verdict.FailureReasons = append(verdict.FailureReasons, reasonKeywords)
	}
	if !rules.YearPattern.MatchString(lowered) {
		verdict.FailureReasons = append(verdict.FailureReasons, reasonIssueYear)
	}
	if !rules.InstitutionPattern.MatchString(lowered) {
		verdict.FailureReasons = append(verdict.FailureReasons, reasonInstitution)
	}
	if !rules.CredentialPattern.MatchString(lowered) {
		verdict.FailureReasons = append(verdict.FailureReasons, reasonCredential)
	}
	if v.minConfidence > 0 && result.Confidence < v.minConfidence {
		verdict.FailureReasons = append(verdict.FailureReasons, reasonLowConfidence)
	}

	verdict.Verified = len(verdict.FailureReasons) == 0

	// Metadata extraction re-runs the structural patterns against the
	// original-case text, independent of the verdict. Partial population on
	// a failed document is expected.
	verdict.Metadata = models.DocumentMetadata{
		IssueDate:   strings.TrimSpace(rules.YearPattern.FindString(result.Text)),
		Institution: strings.TrimSpace(rules.InstitutionPattern.FindString(result.Text)),
		Credential:  strings.TrimSpace(rules.CredentialPattern.FindString(result.Text)),
	}

	return verdict
}

// ValidateMultiple verifies each document independently. The batch verifies
// when at least one member verifies: a single valid document is sufficient
// proof of credentials.
func (v *Verifier) ValidateMultiple(ctx context.Context, submissions []Submission) (bool, []models.DocumentVerdict) {
	verdicts := make([]models.DocumentVerdict, 0, len(submissions))
	anyVerified := false
	for _, submission := range submissions {
		verdict := v.Verify(ctx, submission)
		anyVerified = anyVerified || verdict.Verified
		verdicts = append(verdicts, verdict)
	}
	return anyVerified, verdicts
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
