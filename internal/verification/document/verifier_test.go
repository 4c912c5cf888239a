package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"mentorgate/internal/verification/document/ocr"
	"mentorgate/internal/verification/models"
)

// fakeEngine returns the result registered for the document's first byte tag.
type fakeEngine struct {
	results map[byte]ocr.Result
	err     error
}

func (f *fakeEngine) Extract(_ context.Context, document []byte) (ocr.Result, error) {
	if f.err != nil {
		return ocr.Result{}, f.err
	}
	if len(document) == 0 {
		return ocr.Result{}, nil
	}
	return f.results[document[0]], nil
}

const degreeText = `This certifies that Jane Doe was awarded the Degree of
Master of Science in Computer Science by the University of Somewhere in 2019.`

const junkText = `lorem ipsum dolor sit amet`

type VerifierSuite struct {
	suite.Suite
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) TestValidDegree() {
	engine := &fakeEngine{results: map[byte]ocr.Result{'a': {Text: degreeText, Confidence: 92}}}
	v := New(engine)

	verdict := v.Verify(context.Background(), Submission{Data: []byte("a"), DeclaredType: models.DocumentTypeDegree})
	s.True(verdict.Verified)
	s.Empty(verdict.FailureReasons)
	s.Equal(92.0, verdict.OCRConfidence)

	// Metadata keeps the original casing.
	s.Equal("2019", verdict.Metadata.IssueDate)
	s.Contains(verdict.Metadata.Institution, "University of Somewhere")
	s.Contains(verdict.Metadata.Credential, "Master of Science")
}

func (s *VerifierSuite) TestInvalidDocumentItemizesReasons() {
	engine := &fakeEngine{results: map[byte]ocr.Result{'j': {Text: junkText, Confidence: 80}}}
	v := New(engine)

	verdict := v.Verify(context.Background(), Submission{Data: []byte("j"), DeclaredType: models.DocumentTypeDegree})
	s.False(verdict.Verified)
	s.ElementsMatch(verdict.FailureReasons, []string{
		reasonKeywords, reasonIssueYear, reasonInstitution, reasonCredential,
	})
}

func (s *VerifierSuite) TestMetadataPopulatedEvenOnFailure() {
	// Has a year and institution but no degree keywords or credential title.
	text := "Issued by the University of Elsewhere in 2021"
	engine := &fakeEngine{results: map[byte]ocr.Result{'p': {Text: text, Confidence: 70}}}
	v := New(engine)

	verdict := v.Verify(context.Background(), Submission{Data: []byte("p"), DeclaredType: models.DocumentTypeDegree})
	s.False(verdict.Verified)
	s.Equal("2021", verdict.Metadata.IssueDate)
	s.Contains(verdict.Metadata.Institution, "University of Elsewhere")
}

func (s *VerifierSuite) TestUnknownTypeFailsWithoutExtraction() {
	engine := &fakeEngine{err: errors.New("engine must not be called")}
	v := New(engine)

	verdict := v.Verify(context.Background(), Submission{Data: []byte("x"), DeclaredType: "passport"})
	s.False(verdict.Verified)
	s.Equal([]string{reasonUnknownType}, verdict.FailureReasons)
}

func (s *VerifierSuite) TestExtractionFailureDegradesToUnverified() {
	engine := &fakeEngine{err: errors.New("ocr crashed")}
	v := New(engine)

	verdict := v.Verify(context.Background(), Submission{Data: []byte("x"), DeclaredType: models.DocumentTypeCertificate})
	s.False(verdict.Verified)
	s.Equal([]string{reasonExtraction}, verdict.FailureReasons)
}

func (s *VerifierSuite) TestConfidenceGateWhenConfigured() {
	engine := &fakeEngine{results: map[byte]ocr.Result{'a': {Text: degreeText, Confidence: 40}}}
	v := New(engine, WithMinConfidence(60))

	verdict := v.Verify(context.Background(), Submission{Data: []byte("a"), DeclaredType: models.DocumentTypeDegree})
	s.False(verdict.Verified)
	s.Contains(verdict.FailureReasons, reasonLowConfidence)
}

// Batch semantics: verified = OR over members, one verdict per input, each
// verdict independent of the others.
func (s *VerifierSuite) TestValidateMultipleORSemantics() {
	engine := &fakeEngine{results: map[byte]ocr.Result{
		'j': {Text: junkText, Confidence: 80},
		'a': {Text: degreeText, Confidence: 90},
	}}
	v := New(engine)

	verified, verdicts := v.ValidateMultiple(context.Background(), []Submission{
		{Data: []byte("j"), DeclaredType: models.DocumentTypeDegree},
		{Data: []byte("a"), DeclaredType: models.DocumentTypeDegree},
	})
	s.True(verified)
	s.Require().Len(verdicts, 2)
	s.False(verdicts[0].Verified)
	s.True(verdicts[1].Verified)
}

func (s *VerifierSuite) TestValidateMultipleAllInvalid() {
	engine := &fakeEngine{results: map[byte]ocr.Result{'j': {Text: junkText}}}
	v := New(engine)

	verified, verdicts := v.ValidateMultiple(context.Background(), []Submission{
		{Data: []byte("j"), DeclaredType: models.DocumentTypeLicense},
	})
	s.False(verified)
	s.Len(verdicts, 1)
}
