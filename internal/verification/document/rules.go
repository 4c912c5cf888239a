package document

import (
	"regexp"

	"mentorgate/internal/verification/models"
)

// RuleSet defines the validation rules for one document type. Keyword
// validation passes when at least one keyword is present; the three structural
// patterns must each match. Patterns are case-insensitive so the same table
// serves both the lowercased validation pass and the original-case metadata
// extraction.
type RuleSet struct {
	Keywords           []string
	YearPattern        *regexp.Regexp
	InstitutionPattern *regexp.Regexp
	CredentialPattern  *regexp.Regexp
}

// yearPattern accepts plausible issue years; shared by all rule sets.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ruleSets is the immutable rule table keyed by declared document type.
var ruleSets = map[models.DocumentType]RuleSet{
	models.DocumentTypeDegree: {
		Keywords: []string{
			"degree", "bachelor", "master", "doctor", "diploma", "graduated",
		},
		YearPattern:        yearPattern,
		InstitutionPattern: regexp.MustCompile(`(?i)\b(university|institute|college|school)\b[^\n.,]*`),
		CredentialPattern:  regexp.MustCompile(`(?i)\b(bachelor|master|doctor(ate)?|ph\.?d|b\.?sc?|m\.?sc?|mba)\b[^\n.,]*`),
	},
	models.DocumentTypeCertificate: {
		Keywords: []string{
			"certificate", "certification", "certified", "completion", "awarded",
		},
		YearPattern:        yearPattern,
		InstitutionPattern: regexp.MustCompile(`(?i)\b(academy|institute|university|college|school|organization|foundation)\b[^\n.,]*`),
		CredentialPattern:  regexp.MustCompile(`(?i)\b(certificate|certification|certified)\b\s+(of|in|as)?\s*[^\n.,]*`),
	},
	models.DocumentTypeLicense: {
		Keywords: []string{
			"license", "licensed", "licence", "registration", "board", "practice",
		},
		YearPattern:        yearPattern,
		InstitutionPattern: regexp.MustCompile(`(?i)\b(board|authority|council|ministry|department|commission)\b[^\n.,]*`),
		CredentialPattern:  regexp.MustCompile(`(?i)\b(licensed?|licence|registration)\b\s*(to|as|no\.?|number)?\s*[^\n.,]*`),
	},
}

// RulesFor resolves the rule set for a declared type.
func RulesFor(declaredType models.DocumentType) (RuleSet, bool) {
	rules, ok := ruleSets[declaredType]
	return rules, ok
}

// SupportedTypes lists the document types the verifier accepts.
func SupportedTypes() []models.DocumentType {
	return []models.DocumentType{
		models.DocumentTypeDegree,
		models.DocumentTypeCertificate,
		models.DocumentTypeLicense,
	}
}
