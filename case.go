package kavach

import "slices"

// KnownCases lists the case files available in the backend knowledge base,
// in the order they are offered to the user.
var KnownCases = []string{
	"2020_1_90_93_EN.pdf",
	"2020_3_514_524_EN.pdf",
	"2020_6_289_302_EN.pdf",
}

// IsKnownCase reports whether caseFile is one of KnownCases.
func IsKnownCase(caseFile string) bool {
	return slices.Contains(KnownCases, caseFile)
}

// Scope selects whether a question is answered across the whole knowledge
// base or restricted to a single case. The zero value is the general scope.
type Scope struct {
	caseFile string
}

// GeneralScope returns the scope covering all cases.
func GeneralScope() Scope {
	return Scope{}
}

// CaseScope returns a scope restricted to caseFile.
// Returns EINVALID if caseFile is not a known case.
func CaseScope(caseFile string) (Scope, error) {
	if !IsKnownCase(caseFile) {
		return Scope{}, Errorf(EINVALID, "Unknown case %q.", caseFile)
	}
	return Scope{caseFile: caseFile}, nil
}

// IsGeneral reports whether the scope covers all cases.
func (s Scope) IsGeneral() bool {
	return s.caseFile == ""
}

// CaseFile returns the selected case file, or "" for the general scope.
func (s Scope) CaseFile() string {
	return s.caseFile
}

// String returns a human-readable description of the scope.
func (s Scope) String() string {
	if s.IsGeneral() {
		return "general"
	}
	return s.caseFile
}
