package kavach

import (
	"context"
	"strings"
)

// Placeholders rendered when the backend omits a top-level field.
const (
	DefaultInterpretedIntent = "—"
	DefaultAnswer            = "No answer returned."
)

// Analyzer sends legal questions to the analysis backend.
type Analyzer interface {
	// Analyze submits a request and returns the backend's response with
	// top-level defaults applied.
	// Returns EUNAVAILABLE on transport failures and non-2xx statuses, and
	// EMALFORMED if the response body cannot be interpreted.
	Analyze(ctx context.Context, req *AnalysisRequest) (*AnalysisResponse, error)
}

// AnalysisRequest is the payload posted to the analysis backend.
type AnalysisRequest struct {
	UserQuery string  `json:"user_query"`
	CaseFile  *string `json:"case_file"`
}

// NewAnalysisRequest builds a request for question within scope.
// The question is sent as entered; surrounding whitespace only matters for
// the emptiness check.
func NewAnalysisRequest(question string, scope Scope) (*AnalysisRequest, error) {
	req := &AnalysisRequest{UserQuery: question}
	if !scope.IsGeneral() {
		caseFile := scope.CaseFile()
		req.CaseFile = &caseFile
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate returns an error if the request contains invalid fields.
func (r *AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.UserQuery) == "" {
		return Errorf(EINVALID, "Please enter a question.")
	}
	if r.CaseFile != nil && !IsKnownCase(*r.CaseFile) {
		return Errorf(EINVALID, "Unknown case %q.", *r.CaseFile)
	}
	return nil
}

// AnalysisResponse is the backend's answer to an AnalysisRequest.
type AnalysisResponse struct {
	InterpretedIntent string         `json:"interpreted_intent"`
	Answer            string         `json:"answer"`
	Evidence          []EvidenceItem `json:"evidence"`
}

// EvidenceItem is a cited source supporting an answer.
// Several items may refer to the same file.
type EvidenceItem struct {
	File   string `json:"file"`
	Year   string `json:"year"`
	Source string `json:"source"`
}

// UniqueEvidence returns items with duplicate files removed. The first
// occurrence of each file is kept along with its year and source, and the
// original order is preserved.
func UniqueEvidence(items []EvidenceItem) []EvidenceItem {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	unique := make([]EvidenceItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.File]; ok {
			continue
		}
		seen[item.File] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}
