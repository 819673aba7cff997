package mock

import (
	"context"

	"github.com/fwojciec/kavach"
)

var _ kavach.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of kavach.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, req *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error)
}

func (a *Analyzer) Analyze(ctx context.Context, req *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
	return a.AnalyzeFn(ctx, req)
}
