// Package slog provides log/slog decorators for kavach services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kavach"
)

// Ensure LoggingAnalyzer implements kavach.Analyzer.
var _ kavach.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer with request logging.
type LoggingAnalyzer struct {
	next   kavach.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next kavach.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the call.
// The question text is not logged, only its length.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, req *kavach.AnalysisRequest) (resp *kavach.AnalysisResponse, err error) {
	defer func(begin time.Time) {
		caseFile := "(general)"
		if req.CaseFile != nil {
			caseFile = *req.CaseFile
		}
		evidence := 0
		if resp != nil {
			evidence = len(resp.Evidence)
		}
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		a.logger.Log(ctx, level, "analyze",
			"request_id", kavach.SubmissionIDFromContext(ctx),
			"case_file", caseFile,
			"query_len", len(req.UserQuery),
			"evidence", evidence,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(ctx, req)
}
