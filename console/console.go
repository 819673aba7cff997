// Package console implements the query console: it validates a question,
// submits it to an Analyzer and turns the outcome into a result that a
// surface (terminal or web page) can display.
package console

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/kavach"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// BusyMessage is shown while an analysis request is outstanding.
const BusyMessage = "Analyzing with legal context..."

// State is the stage a submission has reached.
type State int

const (
	// StateIdle is the terminal state of a submission rejected before any
	// request was made. The Result carries a warning.
	StateIdle State = iota
	StateValidating
	StateRequesting
	StateRendered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRequesting:
		return "requesting"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BusyFunc is called once a request is about to be sent.
type BusyFunc func(message string)

// Result holds the outcome of a single submission.
type Result struct {
	ID       string
	State    State
	Warning  string
	Err      error
	Response *kavach.AnalysisResponse
}

// Sections returns the rendered sections, or nil unless the submission
// reached StateRendered.
func (r *Result) Sections() []kavach.ReportSection {
	if r.State != StateRendered {
		return nil
	}
	return kavach.FormatSections(r.Response)
}

// Report returns the markdown report, or "" unless the submission reached
// StateRendered.
func (r *Result) Report() string {
	if r.State != StateRendered {
		return ""
	}
	return kavach.FormatAnalysis(r.Response)
}

// ErrorMessage returns the user-facing failure message, or "" unless the
// submission reached StateFailed.
func (r *Result) ErrorMessage() string {
	if r.State != StateFailed {
		return ""
	}
	return "Backend error: " + describe(r.Err)
}

// Console submits questions to an Analyzer. At most one request is
// outstanding at a time; concurrent submissions wait their turn.
type Console struct {
	analyzer kavach.Analyzer
	sem      *semaphore.Weighted

	// NewID generates submission IDs. Defaults to random UUIDs.
	NewID func() string
}

// NewConsole creates a Console backed by analyzer.
func NewConsole(analyzer kavach.Analyzer) *Console {
	return &Console{
		analyzer: analyzer,
		sem:      semaphore.NewWeighted(1),
		NewID:    uuid.NewString,
	}
}

// Submit validates question and, if it is not blank, sends exactly one
// analysis request for it within scope. The busy callback, if provided, is
// called before the request is sent.
func (c *Console) Submit(ctx context.Context, question string, scope kavach.Scope, busy BusyFunc) *Result {
	result := &Result{ID: c.NewID(), State: StateValidating}

	req, err := kavach.NewAnalysisRequest(question, scope)
	if err != nil {
		result.State = StateIdle
		result.Warning = kavach.ErrorMessage(err)
		return result
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		result.State = StateFailed
		result.Err = err
		return result
	}
	defer c.sem.Release(1)

	result.State = StateRequesting
	if busy != nil {
		busy(BusyMessage)
	}

	resp, err := c.analyzer.Analyze(kavach.NewContextWithSubmissionID(ctx, result.ID), req)
	if err != nil {
		result.State = StateFailed
		result.Err = err
		return result
	}
	if resp == nil {
		result.State = StateFailed
		result.Err = kavach.Errorf(kavach.EMALFORMED, "empty response")
		return result
	}

	result.State = StateRendered
	result.Response = resp
	return result
}

// describe returns the most specific description available for err.
func describe(err error) string {
	var e *kavach.Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}
