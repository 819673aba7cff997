package kavach

import "context"

type submissionIDKey struct{}

// NewContextWithSubmissionID returns a copy of ctx carrying the submission ID.
func NewContextWithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDKey{}, id)
}

// SubmissionIDFromContext returns the submission ID stored in ctx, if any.
func SubmissionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(submissionIDKey{}).(string)
	return id
}
