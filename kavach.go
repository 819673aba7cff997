// Package kavach provides a query console for explainable legal analysis
// of Indian judgments. A user asks a legal question, optionally scoped to
// one known case file, the question is sent to a remote analysis backend,
// and the interpreted intent, answer and supporting evidence are rendered.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, slog/, goldmark/).
package kavach
