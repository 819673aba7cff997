package kavach

import (
	"fmt"
	"strings"
)

// Section titles, in the order they are rendered.
const (
	SectionInterpretedIntent = "Interpreted Intent"
	SectionAnswer            = "Answer"
	SectionEvidence          = "Evidence"
)

// NoEvidence is rendered in place of an empty evidence list.
const NoEvidence = "No evidence returned."

// FormatEvidence formats evidence as a markdown list, one line per file.
// Duplicate files are skipped, keeping the first occurrence.
func FormatEvidence(items []EvidenceItem) string {
	unique := UniqueEvidence(items)
	if len(unique) == 0 {
		return NoEvidence
	}

	lines := make([]string, 0, len(unique))
	for _, item := range unique {
		lines = append(lines, fmt.Sprintf("- **%s** (%s, %s)", item.File, item.Year, item.Source))
	}
	return strings.Join(lines, "\n")
}

// ReportSection is one titled block of a rendered analysis.
type ReportSection struct {
	Title string
	Body  string
}

// FormatSections returns the interpreted intent, answer and evidence
// sections of resp, in that order. Bodies are markdown.
func FormatSections(resp *AnalysisResponse) []ReportSection {
	return []ReportSection{
		{Title: SectionInterpretedIntent, Body: resp.InterpretedIntent},
		{Title: SectionAnswer, Body: resp.Answer},
		{Title: SectionEvidence, Body: FormatEvidence(resp.Evidence)},
	}
}

// FormatAnalysis formats resp as a markdown report with one level-2
// heading per section. Sections are separated by blank lines.
func FormatAnalysis(resp *AnalysisResponse) string {
	sections := FormatSections(resp)
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, "## "+s.Title+"\n\n"+s.Body)
	}
	return strings.Join(parts, "\n\n")
}
