// Package view derives the displayable state for the active paper.
// Derivation is pure: the same (paper, credential) pair always yields
// the same State, and callers recompute it after every event that could
// change an input instead of patching flags in place.
package view

import (
	"fmt"
	"strings"

	"github.com/csheth/aidaily/internal/daily"
)

// Fixed fallbacks for absent fields.
const (
	UntitledPlaceholder = "Untitled"
	UnknownAuthors      = "Unknown authors"
	AbstractPlaceholder = "No abstract available for this paper."
	SummaryPlaceholder  = "No AI summary yet. Press s to request one with your saved API key."
)

// Summarize affordance labels, in priority order: a missing key wins
// over a missing PDF, which wins over the cached-summary relabel.
const (
	LabelKeyRequired = "API Key Required"
	LabelNoPDF       = "No PDF Available"
	LabelResummarize = "Re-summarize Paper"
	LabelSummarize   = "Summarize Paper"
	LabelInFlight    = "Summarizing…"
)

// Renderer converts summary markdown into displayable text.
type Renderer func(string) string

// State is the derived, displayable form of one paper.
type State struct {
	DisplayTitle     string
	DisplayAuthors   string
	Published        string
	Abstract         string
	SummaryBody      string
	HasCachedSummary bool
	CanReadFullText  bool
	CanSummarize     bool
	SummarizeLabel   string
}

// Derive computes the view state for a paper under the given credential.
// A nil renderer passes the cached summary through untouched.
func Derive(p daily.Paper, apiKey string, render Renderer) State {
	s := State{
		DisplayTitle:     strings.TrimSpace(p.Title),
		DisplayAuthors:   FormatAuthors(p.Authors),
		Published:        strings.TrimSpace(p.Published),
		Abstract:         strings.TrimSpace(p.Summary),
		HasCachedSummary: p.HasSummary(),
		CanReadFullText:  p.HasPDF(),
	}
	if s.DisplayTitle == "" {
		s.DisplayTitle = UntitledPlaceholder
	}
	if s.Abstract == "" {
		s.Abstract = AbstractPlaceholder
	}

	if s.HasCachedSummary {
		if render != nil {
			s.SummaryBody = render(p.SummarizedText)
		} else {
			s.SummaryBody = p.SummarizedText
		}
	} else {
		s.SummaryBody = SummaryPlaceholder
	}

	hasKey := strings.TrimSpace(apiKey) != ""
	s.CanSummarize = s.CanReadFullText && hasKey

	switch {
	case !hasKey:
		s.SummarizeLabel = LabelKeyRequired
	case !s.CanReadFullText:
		s.SummarizeLabel = LabelNoPDF
	case s.HasCachedSummary:
		s.SummarizeLabel = LabelResummarize
	default:
		s.SummarizeLabel = LabelSummarize
	}
	return s
}

// FormatAuthors renders an author list for the detail header. Three or
// more authors deliberately collapse to the first name plus "et al.".
func FormatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return UnknownAuthors
	case 1:
		return authors[0]
	case 2:
		return fmt.Sprintf("%s and %s", authors[0], authors[1])
	default:
		return fmt.Sprintf("%s et al.", authors[0])
	}
}
