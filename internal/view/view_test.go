package view

import (
	"reflect"
	"strings"
	"testing"

	"github.com/csheth/aidaily/internal/daily"
)

func TestFormatAuthors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"none", nil, UnknownAuthors},
		{"empty slice", []string{}, UnknownAuthors},
		{"one", []string{"Ada Lovelace"}, "Ada Lovelace"},
		{"two", []string{"Ada Lovelace", "Alan Turing"}, "Ada Lovelace and Alan Turing"},
		{"three", []string{"Ada Lovelace", "Alan Turing", "Grace Hopper"}, "Ada Lovelace et al."},
		{"many", []string{"A", "B", "C", "D", "E"}, "A et al."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatAuthors(tt.authors); got != tt.want {
				t.Fatalf("FormatAuthors(%v) = %q, want %q", tt.authors, got, tt.want)
			}
		})
	}
}

func TestCanSummarizeRequiresBothKeyAndPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pdfURL string
		apiKey string
		want   bool
	}{
		{"both present", "https://arxiv.org/pdf/1.pdf", "sk-123", true},
		{"no key", "https://arxiv.org/pdf/1.pdf", "", false},
		{"whitespace key", "https://arxiv.org/pdf/1.pdf", "   ", false},
		{"no pdf", "", "sk-123", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := Derive(daily.Paper{ID: "1", PDFURL: tt.pdfURL}, tt.apiKey, nil)
			if state.CanSummarize != tt.want {
				t.Fatalf("CanSummarize = %v, want %v", state.CanSummarize, tt.want)
			}
		})
	}
}

func TestSummarizeLabelPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		paper  daily.Paper
		apiKey string
		want   string
	}{
		{"key missing wins over missing pdf", daily.Paper{ID: "1"}, "", LabelKeyRequired},
		{"key missing with pdf", daily.Paper{ID: "1", PDFURL: "u"}, "", LabelKeyRequired},
		{"no pdf with key", daily.Paper{ID: "1"}, "sk", LabelNoPDF},
		{"fresh", daily.Paper{ID: "1", PDFURL: "u"}, "sk", LabelSummarize},
		{"cached", daily.Paper{ID: "1", PDFURL: "u", SummarizedText: "## Done"}, "sk", LabelResummarize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := Derive(tt.paper, tt.apiKey, nil)
			if state.SummarizeLabel != tt.want {
				t.Fatalf("SummarizeLabel = %q, want %q", state.SummarizeLabel, tt.want)
			}
		})
	}
}

func TestDeriveDefaultsAbsentFields(t *testing.T) {
	t.Parallel()

	state := Derive(daily.Paper{ID: "1"}, "", nil)
	if state.DisplayTitle != UntitledPlaceholder {
		t.Fatalf("DisplayTitle = %q, want %q", state.DisplayTitle, UntitledPlaceholder)
	}
	if state.Abstract != AbstractPlaceholder {
		t.Fatalf("Abstract = %q, want %q", state.Abstract, AbstractPlaceholder)
	}
	if state.DisplayAuthors != UnknownAuthors {
		t.Fatalf("DisplayAuthors = %q, want %q", state.DisplayAuthors, UnknownAuthors)
	}
	if state.SummaryBody != SummaryPlaceholder {
		t.Fatalf("SummaryBody = %q, want the fixed placeholder", state.SummaryBody)
	}
}

func TestDeriveRendersCachedSummary(t *testing.T) {
	t.Parallel()

	rendered := false
	renderer := func(src string) string {
		rendered = true
		return "RENDERED:" + src
	}

	paper := daily.Paper{ID: "1", Title: "T", PDFURL: "u", SummarizedText: "**bold**"}
	state := Derive(paper, "sk", renderer)
	if !rendered {
		t.Fatal("renderer was not invoked for a cached summary")
	}
	if state.SummaryBody != "RENDERED:**bold**" {
		t.Fatalf("SummaryBody = %q", state.SummaryBody)
	}
	if strings.Contains(state.SummaryBody, SummaryPlaceholder) {
		t.Fatal("cached summary must not fall back to the placeholder")
	}

	// no cached summary: the renderer must not run at all
	rendered = false
	state = Derive(daily.Paper{ID: "2"}, "sk", renderer)
	if rendered {
		t.Fatal("renderer must not run without a cached summary")
	}
	if state.SummaryBody != SummaryPlaceholder {
		t.Fatalf("SummaryBody = %q, want the fixed placeholder", state.SummaryBody)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	t.Parallel()

	paper := daily.Paper{
		ID:             "2401.001",
		Title:          "A Paper",
		Authors:        []string{"A", "B", "C"},
		Summary:        "An abstract.",
		PDFURL:         "https://arxiv.org/pdf/2401.001.pdf",
		SummarizedText: "# Summary",
	}
	first := Derive(paper, "sk-123", nil)
	second := Derive(paper, "sk-123", nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivation is not idempotent:\n%#v\n%#v", first, second)
	}
}
