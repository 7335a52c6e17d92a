package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicDocument(t *testing.T) {
	t.Parallel()

	source := strings.Join([]string{
		"# Key Findings",
		"",
		"The method works on **long** inputs.",
		"",
		"- first point",
		"- second point",
		"",
		"1. ordered one",
		"2. ordered two",
	}, "\n")

	got := NewRenderer(60).Render(source)
	for _, want := range []string{"Key Findings", "The method works", "• first point", "• second point", "1. ordered one", "2. ordered two"} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "**") {
		t.Fatalf("markdown syntax leaked into output:\n%s", got)
	}
	if strings.Contains(got, "# ") {
		t.Fatalf("heading marker leaked into output:\n%s", got)
	}
}

func TestRenderWrapsLongLines(t *testing.T) {
	t.Parallel()

	source := strings.Repeat("word ", 40)
	got := NewRenderer(40).Render(source)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 40 {
			t.Fatalf("line exceeds wrap width: %q", line)
		}
	}
}

func TestRenderEmptyInput(t *testing.T) {
	t.Parallel()

	if got := NewRenderer(60).Render("   \n  "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderDegradesOnMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{"unclosed link", "[broken](http://example.com"},
		{"unclosed emphasis", "**never closed"},
		{"stray html", "<div><span>text"},
		{"unterminated fence", "```go\nfunc main() {"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewRenderer(60).Render(tt.source)
			if strings.TrimSpace(got) == "" {
				t.Fatalf("malformed input %q rendered to nothing", tt.source)
			}
		})
	}
}

func TestRenderBlockquoteAndCode(t *testing.T) {
	t.Parallel()

	source := "> quoted line\n\n    indented code"
	got := NewRenderer(60).Render(source)
	if !strings.Contains(got, "quoted line") {
		t.Fatalf("blockquote content missing:\n%s", got)
	}
	if !strings.Contains(got, "indented code") {
		t.Fatalf("code content missing:\n%s", got)
	}
}
