package history

import (
	"fmt"
	"testing"

	"github.com/csheth/aidaily/internal/daily"
)

func papersNamed(n int) []daily.Paper {
	papers := make([]daily.Paper, 0, n)
	for i := 0; i < n; i++ {
		papers = append(papers, daily.Paper{ID: fmt.Sprintf("p%d", i), Title: fmt.Sprintf("Paper %d", i)})
	}
	return papers
}

func TestBuildViewOrdersDatesDescending(t *testing.T) {
	t.Parallel()

	// lexicographic order would also get these right; the year boundary
	// below is the case a string sort mis-handles with mixed widths
	raw := map[string][]daily.Paper{
		"2023-12-31": papersNamed(1),
		"2024-01-01": papersNamed(5),
		"2024-02-09": papersNamed(2),
	}

	got := BuildView(raw)
	want := []string{"2024-02-09", "2024-01-01", "2023-12-31"}
	if len(got.Groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(got.Groups))
	}
	for i, key := range want {
		if got.Groups[i].DateKey() != key {
			t.Fatalf("group %d = %s, want %s", i, got.Groups[i].DateKey(), key)
		}
	}
}

func TestBuildViewTruncatesToFiveInServerOrder(t *testing.T) {
	t.Parallel()

	raw := map[string][]daily.Paper{
		"2024-01-01": papersNamed(8),
	}

	got := BuildView(raw)
	if len(got.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(got.Groups))
	}
	kept := got.Groups[0].Papers
	if len(kept) != MaxPerDay {
		t.Fatalf("expected %d papers, got %d", MaxPerDay, len(kept))
	}
	for i, paper := range kept {
		if want := fmt.Sprintf("p%d", i); paper.ID != want {
			t.Fatalf("paper %d = %s, want %s (order must be preserved)", i, paper.ID, want)
		}
	}
}

func TestBuildViewDropsEmptyAndUnparseableKeys(t *testing.T) {
	t.Parallel()

	raw := map[string][]daily.Paper{
		"2024-01-02":   papersNamed(1),
		"2024-01-03":   nil,
		"2024-01-04":   {},
		"not-a-date":   papersNamed(2),
		"2024-13-40":   papersNamed(2),
		"2024-01-02T0": papersNamed(2),
	}

	got := BuildView(raw)
	if len(got.Groups) != 1 || got.Groups[0].DateKey() != "2024-01-02" {
		t.Fatalf("expected only the valid non-empty key, got %#v", got.Groups)
	}
	if got.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", got.Len())
	}
}

func TestBuildViewEmptyInput(t *testing.T) {
	t.Parallel()

	if got := BuildView(nil); !got.Empty() {
		t.Fatalf("expected empty view, got %#v", got)
	}
	if got := BuildView(map[string][]daily.Paper{}); !got.Empty() {
		t.Fatalf("expected empty view, got %#v", got)
	}
}

func TestBuildViewCopiesPaperSlices(t *testing.T) {
	t.Parallel()

	source := papersNamed(2)
	raw := map[string][]daily.Paper{"2024-01-01": source}
	got := BuildView(raw)

	source[0].Title = "mutated"
	if got.Groups[0].Papers[0].Title == "mutated" {
		t.Fatal("view must not alias the input slice")
	}
}
