// Package history groups the raw date-keyed paper mapping returned by
// the AI Daily service into an ordered, bounded view.
package history

import (
	"sort"
	"time"

	"github.com/csheth/aidaily/internal/daily"
)

// MaxPerDay caps how many entries a single date bucket shows. Extra
// entries are truncated in server-supplied order, not re-sorted.
const MaxPerDay = 5

const dateLayout = "2006-01-02"

// Group is every retained paper recorded on one calendar date.
type Group struct {
	Date   time.Time
	Papers []daily.Paper
}

// DateKey returns the wire form of the group's date.
func (g Group) DateKey() string {
	return g.Date.Format(dateLayout)
}

// View is the ordered set of groups, newest date first. It is derived
// fresh on every history fetch and never incrementally patched.
type View struct {
	Groups []Group
}

// Empty reports whether the view holds no entries at all.
func (v View) Empty() bool {
	return len(v.Groups) == 0
}

// Len returns the total number of entries across all groups.
func (v View) Len() int {
	total := 0
	for _, g := range v.Groups {
		total += len(g.Papers)
	}
	return total
}

// BuildView aggregates the raw mapping into a View. Keys with empty
// paper lists are dropped, keys that do not parse as calendar dates are
// dropped, remaining dates are ordered descending by calendar date
// (string order would mis-sort across month and year boundaries), and
// each bucket keeps at most MaxPerDay entries.
func BuildView(raw map[string][]daily.Paper) View {
	groups := make([]Group, 0, len(raw))
	for key, papers := range raw {
		if len(papers) == 0 {
			continue
		}
		date, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}
		kept := papers
		if len(kept) > MaxPerDay {
			kept = kept[:MaxPerDay]
		}
		groups = append(groups, Group{
			Date:   date,
			Papers: append([]daily.Paper(nil), kept...),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return View{Groups: groups}
}
