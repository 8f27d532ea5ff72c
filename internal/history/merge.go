// Package history merges an issue's comments and field changes into one
// chronological view.
package history

import (
	"sort"
	"time"

	"github.com/andywolf/jiralite/internal/domain"
)

// Entry is either a comment or a change event. Exactly one field is set.
type Entry struct {
	Comment *domain.Comment     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Change  *domain.ChangeEvent `json:"change,omitempty" yaml:"change,omitempty"`
}

// Time returns the entry's sort key.
func (e Entry) Time() time.Time {
	if e.Comment != nil {
		return e.Comment.Created
	}
	if e.Change != nil {
		return e.Change.Timestamp
	}
	return time.Time{}
}

// IsComment reports whether the entry holds a comment.
func (e Entry) IsComment() bool {
	return e.Comment != nil
}

// Merge returns comments and change events ordered oldest first. Entries
// with equal times keep input order, comments before change events. The
// inputs are not modified; entries point at copies of the input values.
func Merge(comments []domain.Comment, events []domain.ChangeEvent) []Entry {
	out := make([]Entry, 0, len(comments)+len(events))

	for i := range comments {
		c := comments[i]
		out = append(out, Entry{Comment: &c})
	}
	for i := range events {
		ev := events[i]
		out = append(out, Entry{Change: &ev})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().Before(out[j].Time())
	})

	return out
}
