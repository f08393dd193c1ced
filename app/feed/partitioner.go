package feed

import (
	"fmt"
	"strings"
)

// MatchFunc decides whether an event belongs to a committee's feed.
type MatchFunc func(event Event, committee string) bool

// MatchSummary is the default predicate: an unanchored, case-insensitive
// substring search for the committee name in the event summary. Events
// without a summary never match.
func MatchSummary(event Event, committee string) bool {
	if event.Summary == "" {
		return false
	}
	return strings.Contains(strings.ToLower(event.Summary), strings.ToLower(committee))
}

type Partitioner struct {
	match MatchFunc
}

func NewPartitioner() *Partitioner {
	return &Partitioner{match: MatchSummary}
}

// NewPartitionerWithMatch builds a partitioner with a custom predicate,
// e.g. to match committees against a different property.
func NewPartitionerWithMatch(match MatchFunc) *Partitioner {
	return &Partitioner{match: match}
}

// Run selects, per committee and in the given committee order, every
// non-excluded event matching it. Source order is preserved within each
// selection, and one event may appear in any number of selections. A
// committee with no matches still yields an (empty) selection.
func (p *Partitioner) Run(events []Event, committees []string) ([]Selection, error) {
	selections := make([]Selection, 0, len(committees))
	for _, committee := range committees {
		if strings.TrimSpace(committee) == "" {
			return nil, fmt.Errorf("committee name must not be empty")
		}

		selection := Selection{Committee: committee}
		for _, event := range events {
			if event.Excluded {
				continue
			}
			if p.match(event, committee) {
				selection.Events = append(selection.Events, event)
			}
		}
		selections = append(selections, selection)
	}
	return selections, nil
}
