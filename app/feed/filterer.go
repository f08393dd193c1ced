package feed

import (
	"fmt"
	"strings"

	"github.com/feedwerk/ics-split/app/config"
)

const statusCancelled = "CANCELLED"

// Events whose summary carries one of these terms are withdrawn meetings
// in the source calendar. The terms are built in and always applied;
// profiles can only add further ones.
var withdrawnTerms = []string{"entfällt", "entfaellt"}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks events excluded by the cancellation rules. Events are never
// removed or reordered here; the partitioner skips marked ones, so an
// excluded event appears in no generated feed.
func (f *Filterer) Run(events []Event, profile *config.Profile) []Event {
	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		excluded, reason := f.applyRules(event, profile)
		event.Excluded = excluded
		event.ExcludeReason = reason
		filtered = append(filtered, event)
	}
	return filtered
}

func (f *Filterer) applyRules(event Event, profile *config.Profile) (bool, string) {
	if strings.ToUpper(strings.TrimSpace(event.Status)) == statusCancelled {
		return true, "Excluded by status: CANCELLED"
	}

	for _, term := range withdrawnTerms {
		if f.matchesTerm(event.Summary, term) {
			return true, fmt.Sprintf("Excluded by summary: contains '%s'", term)
		}
	}

	for _, term := range profile.ExcludeSummary {
		if f.matchesTerm(event.Summary, term) {
			return true, fmt.Sprintf("Excluded by summary: contains '%s'", term)
		}
	}

	return false, ""
}

func (f *Filterer) matchesTerm(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}
