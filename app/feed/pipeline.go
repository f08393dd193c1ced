package feed

import (
	"github.com/feedwerk/ics-split/app/config"
)

// Pipeline wires the processing stages of one full rebuild. It holds no
// state between runs: every Run starts from the raw source bytes and the
// configuration passed in.
type Pipeline struct {
	parser      *Parser
	filterer    *Filterer
	partitioner *Partitioner
	generator   *Generator
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		parser:      NewParser(),
		filterer:    NewFilterer(),
		partitioner: NewPartitioner(),
		generator:   NewGenerator(),
	}
}

// Run executes parse, filter, partition and generate for one source
// snapshot. The returned feeds are ordered: one per committee in the
// given order, then the master feed when the profile enables it. The
// only error condition is invalid configuration; source anomalies are
// tolerated by the earlier stages.
func (p *Pipeline) Run(data []byte, committees []string, profile *config.Profile) (*Result, error) {
	if profile == nil {
		profile = config.DefaultProfile()
	}

	doc := p.parser.Run(data)
	events := p.filterer.Run(doc.Events, profile)

	selections, err := p.partitioner.Run(events, committees)
	if err != nil {
		return nil, err
	}

	result := &Result{TotalEvents: len(events)}
	survivors := make([]Event, 0, len(events))
	for _, event := range events {
		if event.Excluded {
			result.ExcludedEvents++
			continue
		}
		survivors = append(survivors, event)
	}

	for _, selection := range selections {
		slug := Slugify(selection.Committee)
		content := p.generator.Run(profile.NamePrefix+selection.Committee, selection.Events, doc.HeaderLines, profile)
		result.Feeds = append(result.Feeds, CommitteeFeed{
			Committee: selection.Committee,
			Slug:      slug,
			Filename:  slug + ".ics",
			Content:   content,
			Matched:   len(selection.Events),
		})
	}

	if profile.Master.IsEnabled() {
		slug := Slugify(profile.Master.Slug)
		content := p.generator.Run(profile.Master.Name, survivors, doc.HeaderLines, profile)
		result.Feeds = append(result.Feeds, CommitteeFeed{
			Committee: profile.Master.Name,
			Slug:      slug,
			Filename:  slug + ".ics",
			Content:   content,
			Matched:   len(survivors),
		})
	}

	return result, nil
}
