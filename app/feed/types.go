package feed

// Calendar processing types

// Event is a single BEGIN:VEVENT .. END:VEVENT block from the source
// calendar. Lines holds the unfolded block verbatim, including the BEGIN
// and END marker lines; generated feeds copy these lines unchanged.
// Status and Summary are extracted for exclusion checks and committee
// matching. Summary has RFC 5545 text escapes resolved; the payload in
// Lines is never rewritten.
type Event struct {
	Lines   []string
	Status  string
	Summary string

	Excluded      bool
	ExcludeReason string
}

// Document is the source calendar split into its header and event blocks.
// HeaderLines holds every unfolded line outside event blocks, in source
// order, including timezone definitions.
type Document struct {
	HeaderLines []string
	Events      []Event
}

// Selection is the set of surviving events matched to one committee.
type Selection struct {
	Committee string
	Events    []Event
}

// CommitteeFeed is one generated output calendar, ready to publish.
type CommitteeFeed struct {
	Committee string
	Slug      string
	Filename  string
	Content   []byte
	Matched   int
}

// Result is the outcome of one full rebuild.
type Result struct {
	Feeds          []CommitteeFeed
	TotalEvents    int
	ExcludedEvents int
}
