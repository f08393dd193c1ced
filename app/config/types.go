package config

// Profile holds document-level settings for generated calendars.
// Everything has a default matching the public council feed this
// service was built around, so the profile file is optional.
type Profile struct {
	NamePrefix     string   `yaml:"name_prefix"`
	ProductID      string   `yaml:"product_id"`
	KeepTimezones  *bool    `yaml:"keep_timezones"`
	ExcludeSummary []string `yaml:"exclude_summary"`
	Master         Master   `yaml:"master"`
}

// Master configures the feed aggregating every surviving event. Its
// name is used as the calendar name verbatim, without the committee
// name prefix.
type Master struct {
	Enabled *bool  `yaml:"enabled"`
	Name    string `yaml:"name"`
	Slug    string `yaml:"slug"`
}
