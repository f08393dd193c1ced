package config

// TimezonesKept reports whether the source's timezone definitions are
// copied into generated calendars. Defaults to true when unset.
func (p *Profile) TimezonesKept() bool {
	if p.KeepTimezones == nil {
		return true
	}
	return *p.KeepTimezones
}

// IsEnabled reports whether the master feed is generated. Defaults to
// true when unset.
func (m *Master) IsEnabled() bool {
	if m.Enabled == nil {
		return true
	}
	return *m.Enabled
}
