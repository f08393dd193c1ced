package config

import (
	"fmt"
	"log/slog"
	"sync"
)

// Catalog holds the currently active committee list and calendar
// profile. Rebuild runs read from it; Reload swaps in a fresh copy from
// disk and keeps the previous state when loading fails, so a broken
// config edit never takes the service down.
type Catalog struct {
	committeesPath string
	profilePath    string

	mu         sync.RWMutex
	committees []string
	profile    *Profile
}

func NewCatalog(committeesPath, profilePath string) *Catalog {
	return &Catalog{
		committeesPath: committeesPath,
		profilePath:    profilePath,
	}
}

// Load reads both configuration files and swaps the catalog state on
// success. The profile pointer stored here is never mutated afterwards.
func (c *Catalog) Load() error {
	committees, err := LoadCommittees(c.committeesPath)
	if err != nil {
		return fmt.Errorf("failed to load committees: %w", err)
	}

	profile, err := LoadProfile(c.profilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	c.mu.Lock()
	c.committees = committees
	c.profile = profile
	c.mu.Unlock()

	slog.Debug("Configuration loaded", "committees", len(committees), "master_feed", profile.Master.IsEnabled())

	return nil
}

// Reload re-reads the configuration files. On error the previously
// loaded state stays active.
func (c *Catalog) Reload() error {
	return c.Load()
}

func (c *Catalog) Committees() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	committees := make([]string, len(c.committees))
	copy(committees, c.committees)
	return committees
}

func (c *Catalog) Profile() *Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

func (c *Catalog) CommitteeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.committees)
}
