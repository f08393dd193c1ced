package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultNamePrefix = "Sitzungen – "
	defaultProductID  = "-//Iserlohn ICS Split//github.com//EN"
	defaultMasterName = "Alle Sitzungen"
	defaultMasterSlug = "alle"
)

// DefaultProfile returns the settings used when no profile file exists.
func DefaultProfile() *Profile {
	return &Profile{
		NamePrefix: defaultNamePrefix,
		ProductID:  defaultProductID,
		Master: Master{
			Name: defaultMasterName,
			Slug: defaultMasterSlug,
		},
	}
}

// LoadCommittees reads the committee list: one name per line, trimmed.
// Blank lines and full-line # comments are skipped. Order and duplicates
// are preserved; an empty list is valid.
func LoadCommittees(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read committees file: %w", err)
	}

	var committees []string
	for _, line := range strings.Split(string(data), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		committees = append(committees, name)
	}

	return committees, nil
}

// LoadProfile reads the calendar profile. A missing file yields the
// defaults; an unreadable or invalid one is an error.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	setProfileDefaults(&profile)

	if err := validateProfile(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return &profile, nil
}

func setProfileDefaults(profile *Profile) {
	if profile.NamePrefix == "" {
		profile.NamePrefix = defaultNamePrefix
	}
	if profile.ProductID == "" {
		profile.ProductID = defaultProductID
	}
	if profile.Master.Name == "" {
		profile.Master.Name = defaultMasterName
	}
	if profile.Master.Slug == "" {
		profile.Master.Slug = defaultMasterSlug
	}
}

func validateProfile(profile *Profile) error {
	for i, term := range profile.ExcludeSummary {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("exclude_summary term at index %d must not be empty", i)
		}
	}
	return nil
}
