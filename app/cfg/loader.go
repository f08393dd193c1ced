package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Source and configuration files
	SourceURL      string `long:"source-url" env:"SOURCE_URL" default:"https://www.iserlohn.sitzung-online.de/public/ics/SiKalAbo.ics" description:"URL of the aggregated source calendar"`
	CommitteesFile string `long:"committees-file" env:"COMMITTEES_FILE" default:"./config/committees.txt" description:"File listing one committee name per line"`
	ProfileFile    string `long:"profile-file" env:"PROFILE_FILE" default:"./config/profile.yml" description:"Calendar profile file (optional)"`

	// Output and storage
	OutputDir string `long:"output-dir" env:"OUTPUT_DIR" default:"./docs" description:"Directory the generated feeds and index page are published to"`
	DBPath    string `long:"db-path" env:"DB_PATH" default:"./data/ics-split.db" description:"SQLite database file for run history"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://kalender.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for rebuild tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	RefreshInterval   int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"3600" description:"Seconds between source calendar refreshes"`
	SourceTimeout     int    `long:"source-timeout" env:"SOURCE_TIMEOUT" default:"60" description:"Timeout in seconds for fetching the source calendar"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; ICS-Split/1.1; +https://github.com/)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Berlin)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourceURL:         raw.SourceURL,
		CommitteesFile:    raw.CommitteesFile,
		ProfileFile:       raw.ProfileFile,
		OutputDir:         raw.OutputDir,
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		RefreshInterval:   raw.RefreshInterval,
		SourceTimeout:     raw.SourceTimeout,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
