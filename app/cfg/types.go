package cfg

type Cfg struct {
	// Source and configuration files
	SourceURL      string
	CommitteesFile string
	ProfileFile    string

	// Output and storage
	OutputDir string
	DBPath    string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	RefreshInterval   int
	SourceTimeout     int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
