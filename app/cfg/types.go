package cfg

type Cfg struct {
	// Storage configuration
	DBPath      string
	ProfileFile string

	// Application configuration
	Port              string
	SchedulerInterval int
	TaskTimeout       int
	AutoMerge         bool
	APIAccessKey      string

	// One-shot mode
	Once   bool
	Replay bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
