package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmpOr(Version, "unknown")
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

type rawCfg struct {
	// Storage configuration
	DBPath      string `long:"db-path" env:"DB_PATH" default:"./data/wine-comb.db" description:"SQLite database file"`
	ProfileFile string `long:"profile" env:"PROFILE_FILE" default:"./profiles/klwines.yml" description:"Retailer profile YAML file (built-in K&L profile when missing)"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	TaskTimeout       int    `long:"task-timeout" env:"TASK_TIMEOUT" default:"21600" description:"Maximum duration of one task in seconds"`
	AutoMerge         bool   `long:"auto-merge" env:"AUTO_MERGE" description:"Merge results into the known catalog after each scheduled run"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// One-shot mode
	Once   bool `long:"once" description:"Run the pipeline once, print the records as JSON and exit"`
	Replay bool `long:"replay" env:"REPLAY" description:"With --once, print the previous run's records without fetching"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/Los_Angeles)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.SchedulerInterval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive")
	}
	if raw.TaskTimeout <= 0 {
		return nil, fmt.Errorf("task timeout must be positive")
	}
	if raw.Replay && !raw.Once {
		return nil, fmt.Errorf("--replay requires --once")
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		ProfileFile:       raw.ProfileFile,
		Port:              raw.Port,
		SchedulerInterval: raw.SchedulerInterval,
		TaskTimeout:       raw.TaskTimeout,
		AutoMerge:         raw.AutoMerge,
		APIAccessKey:      raw.APIAccessKey,
		Once:              raw.Once,
		Replay:            raw.Replay,
		UserAgent:         cmpOr(raw.UserAgent, defaultUserAgent),
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
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
