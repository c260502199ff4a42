package seeder

import (
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pedrohgl18/elox/pkg/logger"
)

// Default flag values.
const (
	defaultParticipants = 40
	defaultVideos       = 500
	defaultRate         = 200
	defaultTimeout      = 10 * time.Second
	defaultWaitTimeout  = 2 * time.Minute
)

// NewApp returns the seed command line application.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "seed",
		Usage: "fill an elox service with fake competition data and verify its leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:9080", Usage: "base URL of the service", EnvVars: []string{"ELOX_SEED_URL"}},
			&cli.IntFlag{Name: "participants", Value: defaultParticipants, Usage: "number of participants"},
			&cli.IntFlag{Name: "videos", Value: defaultVideos, Usage: "number of distinct videos"},
			&cli.Int64Flag{Name: "min-views", Value: 0, Usage: "view floor of the lowest tier"},
			&cli.Float64Flag{Name: "rate", Value: defaultRate, Usage: "requests per second, 0 for unlimited"},
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "concurrent submitters"},
			&cli.Int64Flag{Name: "seed", Value: time.Now().UnixNano(), DefaultText: "now", Usage: "faker seed"},
			&cli.DurationFlag{Name: "timeout", Value: defaultTimeout, Usage: "HTTP request timeout"},
			&cli.DurationFlag{Name: "wait", Value: defaultWaitTimeout, Usage: "how long to wait for ingestion"},
			&cli.BoolFlag{Name: "verbose", Usage: "log every submission"},
		},
		Before: func(c *cli.Context) error {
			if err := logger.Init(); err != nil {
				return err
			}
			if c.Bool("verbose") {
				return logger.SetLevelString("debug")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			_, err := Run(c.Context, ConfigFromContext(c))
			return err
		},
	}
}

// ConfigFromContext reads a Config from parsed flags.
func ConfigFromContext(c *cli.Context) *Config {
	return &Config{
		BaseURL:      c.String("url"),
		Participants: c.Int("participants"),
		Videos:       c.Int("videos"),
		MinViews:     c.Int64("min-views"),
		Rate:         c.Float64("rate"),
		Workers:      c.Int("workers"),
		Seed:         c.Int64("seed"),
		Timeout:      c.Duration("timeout"),
		WaitTimeout:  c.Duration("wait"),
		Verbose:      c.Bool("verbose"),
	}
}
