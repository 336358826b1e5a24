package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/workdays/internal/config"
	"github.com/username/workdays/internal/planner"
	"github.com/username/workdays/internal/state"
	"github.com/username/workdays/internal/store"
	"github.com/username/workdays/pkg/dateutil"
)

var (
	configPath string
	country    string
	jsonOutput bool
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "workdays",
		Short:         "Workable day calculator",
		Long:          "Count workable days between dates using national holiday calendars and your own day overrides, and estimate revenue for the period",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				text.DisableColors()
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				initLogger("info")
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.workdays/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&country, "country", "", "Country code (default: saved selection)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		countCmd(),
		summaryCmd(),
		monthCmd(),
		yearCmd(),
		holidaysCmd(),
		countriesCmd(),
		toggleCmd(),
		clearMonthCmd(),
		historyCmd(),
		exportCmd(),
		importCmd(),
		setCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the components a command needs
type app struct {
	db      *store.DB
	prefs   *state.Store
	manager *planner.Manager
}

func openApp() (*app, error) {
	prefs := state.NewStore(cfg.State.PreferencesFile, state.Defaults(cfg.Defaults, dateutil.Today().Year()), logger)
	if err := prefs.Load(); err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	db, err := store.Open(cfg.State.DatabaseFile)
	if err != nil {
		return nil, err
	}

	loader := planner.NewCalendarLoader(cfg.Calendar, logger)
	repo := store.NewOverrideRepository(db, logger)

	return &app{
		db:      db,
		prefs:   prefs,
		manager: planner.NewManager(loader, repo, prefs, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
}

// withApp opens the components, runs fn and closes them again
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := dateutil.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
