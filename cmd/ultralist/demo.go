package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ayn2op/ultralist/config"
	"github.com/ayn2op/ultralist/internal/demo"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an interactive list fed by a background producer",
	Long: `Demo shows a list whose rows are inserted and removed by a background
producer. Rows can be filtered with / and reordered by holding the left
button on a row, or with space and the arrow keys.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().String("config", "", "config file (TOML or YAML, default: user config dir)")
	demoCmd.Flags().String("log", "", "write logs to this file")
	demoCmd.Flags().String("log-level", "info", "log level (debug|info|warn|error)")
	demoCmd.Flags().Int("items", 40, "number of rows to start with")
	demoCmd.Flags().Duration("interval", 1500*time.Millisecond, "delay between producer changes (0 disables the producer)")
	demoCmd.Flags().Uint64("seed", 1, "seed of the producer")
	demoCmd.Flags().Bool("no-mouse", false, "leave the mouse to the terminal")
}

var errNotTerminal = errors.New("demo needs a terminal on stdout")

func runDemo(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return errNotTerminal
	}

	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	logPath, _ := flags.GetString("log")
	logLevel, _ := flags.GetString("log-level")
	items, _ := flags.GetInt("items")
	interval, _ := flags.GetDuration("interval")
	seed, _ := flags.GetUint64("seed")
	noMouse, _ := flags.GetBool("no-mouse")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(logPath, logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	app, err := demo.New(demo.Options{
		Config:       cfg,
		Logger:       logger,
		Items:        items,
		Interval:     interval,
		Seed:         seed,
		DisableMouse: noMouse,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// openLogger returns a logger writing to path, or one discarding everything
// when path is empty. The terminal belongs to the list.
func openLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: lvl}))
	return logger, func() { file.Close() }, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
