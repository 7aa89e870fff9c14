package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pstuifzand/listkit/internal/app"
	"github.com/pstuifzand/listkit/internal/config"
	"github.com/pstuifzand/listkit/internal/logging"
	"github.com/pstuifzand/listkit/internal/theme"
	"github.com/pstuifzand/listkit/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Load settings from this file instead of the default location")
	themeName := flag.String("theme", "", "Override the configured theme")
	logPath := flag.String("log", "listkit.log", "Write the log to this file")
	debug := flag.Bool("debug", false, "Log at debug level")
	initConfig := flag.Bool("init-config", false, "Write the default config file and exit")
	var overrides []string
	flag.Func("set", "Override a setting for this session (key=value, repeatable)", func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf("expected key=value, got %q", s)
		}
		overrides = append(overrides, s)
		return nil
	})
	flag.Parse()

	if *initConfig {
		if err := config.Default().Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		dir, _ := config.GetConfigDir()
		fmt.Printf("Wrote default config to %s\n", dir)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, kv := range overrides {
		key, value, _ := strings.Cut(kv, "=")
		cfg.Set(key, value)
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}
	if *debug {
		cfg.List.LogLevel = "debug"
	}

	logger, logFile, err := logging.OpenFile(*logPath, cfg.List.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	screen, err := ui.NewScreenWithTheme(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting", "theme", cfg.Theme, "scheduler", cfg.List.Scheduler)
	application := app.New(screen, cfg, logger, nil)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}
