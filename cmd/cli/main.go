package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fantasy/internal/cli/command"
	"fantasy/internal/cli/config"
	"fantasy/internal/cli/http"
	"fantasy/internal/cli/repl"
	"fantasy/internal/cli/state"
)

const (
	defaultConfigPath = "configs/cli.yaml"
	defaultEnvFile    = ".env"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	envFile := flag.String("env", defaultEnvFile, "Optional .env file with FANTASY_API_* overrides")
	baseURL := flag.String("base", "", "Override base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	statePath := flag.String("state", "", "Override console state path")
	pretty := flag.Bool("pretty", false, "Pretty print JSON response")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}
	if *pretty {
		trueValue := true
		cfg.PrettyJSON = &trueValue
	}

	consoleState, err := state.Load(cfg.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load console state failed: %v\n", err)
		os.Exit(1)
	}
	if consoleState.BaseURL != "" {
		cfg.BaseURL = consoleState.BaseURL
	}
	if *baseURL != "" {
		if err := config.ValidateBaseURL(*baseURL); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg.BaseURL = *baseURL
	}

	commands := command.Registry()
	reader, err := repl.NewReadline(cfg.HistoryFile, commands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init line editor failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = reader.Close() }()

	client := httpclient.New(cfg.BaseURL, cfg.Timeout)
	session := repl.New(client, commands, &consoleState, cfg.StatePath, *cfg.PrettyJSON, reader, reader.Stdout())
	session.Run(context.Background())
}
