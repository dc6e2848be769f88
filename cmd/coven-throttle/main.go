// ABOUTME: Entry point for coven-throttle, the action log inspection tool
// ABOUTME: Resolves record paths, replays record streams and lists throttle decisions

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/coven-throttle/internal/action"
	"github.com/2389/coven-throttle/internal/actionlog"
	"github.com/2389/coven-throttle/internal/config"
	"github.com/2389/coven-throttle/internal/logpath"
	"github.com/2389/coven-throttle/internal/store"
)

// version is set with -ldflags at build time.
var version = "dev"

// maxRecordBytes bounds one JSONL line in replay input.
const maxRecordBytes = 1 << 20

// getConfigPath returns the path to the throttle config file.
// Priority: COVEN_THROTTLE_CONFIG env var > XDG_CONFIG_HOME/coven/throttle.yaml > ~/.config/coven/throttle.yaml
func getConfigPath() string {
	if envPath := os.Getenv("COVEN_THROTTLE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "throttle.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "coven", "throttle.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: coven-throttle <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  resolve <json>         Print the canonical log path of a record")
		fmt.Println("  replay <file.jsonl>    Replay records through the throttle and print the log")
		fmt.Println("  decisions [limit]      List recorded throttle decisions")
		fmt.Println("  version                Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "resolve":
		err = runResolve(os.Args[2:])
	case "replay":
		err = runReplay(ctx, os.Args[2:])
	case "decisions":
		err = runDecisions(ctx, os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runResolve(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: coven-throttle resolve <json>")
	}

	rec, err := action.ParseJSON([]byte(args[0]))
	if err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}
	path, err := logpath.Resolve(rec)
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack)
	gray.Printf("%s ", rec.Kind())
	fmt.Println(path.String())
	return nil
}

func runReplay(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: coven-throttle replay <file.jsonl>")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening replay file: %w", err)
		}
		defer f.Close()
		in = f
	}

	opts := []actionlog.Option{actionlog.WithLogger(logger.With("component", "actionlog"))}
	if cfg.Audit.Enabled {
		decisions, err := store.NewSQLiteStore(cfg.Audit.Path)
		if err != nil {
			return fmt.Errorf("opening decision store: %w", err)
		}
		defer decisions.Close()
		opts = append(opts, actionlog.WithRecorder(decisions))
	}

	log := actionlog.New(actionlog.Config{
		RequestThrottle: cfg.Throttle.RequestThrottle,
		FreshnessCutoff: cfg.Throttle.FreshnessCutoff,
	}, opts...)
	track := actionlog.TrackingHook(log, cfg.Throttle.IgnoredPrefixes...)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	dispatch := func(_ context.Context, rec action.Record) error {
		green.Print("    ▶ ")
		fmt.Printf("dispatch %s\n", action.TypeName(rec))
		return nil
	}

	stats, err := replay(ctx, in, log, track, dispatch, logger)
	if err != nil {
		return err
	}

	fmt.Println()
	entries := log.Flatten()
	sort.Strings(entries)
	for _, e := range entries {
		fmt.Println(e)
	}
	fmt.Println()
	green.Printf("%d dispatched", stats.dispatched)
	fmt.Print(", ")
	yellow.Printf("%d throttled", stats.throttled)
	fmt.Printf(", %d tracked, %d invalid\n", stats.tracked, stats.invalid)
	return nil
}

type replayStats struct {
	dispatched int
	throttled  int
	tracked    int
	invalid    int
}

// replay feeds one JSON record per line through the log. Emitting records go
// through the throttle; everything else goes through the tracking hook.
func replay(ctx context.Context, in io.Reader, log *actionlog.Log, track actionlog.Reducer, dispatch actionlog.DispatchFunc, logger *slog.Logger) (replayStats, error) {
	var stats replayStats

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		rec, err := action.ParseJSON([]byte(raw))
		if err != nil {
			logger.Warn("skipping record", "line", line, "error", err)
			stats.invalid++
			continue
		}

		if rec.Kind() != action.KindEmitting {
			track(nil, rec)
			stats.tracked++
			continue
		}

		sent, err := log.DispatchIfNotThrottled(ctx, rec, dispatch)
		switch {
		case err != nil:
			logger.Warn("dispatch failed", "line", line, "error", err)
			stats.invalid++
		case sent:
			stats.dispatched++
		default:
			stats.throttled++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading replay input: %w", err)
	}
	return stats, nil
}

func runDecisions(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Audit.Enabled {
		return fmt.Errorf("audit is disabled; set audit.enabled and audit.path in %s", getConfigPath())
	}

	limit := 0
	if len(args) > 0 {
		if _, err := fmt.Sscanf(args[0], "%d", &limit); err != nil {
			return fmt.Errorf("invalid limit %q", args[0])
		}
	}

	decisions, err := store.NewSQLiteStore(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("opening decision store: %w", err)
	}
	defer decisions.Close()

	list, err := decisions.ListDecisions(ctx, store.DecisionFilter{Limit: limit})
	if err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack)
	for _, d := range list {
		gray.Printf("%s ", d.Timestamp.Local().Format(time.DateTime))
		switch d.Outcome {
		case store.OutcomeDispatched:
			color.New(color.FgGreen).Printf("%-10s ", d.Outcome)
		case store.OutcomeThrottled:
			color.New(color.FgYellow).Printf("%-10s ", d.Outcome)
		default:
			color.New(color.FgRed).Printf("%-10s ", d.Outcome)
		}
		fmt.Println(d.Path)
	}
	return nil
}
