package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/futpeak/futpeak-engine/internal/app"
	"github.com/futpeak/futpeak-engine/internal/config"
	"github.com/futpeak/futpeak-engine/internal/observability"
	"github.com/futpeak/futpeak-engine/internal/platform/logging"
	"github.com/futpeak/futpeak-engine/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Error("stop pprof server", "error", err)
		}
	}()

	engine, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build engine", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("close engine", "error", err)
		}
	}()

	if err := run(ctx, engine, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, engine *app.App, command string, ids []string) error {
	switch command {
	case "project":
		if len(ids) == 0 {
			printUsage()
			return fmt.Errorf("project requires at least one athlete id")
		}
		if len(ids) == 1 {
			projection, err := engine.Projections.Project(ctx, ids[0])
			if err != nil {
				return err
			}
			return printJSON(projection)
		}

		result, err := engine.Batch.ProjectMany(ctx, usecase.BatchInput{
			AthleteIDs: ids,
			MaxWorkers: engine.Config.BatchMaxWorkers,
		})
		if err != nil {
			return err
		}
		return printJSON(result)

	case "career":
		if len(ids) != 1 {
			printUsage()
			return fmt.Errorf("career requires exactly one athlete id")
		}
		summary, err := engine.Careers.Summarize(ctx, ids[0])
		if err != nil {
			return err
		}
		return printJSON(summary)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v any) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <project|career> <athlete-id ...>\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s project ath-rising-winger\n", name)
	fmt.Fprintf(os.Stderr, "  %s project ath-rising-winger ath-steady-mid\n", name)
	fmt.Fprintf(os.Stderr, "  %s career ath-rising-winger\n", name)
}
