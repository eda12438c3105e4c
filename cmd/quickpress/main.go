// Command quickpress compresses a video to roughly a target size in megabytes
// using bundled ffprobe and ffmpeg binaries.
//
//	quickpress [flags] <source-path> <target-size-mb>
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/amankumarsingh77/quickpress/internal/common/entities"
	"github.com/amankumarsingh77/quickpress/internal/config"
	"github.com/amankumarsingh77/quickpress/internal/logging"
	"github.com/amankumarsingh77/quickpress/internal/worker/encoder"
	"github.com/amankumarsingh77/quickpress/internal/worker/history"
	"github.com/amankumarsingh77/quickpress/internal/worker/runner"
	"github.com/amankumarsingh77/quickpress/internal/worker/utils"
	"github.com/rs/zerolog"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quickpress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config-dir", "", "directory holding bin/, quickpress.yml and .env (default: executable's directory)")
	console := fs.Bool("console", false, "also write log lines to stderr")
	historyN := fs.Int64("history", 0, "print the last N recorded jobs and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: quickpress [flags] <source-path> <target-size-mb>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	baseDir := *configDir
	if baseDir == "" {
		dir, err := executableDir()
		if err != nil {
			fmt.Fprintf(stderr, "quickpress: %v\n", err)
			return 1
		}
		baseDir = dir
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(stderr, "quickpress: %v\n", err)
		return 1
	}
	if *console {
		cfg.Console = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "quickpress: %v\n", err)
		return 1
	}

	logs, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Console: cfg.Console})
	if err != nil {
		fmt.Fprintf(stderr, "quickpress: open log: %v\n", err)
		return 1
	}
	defer logs.Close()
	logger := logs.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, err := openHistory(ctx, cfg)
	defer recorder.Close()

	if *historyN > 0 {
		if err != nil {
			logger.Error().Err(err).Msg("Job history unavailable")
			fmt.Fprintf(stderr, "quickpress: %v\n", err)
			return 1
		}
		return printHistory(ctx, recorder, *historyN, stdout, logger)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Job history disabled")
	}

	logger.Info().Msg("Script started")

	if fs.NArg() != 2 {
		logger.Error().Int("arg_count", fs.NArg()).Msg("Missing arguments: file path and target size required")
		fs.Usage()
		return 1
	}
	source, sizeArg := fs.Arg(0), fs.Arg(1)
	logger.Info().Str("input_file", source).Str("size_arg", sizeArg).Msg("Arguments received")

	if _, err := os.Stat(source); err != nil {
		logger.Error().Err(err).Str("input_file", source).Msg("File does not exist")
		return 1
	}

	sizeMB, err := utils.ParseTargetSize(sizeArg)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid target size")
		return 1
	}

	logger.Info().
		Str("ffmpeg_path", cfg.FFmpegPath).
		Str("ffprobe_path", cfg.FFprobePath).
		Msg("Resolved tool paths")

	r := runner.NewExecRunner()
	for _, tool := range []string{cfg.FFmpegPath, cfg.FFprobePath} {
		if err := utils.ValidateTool(ctx, r, tool); err != nil {
			logger.Error().Err(err).Str("tool", tool).Msg("Tool check failed")
			return 1
		}
	}

	enc := encoder.NewCommander(cfg.FFmpegPath, cfg.FFprobePath, r, logger)
	rec := entities.JobRecord{
		ID:           utils.GenerateJobID(source),
		Source:       source,
		TargetSizeMB: sizeMB,
		CreatedAt:    time.Now().UTC(),
	}

	result, err := enc.Run(ctx, source, sizeMB)
	rec.FinishedAt = time.Now().UTC()
	if err != nil {
		rec.Status = entities.JobStatusFailed
		rec.Error = err.Error()
	} else {
		rec.Status = entities.JobStatusCompleted
		rec.OutputPath = result.OutputPath
		rec.Duration = result.Duration
		rec.VideoBitrate = result.Plan.VideoBitrate
		rec.AudioBitrate = result.Plan.AudioBitrate
	}
	recordJob(ctx, recorder, rec, logger)

	if err != nil {
		logger.Error().Err(err).Str("job_id", rec.ID).Msg("Compression failed")
		return 1
	}
	logger.Info().
		Str("job_id", rec.ID).
		Str("output_file", result.OutputPath).
		Msg("Job completed")
	return 0
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// openHistory always returns a usable recorder; on a connection error it is
// a no-op and the caller decides whether that is fatal.
func openHistory(ctx context.Context, cfg *config.Config) (history.Recorder, error) {
	if cfg.RedisURL == "" {
		return history.Nop{}, nil
	}
	rec, err := history.NewRedisRecorder(ctx, cfg.RedisURL, cfg.HistoryKey, cfg.HistoryLimit)
	if err != nil {
		return history.Nop{}, err
	}
	return rec, nil
}

// recordJob writes rec even if ctx was cancelled by a signal, so interrupted
// runs still show up in the history.
func recordJob(ctx context.Context, recorder history.Recorder, rec entities.JobRecord, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := recorder.Record(ctx, rec); err != nil {
		logger.Warn().Err(err).Str("job_id", rec.ID).Msg("Failed to record job history")
	}
}

func printHistory(ctx context.Context, recorder history.Recorder, n int64, stdout io.Writer, logger zerolog.Logger) int {
	records, err := recorder.Recent(ctx, n)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read job history")
		return 1
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "no recorded jobs")
		return 0
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-9s  %s  %.2fMB", r.CreatedAt.Local().Format(time.DateTime), r.Status, r.Source, r.TargetSizeMB)
		if r.Status == entities.JobStatusCompleted {
			line += fmt.Sprintf("  -> %s (video %d bps, audio %d bps)", r.OutputPath, r.VideoBitrate, r.AudioBitrate)
		} else if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Fprintln(stdout, line)
	}
	return 0
}
