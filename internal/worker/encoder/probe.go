package encoder

import (
	"context"
	"errors"
	"fmt"
	"github.com/amankumarsingh77/quickpress/internal/worker/runner"
	"strconv"
	"strings"
)

func probeArgs(inputFile string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputFile,
	}
}

// ProbeDuration asks ffprobe for the container duration of inputFile, in seconds.
func (c *Encoder) ProbeDuration(ctx context.Context, inputFile string) (float64, error) {
	logger := c.logger.With().
		Str("function", "ProbeDuration").
		Str("input_file", inputFile).
		Logger()

	res, err := c.runner.Run(ctx, c.FFprobePath, probeArgs(inputFile), true)
	if err != nil {
		logger.Error().Err(err).Msg("ffprobe did not run to completion")
		if errors.Is(err, runner.ErrLaunch) {
			return 0, fmt.Errorf("%w: %v", ErrProbeLaunchFailed, err)
		}
		// Started but could not be waited on cleanly.
		return 0, fmt.Errorf("%w: %v", ErrProbeExitNonZero, err)
	}
	output := strings.TrimSpace(string(res.Output))
	if res.ExitCode != 0 {
		logger.Error().
			Int("exit_code", res.ExitCode).
			Str("ffprobe_output", output).
			Msg("ffprobe failed")
		return 0, fmt.Errorf("%w: exit code %d, output: %s", ErrProbeExitNonZero, res.ExitCode, output)
	}

	duration, err := parseDuration(output)
	if err != nil {
		return 0, err
	}
	logger.Info().Float64("duration", duration).Msg("Probed video duration")
	return duration, nil
}

func parseDuration(s string) (float64, error) {
	duration, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	if !validDuration(duration) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	return duration, nil
}
