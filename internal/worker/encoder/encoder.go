package encoder

import (
	"context"
	"errors"
	"fmt"
	"github.com/amankumarsingh77/quickpress/internal/common/entities"
	"github.com/amankumarsingh77/quickpress/internal/worker/runner"
	"github.com/rs/zerolog"
	"strconv"
	"time"
)

// Fixed output format: H.264 + AAC, 8-bit 4:2:0, limited range, BT.709.
const (
	VideoCodec = "h264"
	AudioCodec = "aac"
	PixFmt     = "yuv420p"
	ColorRange = "tv"
	ColorSpace = "bt709"
)

// outputTailBytes is how much of ffmpeg's output is logged on failure.
const outputTailBytes = 2048

type Encoder struct {
	FFmpegPath  string
	FFprobePath string
	runner      runner.Runner
	logger      zerolog.Logger
}

type EncodeParams struct {
	InputFile  string
	OutputFile string
	entities.BitratePlan
}

func NewCommander(ffmpegPath, ffprobePath string, r runner.Runner, logger zerolog.Logger) *Encoder {
	return &Encoder{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		runner:      r,
		logger: logger.With().
			Str("component", "encoder").
			Logger(),
	}
}

// Run compresses source so that the result lands near sizeBudgetMB.
// Every step is a hard failure; nothing is retried and a partially written
// output file is left in place if ffmpeg fails.
func (c *Encoder) Run(ctx context.Context, source string, sizeBudgetMB float64) (*entities.JobResult, error) {
	logger := c.logger.With().
		Str("function", "Run").
		Str("input_file", source).
		Float64("target_size_mb", sizeBudgetMB).
		Logger()

	duration, err := c.ProbeDuration(ctx, source)
	if err != nil {
		return nil, err
	}

	plan, err := Allocate(duration, sizeBudgetMB)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int64("video_bitrate", plan.VideoBitrate).
		Int64("audio_bitrate", plan.AudioBitrate).
		Msg("Allocated bitrates")

	outputFile, err := ResolveOutputPath(source)
	if err != nil {
		return nil, err
	}

	err = c.encode(ctx, EncodeParams{
		InputFile:   source,
		OutputFile:  outputFile,
		BitratePlan: plan,
	})
	if err != nil {
		return nil, err
	}

	return &entities.JobResult{
		Source:     entities.MediaFile{Path: source},
		OutputPath: outputFile,
		Duration:   duration,
		Plan:       plan,
	}, nil
}

func encodeArgs(params EncodeParams) []string {
	return []string{
		"-i", params.InputFile,
		"-b:v", strconv.FormatInt(params.VideoBitrate, 10),
		"-b:a", strconv.FormatInt(params.AudioBitrate, 10),
		"-vcodec", VideoCodec,
		"-acodec", AudioCodec,
		"-pix_fmt", PixFmt,
		"-color_range", ColorRange,
		"-colorspace", ColorSpace,
		"-y", // output name was checked free; overwrite anything that raced in
		params.OutputFile,
	}
}

func (c *Encoder) encode(ctx context.Context, params EncodeParams) error {
	logger := c.logger.With().
		Str("function", "encode").
		Str("input_file", params.InputFile).
		Str("output_file", params.OutputFile).
		Logger()

	args := encodeArgs(params)
	logger.Debug().Strs("ffmpeg_args", args).Msg("FFmpeg command constructed")

	start := time.Now()
	res, err := c.runner.Run(ctx, c.FFmpegPath, args, true)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error().Err(err).Dur("duration", elapsed).Msg("FFmpeg did not run to completion")
		if errors.Is(err, runner.ErrLaunch) {
			return fmt.Errorf("%w: %v", ErrEncodeLaunchFailed, err)
		}
		return fmt.Errorf("%w: %v", ErrEncodeExitNonZero, err)
	}
	if res.ExitCode != 0 {
		tail := outputTail(res.Output)
		logger.Error().
			Int("exit_code", res.ExitCode).
			Str("ffmpeg_output", tail).
			Dur("duration", elapsed).
			Msg("FFmpeg encoding failed")
		return fmt.Errorf("%w: exit code %d, output: %s", ErrEncodeExitNonZero, res.ExitCode, tail)
	}

	logger.Info().Dur("duration", elapsed).Msg("Compression successful")
	return nil
}

func outputTail(output []byte) string {
	if len(output) > outputTailBytes {
		output = output[len(output)-outputTailBytes:]
	}
	return string(output)
}
