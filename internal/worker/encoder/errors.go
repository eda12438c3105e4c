package encoder

import "errors"

var (
	ErrProbeLaunchFailed   = errors.New("ffprobe could not be started")
	ErrProbeExitNonZero    = errors.New("ffprobe returned non-zero exit code")
	ErrInvalidDuration     = errors.New("invalid video duration")
	ErrBudgetTooSmall      = errors.New("desired size is too small")
	ErrNoExtension         = errors.New("file has no extension")
	ErrOutputPathExhausted = errors.New("no free output filename")
	ErrEncodeLaunchFailed  = errors.New("ffmpeg could not be started")
	ErrEncodeExitNonZero   = errors.New("ffmpeg returned non-zero exit code")
)
