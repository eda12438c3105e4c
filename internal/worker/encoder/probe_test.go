package encoder

import (
	"context"
	"errors"
	"github.com/amankumarsingh77/quickpress/internal/worker/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestProbeDuration_Args(t *testing.T) {
	fr := &fakeRunner{results: map[string]runner.Result{"ffprobe": {Output: []byte("1437.123000\r\n")}}}

	d, err := newTestEncoder(fr).ProbeDuration(context.Background(), "in.mkv")
	require.NoError(t, err)
	assert.Equal(t, 1437.123, d)

	require.Len(t, fr.calls, 1)
	assert.True(t, fr.calls[0].capture)
	assert.Equal(t, []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"in.mkv",
	}, fr.calls[0].args)
}

func TestProbeDuration_InvalidOutput(t *testing.T) {
	for _, out := range []string{"0", "", "abc", "-5", "N/A", "NaN", "+Inf"} {
		t.Run(out, func(t *testing.T) {
			fr := &fakeRunner{results: map[string]runner.Result{"ffprobe": {Output: []byte(out)}}}
			_, err := newTestEncoder(fr).ProbeDuration(context.Background(), "in.mp4")
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}

func TestProbeDuration_WaitFailure(t *testing.T) {
	fr := &fakeRunner{errs: map[string]error{"ffprobe": errors.New("wait for ffprobe: broken pipe")}}
	_, err := newTestEncoder(fr).ProbeDuration(context.Background(), "in.mp4")
	assert.ErrorIs(t, err, ErrProbeExitNonZero)
	assert.NotErrorIs(t, err, ErrProbeLaunchFailed)
}
