package runner

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// TestHelperProcess is re-executed as the child process by the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("QUICKPRESS_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) > 0 {
		args = args[1:]
	}
	if len(args) == 0 {
		os.Exit(2)
	}
	switch args[0] {
	case "echo":
		fmt.Fprint(os.Stdout, strings.Join(args[1:], " "))
		fmt.Fprint(os.Stderr, "|stderr")
		os.Exit(0)
	case "flood":
		// More than a pipe buffer, so the child blocks unless the parent drains.
		chunk := strings.Repeat("x", 1024)
		for i := 0; i < 512; i++ {
			fmt.Fprint(os.Stdout, chunk)
		}
		os.Exit(0)
	case "exit":
		code, _ := strconv.Atoi(args[1])
		fmt.Fprint(os.Stdout, "bye")
		os.Exit(code)
	}
	os.Exit(2)
}

func helperArgs(args ...string) []string {
	return append([]string{"-test.run=TestHelperProcess", "--"}, args...)
}

func TestExecRunner(t *testing.T) {
	t.Setenv("QUICKPRESS_HELPER_PROCESS", "1")
	r := NewExecRunner()
	ctx := context.Background()

	t.Run("captures stdout and stderr", func(t *testing.T) {
		res, err := r.Run(ctx, os.Args[0], helperArgs("echo", "10.5"), true)
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Contains(t, string(res.Output), "10.5")
		assert.Contains(t, string(res.Output), "|stderr")
	})

	t.Run("drains large output", func(t *testing.T) {
		res, err := r.Run(ctx, os.Args[0], helperArgs("flood"), true)
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Len(t, res.Output, 512*1024)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		res, err := r.Run(ctx, os.Args[0], helperArgs("exit", "3"), true)
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "bye", string(res.Output))
	})

	t.Run("no capture discards output", func(t *testing.T) {
		res, err := r.Run(ctx, os.Args[0], helperArgs("exit", "0"), false)
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Empty(t, res.Output)
	})
}

func TestExecRunner_LaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-tool")
	_, err := NewExecRunner().Run(context.Background(), missing, nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLaunch)
}
