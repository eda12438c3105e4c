package utils

import (
	"context"
	"errors"
	"fmt"
	"github.com/amankumarsingh77/quickpress/internal/worker/runner"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrToolMissing  = errors.New("tool does not exist")
	ErrToolUnusable = errors.New("tool failed to run")
	ErrInvalidSize  = errors.New("target size must be a positive number")
)

// GenerateJobID names a run after its source file, the host and the start
// time, e.g. "clip_desktop_20240501120000".
func GenerateJobID(source string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "job"
	}
	return stem + "_" + hostname + "_" + time.Now().Format("20060102150405")
}

// ParseTargetSize parses a size in megabytes, e.g. "8", "7.5" or "25MB".
func ParseTargetSize(arg string) (float64, error) {
	s := strings.TrimSpace(arg)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "MB"), "mb")
	size, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, arg)
	}
	return size, nil
}

// ValidateTool checks that path exists and that `path -version` exits zero.
func ValidateTool(ctx context.Context, r runner.Runner, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrToolMissing, path)
	}
	res, err := r.Run(ctx, path, []string{"-version"}, false)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolUnusable, path, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s -version exited with code %d", ErrToolUnusable, path, res.ExitCode)
	}
	return nil
}
