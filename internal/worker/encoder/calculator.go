package encoder

import (
	"fmt"
	"github.com/amankumarsingh77/quickpress/internal/common/entities"
	"math"
)

const bitsPerMB = 1024 * 1024 * 8

// Allocate splits a size budget (MiB) over duration seconds into a video
// bitrate and the fixed audio bitrate. The video bitrate is truncated toward
// zero and must stay positive.
func Allocate(duration, sizeBudgetMB float64) (entities.BitratePlan, error) {
	if !validDuration(duration) {
		return entities.BitratePlan{}, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	if math.IsNaN(sizeBudgetMB) || sizeBudgetMB <= 0 {
		return entities.BitratePlan{}, fmt.Errorf("%w: budget %v MB", ErrBudgetTooSmall, sizeBudgetMB)
	}
	total := sizeBudgetMB * bitsPerMB / duration
	video := total - float64(entities.AudioBitrate)
	if video < 1 {
		return entities.BitratePlan{}, fmt.Errorf("%w: %.2f MB over %.3fs leaves %.0f bps for video",
			ErrBudgetTooSmall, sizeBudgetMB, duration, video)
	}
	videoBitrate := int64(math.MaxInt64)
	if video < math.MaxInt64 {
		videoBitrate = int64(video)
	}
	return entities.BitratePlan{
		VideoBitrate: videoBitrate,
		AudioBitrate: entities.AudioBitrate,
	}, nil
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}
