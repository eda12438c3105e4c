package entities

import "time"

// AudioBitrate is the fixed AAC bitrate in bits per second.
const AudioBitrate int64 = 128000

type MediaFile struct {
	Path string `json:"path"`
}

// BitratePlan holds the target average bitrates, in bits per second.
type BitratePlan struct {
	VideoBitrate int64 `json:"video_bitrate"`
	AudioBitrate int64 `json:"audio_bitrate"`
}

type JobResult struct {
	Source     MediaFile   `json:"source"`
	OutputPath string      `json:"output_path"`
	Duration   float64     `json:"duration"`
	Plan       BitratePlan `json:"plan"`
}

type JobStatus string

const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobRecord is what the history ledger keeps for one invocation.
type JobRecord struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	TargetSizeMB float64   `json:"target_size_mb"`
	OutputPath   string    `json:"output_path,omitempty"`
	Duration     float64   `json:"duration,omitempty"`
	VideoBitrate int64     `json:"video_bitrate,omitempty"`
	AudioBitrate int64     `json:"audio_bitrate,omitempty"`
	Status       JobStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
