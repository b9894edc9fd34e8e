package models

import (
	"time"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Extraction is one pipeline run: a resolved video, the workout plan the
// model returned, and the outcome. Rows exist so the download endpoints can
// serve a finished plan; a new POST always re-runs the pipeline.
type Extraction struct {
	ID        string      `json:"id"`
	VideoID   string      `json:"video_id"`
	URL       string      `json:"url"`
	Status    Status      `json:"status"`
	Plan      WorkoutPlan `json:"plan,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (e *Extraction) IsCompleted() bool { return e.Status == StatusCompleted }
func (e *Extraction) IsFailed() bool    { return e.Status == StatusFailed }

// HasPlan reports whether the extraction produced downloadable data.
func (e *Extraction) HasPlan() bool {
	return e.Status == StatusCompleted && len(e.Plan) > 0
}

// EmbedURL returns the standard player embed address for the video.
func (e *Extraction) EmbedURL() string {
	return "https://www.youtube.com/embed/" + e.VideoID
}
