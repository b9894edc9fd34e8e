package workout

import (
	"context"
	"time"

	"ytworkout/models"
	"ytworkout/youtube"
)

type Service interface {
	// Extract runs the full pipeline for a video URL: resolve, fetch
	// transcript, extract, persist. Every call re-runs all stages.
	Extract(ctx context.Context, url string) (*models.Extraction, error)

	// Get retrieves a stored extraction by ID.
	Get(ctx context.Context, id string) (*models.Extraction, error)
}

// TranscriptFetcher yields the ordered caption segments for a video.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (*youtube.Transcript, error)
}

// Extractor turns transcript text into a structured workout plan.
type Extractor interface {
	ExtractWorkout(ctx context.Context, transcriptText string) (models.WorkoutPlan, error)
}

type Config struct {
	// ProcessTimeout bounds one full pipeline run.
	ProcessTimeout time.Duration
}
