package workout

import (
	"context"
	"encoding/json"
	"testing"

	"ytworkout/config"
	"ytworkout/errors"
	"ytworkout/models"
	"ytworkout/validation"
	"ytworkout/youtube"
)

// --- test doubles ---

type mockRepo struct {
	saved []*models.Extraction
	byID  map[string]*models.Extraction
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[string]*models.Extraction)}
}

func (m *mockRepo) Save(ctx context.Context, e *models.Extraction) error {
	copied := *e
	m.saved = append(m.saved, &copied)
	m.byID[e.ID] = &copied
	return nil
}

func (m *mockRepo) Find(ctx context.Context, id string) (*models.Extraction, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, errors.NotFound("mockRepo.Find", nil, "Extraction not found")
	}
	return e, nil
}

type mockFetcher struct {
	transcript *youtube.Transcript
	err        error
	calls      int
	lastID     string
}

func (m *mockFetcher) FetchTranscript(ctx context.Context, videoID string) (*youtube.Transcript, error) {
	m.calls++
	m.lastID = videoID
	return m.transcript, m.err
}

type mockExtractor struct {
	plan     models.WorkoutPlan
	err      error
	calls    int
	lastText string
}

func (m *mockExtractor) ExtractWorkout(ctx context.Context, text string) (models.WorkoutPlan, error) {
	m.calls++
	m.lastText = text
	return m.plan, m.err
}

func newTestService(repo *mockRepo, fetcher *mockFetcher, extractor *mockExtractor) Service {
	validator := validation.NewValidator(&config.Config{})
	return NewService(repo, fetcher, extractor, validator, Config{})
}

func sampleTranscript() *youtube.Transcript {
	return &youtube.Transcript{
		Language: "en",
		Segments: []youtube.Segment{
			{Text: "Today we're doing push-ups, three sets of fifteen", Start: 0.24, Duration: 3.5},
			{Text: "then squats, four sets of twelve", Start: 3.74, Duration: 2.1},
		},
	}
}

func samplePlan() models.WorkoutPlan {
	return models.WorkoutPlan{
		{Exercise: "Push-ups", Sets: json.Number("3"), Reps: json.Number("15")},
		{Exercise: "Squats", Sets: json.Number("4"), Reps: json.Number("12")},
	}
}

// --- tests ---

func TestExtract(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{transcript: sampleTranscript()}
	extractor := &mockExtractor{plan: samplePlan()}
	svc := newTestService(repo, fetcher, extractor)

	extraction, err := svc.Extract(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if extraction.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("Expected video ID %q, got %q", "dQw4w9WgXcQ", extraction.VideoID)
	}
	if extraction.Status != models.StatusCompleted {
		t.Errorf("Expected status %q, got %q", models.StatusCompleted, extraction.Status)
	}
	if len(extraction.Plan) != 2 {
		t.Fatalf("Expected 2 exercises, got %d", len(extraction.Plan))
	}
	if extraction.Plan[0].Exercise != "Push-ups" {
		t.Errorf("Expected first exercise %q, got %q", "Push-ups", extraction.Plan[0].Exercise)
	}

	if fetcher.lastID != "dQw4w9WgXcQ" {
		t.Errorf("Fetcher called with %q, expected resolved video ID", fetcher.lastID)
	}
	want := "Today we're doing push-ups, three sets of fifteen then squats, four sets of twelve"
	if extractor.lastText != want {
		t.Errorf("Extractor called with %q, expected joined transcript %q", extractor.lastText, want)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("Expected 1 saved record, got %d", len(repo.saved))
	}
	if repo.saved[0].Status != models.StatusCompleted {
		t.Errorf("Expected saved record completed, got %q", repo.saved[0].Status)
	}
}

func TestExtractEmptyURL(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{transcript: sampleTranscript()}
	extractor := &mockExtractor{plan: samplePlan()}
	svc := newTestService(repo, fetcher, extractor)

	_, err := svc.Extract(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for empty URL")
	}
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("Expected kind %q, got %q", errors.KindInvalidInput, errors.KindOf(err))
	}
	if fetcher.calls != 0 || extractor.calls != 0 {
		t.Errorf("Expected no pipeline stage to run, got fetcher=%d extractor=%d", fetcher.calls, extractor.calls)
	}
	if len(repo.saved) != 0 {
		t.Errorf("Expected nothing persisted, got %d records", len(repo.saved))
	}
}

func TestExtractInvalidURL(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{transcript: sampleTranscript()}
	extractor := &mockExtractor{plan: samplePlan()}
	svc := newTestService(repo, fetcher, extractor)

	_, err := svc.Extract(context.Background(), "https://vimeo.com/123456")
	if err == nil {
		t.Fatal("Expected error for non-YouTube URL")
	}
	if !errors.IsKind(err, errors.KindInvalidURL) {
		t.Errorf("Expected kind %q, got %q", errors.KindInvalidURL, errors.KindOf(err))
	}
	if fetcher.calls != 0 {
		t.Errorf("Expected transcript fetch to be skipped, got %d calls", fetcher.calls)
	}
}

func TestExtractNoTranscriptShortCircuits(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{
		err: errors.NoTranscript("test", nil, "No transcript available for this video."),
	}
	extractor := &mockExtractor{plan: samplePlan()}
	svc := newTestService(repo, fetcher, extractor)

	_, err := svc.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("Expected error when transcript fetch fails")
	}
	if !errors.IsKind(err, errors.KindNoTranscript) {
		t.Errorf("Expected kind %q, got %q", errors.KindNoTranscript, errors.KindOf(err))
	}
	if extractor.calls != 0 {
		t.Errorf("Expected extractor never called, got %d calls", extractor.calls)
	}

	// The failed run is still recorded.
	if len(repo.saved) != 1 {
		t.Fatalf("Expected 1 saved failure record, got %d", len(repo.saved))
	}
	if repo.saved[0].Status != models.StatusFailed {
		t.Errorf("Expected saved status %q, got %q", models.StatusFailed, repo.saved[0].Status)
	}
}

func TestExtractEmptyTranscript(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{transcript: &youtube.Transcript{Language: "en"}}
	extractor := &mockExtractor{plan: samplePlan()}
	svc := newTestService(repo, fetcher, extractor)

	_, err := svc.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("Expected error for empty transcript")
	}
	if !errors.IsKind(err, errors.KindNoTranscript) {
		t.Errorf("Expected kind %q, got %q", errors.KindNoTranscript, errors.KindOf(err))
	}
	if extractor.calls != 0 {
		t.Errorf("Expected extractor never called, got %d calls", extractor.calls)
	}
}

func TestExtractExtractorErrorPassesThrough(t *testing.T) {
	tests := []struct {
		name     string
		stageErr error
		wantKind errors.Kind
	}{
		{
			name:     "Missing credential",
			stageErr: errors.MissingCredential("test", "Perplexity API key is missing."),
			wantKind: errors.KindMissingCredential,
		},
		{
			name:     "Upstream failure",
			stageErr: errors.Upstream("test", nil, "Failed to connect to Perplexity API"),
			wantKind: errors.KindUpstream,
		},
		{
			name:     "Unparsable response",
			stageErr: errors.Parse("test", nil, "Failed to parse Perplexity response as JSON."),
			wantKind: errors.KindParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			fetcher := &mockFetcher{transcript: sampleTranscript()}
			extractor := &mockExtractor{err: tt.stageErr}
			svc := newTestService(repo, fetcher, extractor)

			_, err := svc.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
			if err == nil {
				t.Fatal("Expected the stage error to propagate")
			}
			if !errors.IsKind(err, tt.wantKind) {
				t.Errorf("Expected kind %q, got %q", tt.wantKind, errors.KindOf(err))
			}
			if len(repo.saved) != 1 || repo.saved[0].Status != models.StatusFailed {
				t.Error("Expected one failed record to be persisted")
			}
		})
	}
}

func TestExtractEmptyPlanCompletes(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{transcript: sampleTranscript()}
	extractor := &mockExtractor{plan: models.WorkoutPlan{}}
	svc := newTestService(repo, fetcher, extractor)

	extraction, err := svc.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if extraction.Status != models.StatusCompleted {
		t.Errorf("Expected empty plan to complete, got status %q", extraction.Status)
	}
	if extraction.HasPlan() {
		t.Error("Expected HasPlan to be false for an empty plan")
	}
}

func TestGet(t *testing.T) {
	repo := newMockRepo()
	fetcher := &mockFetcher{transcript: sampleTranscript()}
	extractor := &mockExtractor{plan: samplePlan()}
	svc := newTestService(repo, fetcher, extractor)

	created, err := svc.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.VideoID != created.VideoID {
		t.Errorf("Expected video ID %q, got %q", created.VideoID, got.VideoID)
	}

	if _, err := svc.Get(context.Background(), "missing-id"); !errors.IsNotFound(err) {
		t.Errorf("Expected not_found for unknown ID, got %v", err)
	}

	if _, err := svc.Get(context.Background(), ""); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("Expected invalid_input for empty ID, got %v", err)
	}
}
