package workout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ytworkout/errors"
	"ytworkout/models"
	"ytworkout/repository"
	"ytworkout/validation"
	"ytworkout/youtube"
)

type Repository = repository.ExtractionRepository

type service struct {
	repo      Repository
	fetcher   TranscriptFetcher
	extractor Extractor
	validator *validation.Validator
	config    Config
	logger    *logrus.Logger
}

func NewService(
	repo Repository,
	fetcher TranscriptFetcher,
	extractor Extractor,
	validator *validation.Validator,
	config Config,
) Service {
	return &service{
		repo:      repo,
		fetcher:   fetcher,
		extractor: extractor,
		validator: validator,
		config:    config,
		logger:    logrus.StandardLogger(),
	}
}

func (s *service) Extract(ctx context.Context, url string) (*models.Extraction, error) {
	const op = "WorkoutService.Extract"
	logger := s.logger.WithField("url", url)
	logger.Info("Starting workout extraction")

	if err := s.validator.ValidateURL(url); err != nil {
		logger.WithError(err).Warn("URL validation failed")
		return nil, err
	}

	videoID, err := youtube.ResolveVideoID(url)
	if err != nil {
		logger.WithError(err).Warn("Video ID resolution failed")
		return nil, err
	}

	if s.config.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ProcessTimeout)
		defer cancel()
	}

	now := time.Now()
	extraction := &models.Extraction{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		URL:       url,
		CreatedAt: now,
		UpdatedAt: now,
	}
	logger = logger.WithField("video_id", videoID)

	transcript, err := s.fetcher.FetchTranscript(ctx, videoID)
	if err != nil {
		logger.WithError(err).Warn("Transcript fetch failed")
		return nil, s.fail(ctx, extraction, err)
	}

	text := transcript.JoinText()
	if text == "" {
		err := errors.NoTranscript(op, nil, "No transcript available for this video.")
		return nil, s.fail(ctx, extraction, err)
	}

	logger.WithFields(logrus.Fields{
		"language":  transcript.Language,
		"generated": transcript.Generated,
		"segments":  len(transcript.Segments),
	}).Info("Transcript fetched")

	plan, err := s.extractor.ExtractWorkout(ctx, text)
	if err != nil {
		logger.WithError(err).Error("Workout extraction failed")
		return nil, s.fail(ctx, extraction, err)
	}

	extraction.Status = models.StatusCompleted
	extraction.Plan = plan
	extraction.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, extraction); err != nil {
		logger.WithError(err).Error("Failed to save extraction")
		return nil, errors.Internal(op, err, "Failed to save extraction")
	}

	logger.WithField("exercises", len(plan)).Info("Workout extraction completed")
	return extraction, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Extraction, error) {
	const op = "WorkoutService.Get"

	if id == "" {
		return nil, errors.InvalidInput(op, nil, "ID is required")
	}
	return s.repo.Find(ctx, id)
}

// fail records the failed run and hands the stage error back unchanged so
// callers see the original failure kind.
func (s *service) fail(ctx context.Context, extraction *models.Extraction, stageErr error) error {
	extraction.Status = models.StatusFailed
	extraction.Error = stageErr.Error()
	extraction.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, extraction); err != nil {
		s.logger.WithError(err).Error("Failed to save failed extraction")
	}
	return stageErr
}
