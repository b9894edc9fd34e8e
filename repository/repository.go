package repository

import (
	"context"

	"ytworkout/models"
)

type ExtractionRepository interface {
	Save(ctx context.Context, extraction *models.Extraction) error
	Find(ctx context.Context, id string) (*models.Extraction, error)
}
