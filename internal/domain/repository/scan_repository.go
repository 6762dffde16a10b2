package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/entity"
)

// ScanRepository defines the interface for scan data operations
type ScanRepository interface {
	// Create persists a new scan
	Create(ctx context.Context, scan *entity.Scan) error

	// GetByID retrieves a scan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Scan, error)

	// GetLatestByHash retrieves the most recent scan for a media hash
	GetLatestByHash(ctx context.Context, mediaHash string) (*entity.Scan, error)

	// List retrieves scans with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.Scan, int64, error)

	// ListByMediaType retrieves scans of one media type with pagination
	ListByMediaType(ctx context.Context, mediaType entity.MediaType, limit, offset int) ([]*entity.Scan, int64, error)

	// Update updates a scan
	Update(ctx context.Context, scan *entity.Scan) error

	// Delete deletes a scan by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
