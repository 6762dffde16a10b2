package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/entity"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/repository"
)

type scanRepository struct {
	db *gorm.DB
}

// NewScanRepository creates a new scan repository
func NewScanRepository(db *gorm.DB) repository.ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *entity.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Scan, error) {
	var scan entity.Scan
	err := r.db.WithContext(ctx).First(&scan, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) GetLatestByHash(ctx context.Context, mediaHash string) (*entity.Scan, error) {
	var scan entity.Scan
	err := r.db.WithContext(ctx).
		Where("media_hash = ?", mediaHash).
		Order("created_at DESC").
		First(&scan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) List(ctx context.Context, limit, offset int) ([]*entity.Scan, int64, error) {
	var scans []*entity.Scan
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Scan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&scans).Error
	if err != nil {
		return nil, 0, err
	}

	return scans, total, nil
}

func (r *scanRepository) ListByMediaType(ctx context.Context, mediaType entity.MediaType, limit, offset int) ([]*entity.Scan, int64, error) {
	var scans []*entity.Scan
	var total int64

	base := r.db.WithContext(ctx).Model(&entity.Scan{}).Where("media_type = ?", mediaType)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("media_type = ?", mediaType).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&scans).Error
	if err != nil {
		return nil, 0, err
	}

	return scans, total, nil
}

func (r *scanRepository) Update(ctx context.Context, scan *entity.Scan) error {
	return r.db.WithContext(ctx).Save(scan).Error
}

func (r *scanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Scan{}, "id = ?", id).Error
}
