package tagrepo

import (
	"context"

	"bookypedia/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormTagRepository implements book tag persistence using GORM.
type GormTagRepository struct {
	db      *gorm.DB
	tracker changeTracker
}

// changeTracker records rows touched by the enclosing unit of work.
type changeTracker interface {
	TrackChange(table string, id kernel.UUID)
}

// NewGormTagRepository creates a repository bound to db, usually a transaction.
func NewGormTagRepository(db *gorm.DB, tracker changeTracker) *GormTagRepository {
	return &GormTagRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts one row per tag. An empty slice is a no-op.
func (r *GormTagRepository) Add(ctx context.Context, bookID kernel.UUID, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	dtos := fromTags(bookID.Bytes(), tags)
	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	r.tracker.TrackChange(BookTagDTO{}.TableName(), bookID)
	return nil
}

// List returns the non-null tags of a book in alphabetical order.
func (r *GormTagRepository) List(ctx context.Context, bookID kernel.UUID) ([]string, error) {
	var dtos []BookTagDTO
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID.Bytes()).
		Order("tag").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Tag != nil {
			tags = append(tags, *dto.Tag)
		}
	}
	return tags, nil
}

// DeleteByBook removes every tag of a book.
func (r *GormTagRepository) DeleteByBook(ctx context.Context, bookID kernel.UUID) error {
	result := r.db.WithContext(ctx).Where("book_id = ?", bookID.Bytes()).Delete(&BookTagDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackChange(BookTagDTO{}.TableName(), bookID)
	}
	return nil
}

// CountOrphans counts tags whose book row does not exist.
func (r *GormTagRepository) CountOrphans(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookTagDTO{}).
		Joins("LEFT JOIN books ON books.id = book_tags.book_id").
		Where("books.id IS NULL").
		Count(&count).Error
	return count, err
}
