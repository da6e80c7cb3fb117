package authorrepo

import (
	"context"
	"errors"

	"bookypedia/internal/core/domain/model/author"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuthorRepository implements author persistence using GORM.
type GormAuthorRepository struct {
	db      *gorm.DB
	tracker changeTracker
}

// changeTracker records rows touched by the enclosing unit of work.
type changeTracker interface {
	TrackChange(table string, id kernel.UUID)
}

// NewGormAuthorRepository creates a repository bound to db, usually a transaction.
func NewGormAuthorRepository(db *gorm.DB, tracker changeTracker) *GormAuthorRepository {
	return &GormAuthorRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new author. A duplicate name surfaces as the driver's error.
func (r *GormAuthorRepository) Add(ctx context.Context, aggregate *author.Author) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackChange(dto.TableName(), aggregate.ID())
	return nil
}

// Get loads the author entity. ok is false when no row matches.
func (r *GormAuthorRepository) Get(ctx context.Context, id kernel.UUID) (*author.Author, bool, error) {
	var dto AuthorDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	aggregate, err := toDomain(dto)
	if err != nil {
		return nil, false, err
	}
	return aggregate, true, nil
}

// Update writes the author's current name. A duplicate name surfaces as the driver's error.
func (r *GormAuthorRepository) Update(ctx context.Context, aggregate *author.Author) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&AuthorDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Update("name", aggregate.Name())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackChange(AuthorDTO{}.TableName(), aggregate.ID())
	}
	return nil
}

// Delete removes the author row only.
func (r *GormAuthorRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Delete(&AuthorDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackChange(AuthorDTO{}.TableName(), id)
	}
	return nil
}

// List returns all authors ordered by name using the column's collation.
func (r *GormAuthorRepository) List(ctx context.Context) ([]ports.AuthorInfo, error) {
	var dtos []AuthorDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	authors := make([]ports.AuthorInfo, 0, len(dtos))
	for _, dto := range dtos {
		info, err := toInfo(dto)
		if err != nil {
			return nil, err
		}
		authors = append(authors, info)
	}

	return authors, nil
}

// FindByName looks up an author by exact name.
func (r *GormAuthorRepository) FindByName(ctx context.Context, name string) (ports.AuthorInfo, bool, error) {
	return r.findOne(ctx, "name = ?", name)
}

// FindByID looks up an author by identifier.
func (r *GormAuthorRepository) FindByID(ctx context.Context, id kernel.UUID) (ports.AuthorInfo, bool, error) {
	return r.findOne(ctx, "id = ?", id.Bytes())
}

// FindByIDs returns every author row matching id. More than one row means
// the primary key was bypassed; callers decide how to treat that.
func (r *GormAuthorRepository) FindByIDs(ctx context.Context, id kernel.UUID) ([]ports.AuthorInfo, error) {
	var dtos []AuthorDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Limit(2).Find(&dtos).Error; err != nil {
		return nil, err
	}

	authors := make([]ports.AuthorInfo, 0, len(dtos))
	for _, dto := range dtos {
		info, err := toInfo(dto)
		if err != nil {
			return nil, err
		}
		authors = append(authors, info)
	}
	return authors, nil
}

func (r *GormAuthorRepository) findOne(ctx context.Context, query string, arg any) (ports.AuthorInfo, bool, error) {
	var dto AuthorDTO
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AuthorInfo{}, false, nil
		}
		return ports.AuthorInfo{}, false, err
	}

	info, err := toInfo(dto)
	if err != nil {
		return ports.AuthorInfo{}, false, err
	}
	return info, true, nil
}
