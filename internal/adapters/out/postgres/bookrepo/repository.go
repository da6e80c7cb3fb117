package bookrepo

import (
	"context"
	"errors"

	"bookypedia/internal/core/domain/model/book"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const listingQuery = `
	SELECT
		books.id,
		books.author_id,
		books.title,
		books.publication_year,
		authors.name AS author_name
	FROM books
	LEFT JOIN authors ON authors.id = books.author_id
`

// GormBookRepository implements book persistence using GORM.
type GormBookRepository struct {
	db      *gorm.DB
	tracker changeTracker
}

// changeTracker records rows touched by the enclosing unit of work.
type changeTracker interface {
	TrackChange(table string, id kernel.UUID)
}

// NewGormBookRepository creates a repository bound to db, usually a transaction.
func NewGormBookRepository(db *gorm.DB, tracker changeTracker) *GormBookRepository {
	return &GormBookRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new book. The caller is responsible for the author check.
func (r *GormBookRepository) Add(ctx context.Context, aggregate *book.Book) error {
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

// Get loads the book entity. ok is false when no row matches.
func (r *GormBookRepository) Get(ctx context.Context, id kernel.UUID) (*book.Book, bool, error) {
	var dto BookDTO
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

// Update writes the book's current title and publication year.
func (r *GormBookRepository) Update(ctx context.Context, aggregate *book.Book) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	// A map keeps zero values such as year 0 in the UPDATE.
	result := r.db.WithContext(ctx).
		Model(&BookDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"title":            aggregate.Title(),
			"publication_year": aggregate.PublicationYear(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackChange(BookDTO{}.TableName(), aggregate.ID())
	}
	return nil
}

// Delete removes the book row only.
func (r *GormBookRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Delete(&BookDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackChange(BookDTO{}.TableName(), id)
	}
	return nil
}

// DeleteByAuthor removes every book row of the author.
func (r *GormBookRepository) DeleteByAuthor(ctx context.Context, authorID kernel.UUID) error {
	result := r.db.WithContext(ctx).Where("author_id = ?", authorID.Bytes()).Delete(&BookDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackChange(BookDTO{}.TableName(), authorID)
	}
	return nil
}

// IDsByAuthor returns the identifiers of the author's books.
func (r *GormBookRepository) IDsByAuthor(ctx context.Context, authorID kernel.UUID) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&BookDTO{}).
		Where("author_id = ?", authorID.Bytes()).
		Pluck("id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		bookID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, bookID)
	}
	return ids, nil
}

// ListByAuthor returns the author's books ordered by publication year.
// AuthorName is not filled in.
func (r *GormBookRepository) ListByAuthor(ctx context.Context, authorID kernel.UUID) ([]ports.BookInfo, error) {
	var dtos []BookDTO
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID.Bytes()).
		Order("publication_year").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	books := make([]ports.BookInfo, 0, len(dtos))
	for _, dto := range dtos {
		info, err := toInfo(dto)
		if err != nil {
			return nil, err
		}
		books = append(books, info)
	}
	return books, nil
}

// ListWithAuthors returns every book joined with its author, ordered by title.
func (r *GormBookRepository) ListWithAuthors(ctx context.Context) ([]Listing, error) {
	return r.listings(ctx, listingQuery+` ORDER BY books.title`)
}

// ListByTitleWithAuthors returns books with exactly this title joined with their authors.
func (r *GormBookRepository) ListByTitleWithAuthors(ctx context.Context, title string) ([]Listing, error) {
	return r.listings(ctx, listingQuery+` WHERE books.title = ? ORDER BY authors.name`, title)
}

// AuthorIDOf returns the author reference stored on a book.
func (r *GormBookRepository) AuthorIDOf(ctx context.Context, bookID kernel.UUID) (kernel.UUID, bool, error) {
	aggregate, ok, err := r.Get(ctx, bookID)
	if err != nil || !ok {
		return kernel.UUID{}, false, err
	}
	return aggregate.AuthorID(), true, nil
}

// CountOrphans counts books whose author row does not exist.
func (r *GormBookRepository) CountOrphans(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookDTO{}).
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Where("authors.id IS NULL").
		Count(&count).Error
	return count, err
}

func (r *GormBookRepository) listings(ctx context.Context, query string, args ...any) ([]Listing, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]Listing, 0)
	for rows.Next() {
		var row listingRow
		if err = rows.Scan(
			&row.ID,
			&row.AuthorID,
			&row.Title,
			&row.PublicationYear,
			&row.AuthorName,
		); err != nil {
			return nil, err
		}

		listing, convErr := row.toListing()
		if convErr != nil {
			return nil, convErr
		}
		listings = append(listings, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}
