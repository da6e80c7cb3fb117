// Package bookrepo persists books. Writes take the book entity, reads return
// ports.BookInfo read models, optionally joined with the author's name.
package bookrepo

import (
	"database/sql"

	"bookypedia/internal/core/domain/model/book"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"

	"github.com/google/uuid"
)

// BookDTO maps the books table. author_id is a soft reference: there is no
// foreign key, cascades are performed by the use-case layer.
type BookDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Title           string    `gorm:"type:varchar(100);not null;index"`
	PublicationYear int       `gorm:"type:integer;not null"`
}

// TableName overrides GORM's default "book_dtos".
func (BookDTO) TableName() string {
	return "books"
}

// Listing is a book joined with its author. AuthorFound is false when the
// author row is missing; Info.AuthorName is empty in that case.
type Listing struct {
	Info        ports.BookInfo
	AuthorFound bool
}

// listingRow is the scan target of the books/authors join.
type listingRow struct {
	ID              uuid.UUID
	AuthorID        uuid.UUID
	Title           string
	PublicationYear int
	AuthorName      sql.NullString
}

func fromDomain(b *book.Book) BookDTO {
	return BookDTO{
		ID:              b.ID().Bytes(),
		AuthorID:        b.AuthorID().Bytes(),
		Title:           b.Title(),
		PublicationYear: b.PublicationYear(),
	}
}

func toDomain(dto BookDTO) (*book.Book, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	authorID, err := kernel.UUIDFromBytes(dto.AuthorID[:])
	if err != nil {
		return nil, err
	}

	return book.RestoreBook(id, authorID, dto.Title, dto.PublicationYear)
}

func toInfo(dto BookDTO) (ports.BookInfo, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.BookInfo{}, err
	}

	authorID, err := kernel.UUIDFromBytes(dto.AuthorID[:])
	if err != nil {
		return ports.BookInfo{}, err
	}

	return ports.BookInfo{
		ID:              id,
		AuthorID:        authorID,
		Title:           dto.Title,
		PublicationYear: dto.PublicationYear,
	}, nil
}

func (row listingRow) toListing() (Listing, error) {
	info, err := toInfo(BookDTO{
		ID:              row.ID,
		AuthorID:        row.AuthorID,
		Title:           row.Title,
		PublicationYear: row.PublicationYear,
	})
	if err != nil {
		return Listing{}, err
	}

	info.AuthorName = row.AuthorName.String
	return Listing{Info: info, AuthorFound: row.AuthorName.Valid}, nil
}
