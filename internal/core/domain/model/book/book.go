package book

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/pkg/errs"
)

const (
	// MaxTitleLength mirrors the varchar(100) books.title column.
	MaxTitleLength = 100

	MinPublicationYear = 0
	MaxPublicationYear = 9999
)

var ErrBookIsNotConstructed = errors.New("Book must be created via NewBook or RestoreBook")

// Book is a catalog entry written by one author.
type Book struct {
	id              kernel.UUID
	authorID        kernel.UUID
	title           string
	publicationYear int
	isConstructed   bool
}

// NewBook creates a validated book bound to authorID.
// Whether the author exists is checked by the unit of work, not here.
func NewBook(id, authorID kernel.UUID, title string, publicationYear int) (*Book, error) {
	b := &Book{isConstructed: true}

	if err := errors.Join(
		b.setID(id),
		b.setAuthorID(authorID),
		b.setTitle(title),
		b.setPublicationYear(publicationYear),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBook rebuilds a book loaded from the store. Only the identifiers
// are checked; title and year are taken as stored.
func RestoreBook(id, authorID kernel.UUID, title string, publicationYear int) (*Book, error) {
	b := &Book{isConstructed: true, title: title, publicationYear: publicationYear}
	if err := errors.Join(b.setID(id), b.setAuthorID(authorID)); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate ensures the book was created through NewBook.
func (b *Book) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBookIsNotConstructed
	}
	return nil
}

func (b *Book) ID() kernel.UUID {
	return b.id
}

func (b *Book) AuthorID() kernel.UUID {
	return b.authorID
}

func (b *Book) Title() string {
	return b.title
}

func (b *Book) PublicationYear() int {
	return b.publicationYear
}

// Edit replaces title and publication year. On error the book is unchanged.
func (b *Book) Edit(title string, publicationYear int) error {
	if err := errors.Join(ValidateTitle(title), ValidatePublicationYear(publicationYear)); err != nil {
		return err
	}

	b.title = title
	b.publicationYear = publicationYear
	return nil
}

func (b *Book) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	b.id = id
	return nil
}

func (b *Book) setAuthorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("author_id", err)
	}

	b.authorID = id
	return nil
}

func (b *Book) setTitle(title string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}

	b.title = title
	return nil
}

func (b *Book) setPublicationYear(year int) error {
	if err := ValidatePublicationYear(year); err != nil {
		return err
	}

	b.publicationYear = year
	return nil
}

// ValidateTitle checks a title without constructing a Book.
// A blank title is missing; the length limit applies to the title as given.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.NewValueIsRequiredError("title")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return errs.NewValueIsInvalidErrorWithCause("title",
			fmt.Errorf("%d characters exceed the limit of %d", n, MaxTitleLength))
	}
	return nil
}

// ValidatePublicationYear checks the year lies in [MinPublicationYear, MaxPublicationYear].
func ValidatePublicationYear(year int) error {
	if year < MinPublicationYear || year > MaxPublicationYear {
		return errs.NewValueIsOutOfRangeError("publication_year", year, MinPublicationYear, MaxPublicationYear)
	}
	return nil
}
