package ports

import (
	"context"

	"bookypedia/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory owns at most one live UnitOfWork at a time.
type UnitOfWorkFactory interface {
	// GetUnitOfWork returns the live unit of work, beginning a new transaction
	// when there is none. Two calls without DeleteUnitOfWork in between return
	// the same instance.
	GetUnitOfWork(ctx context.Context) (UnitOfWork, error)

	// DeleteUnitOfWork forgets the live unit of work. It neither commits nor
	// resets; the caller must have finalized it already.
	DeleteUnitOfWork()
}

// UnitOfWork is one open transaction against the catalog store. No operation
// commits on its own.
//
// Optional results use the comma-ok form: ok == false with a nil error means
// absence (not found, duplicate name, unknown author). A non-nil error is a
// store fault and the transaction must be reset.
type UnitOfWork interface {
	// AddAuthor inserts an author under a new ID. ok is false when the name is
	// already taken or otherwise violates a constraint.
	AddAuthor(ctx context.Context, name string) (id kernel.UUID, ok bool, err error)

	// AddBook inserts a book under a new ID. ok is false when authorID does not
	// resolve to an author or a constraint is violated.
	AddBook(ctx context.Context, title string, year int, authorID kernel.UUID) (id kernel.UUID, ok bool, err error)

	// AddBookTags inserts one row per tag. Uniqueness is not checked here.
	AddBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error

	// GetAuthors lists all authors ordered by name.
	GetAuthors(ctx context.Context) ([]AuthorInfo, error)

	// GetBooks lists all books ordered by title. Books whose author cannot be
	// resolved are skipped.
	GetBooks(ctx context.Context) ([]BookInfo, error)

	// GetAuthorBooks lists the author's books ordered by publication year.
	// The list is empty unless authorID resolves to exactly one author.
	GetAuthorBooks(ctx context.Context, authorID kernel.UUID) ([]BookInfo, error)

	FindAuthorByName(ctx context.Context, name string) (AuthorInfo, bool, error)
	FindAuthorByID(ctx context.Context, id kernel.UUID) (AuthorInfo, bool, error)

	// FindBookByTitle lists books with exactly this title. Books whose author
	// cannot be resolved are skipped.
	FindBookByTitle(ctx context.Context, title string) ([]BookInfo, error)

	// GetBookAuthor resolves the owning author of a book. Only ID is populated.
	GetBookAuthor(ctx context.Context, bookID kernel.UUID) (AuthorInfo, bool, error)

	GetBookTags(ctx context.Context, bookID kernel.UUID) ([]string, error)

	// DeleteAuthorBooks deletes the tags of every book of the author, then the books.
	DeleteAuthorBooks(ctx context.Context, authorID kernel.UUID) error

	// DeleteAuthor deletes the author row only.
	DeleteAuthor(ctx context.Context, authorID kernel.UUID) error

	DeleteBookTags(ctx context.Context, bookID kernel.UUID) error

	// DeleteBook deletes the book row only.
	DeleteBook(ctx context.Context, bookID kernel.UUID) error

	// EditAuthor renames an author. A duplicate name is a store fault.
	EditAuthor(ctx context.Context, authorID kernel.UUID, newName string) error

	// EditBook updates title and publication year of book.ID.
	EditBook(ctx context.Context, book BookInfo) error

	// EditBookTags replaces the whole tag set: delete all, then insert all.
	EditBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error

	// CheckIntegrity counts books without an author and tags without a book.
	CheckIntegrity(ctx context.Context) (IntegrityReport, error)

	// Commit finalizes the transaction. It is a no-op once finalized.
	Commit(ctx context.Context) error

	// Reset rolls the transaction back. It is a no-op once finalized.
	Reset(ctx context.Context) error
}
