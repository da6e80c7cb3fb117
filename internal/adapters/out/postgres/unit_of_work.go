// Package postgres provides the GORM implementation of the catalog's Unit of Work.
//
// A GormUnitOfWork wraps exactly one PostgreSQL transaction. Every operation
// runs inside it and nothing is visible to other connections until Commit.
// GormUnitOfWorkFactory hands out at most one live unit of work at a time and
// begins a fresh transaction on the first call after DeleteUnitOfWork.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, logger)
//	uow, err := factory.GetUnitOfWork(ctx)
//	if err != nil {
//	    return err
//	}
//	defer factory.DeleteUnitOfWork()
//
//	id, ok, err := uow.AddAuthor(ctx, "Joanne Rowling")
//	if err != nil || !ok {
//	    _ = uow.Reset(ctx)
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Constraint violations on inserts are reported as absence. Each insert runs
// under a SAVEPOINT, so a rejected row does not abort the surrounding
// PostgreSQL transaction and the unit of work stays usable.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"bookypedia/internal/adapters/out/postgres/authorrepo"
	"bookypedia/internal/adapters/out/postgres/bookrepo"
	"bookypedia/internal/adapters/out/postgres/tagrepo"
	"bookypedia/internal/core/domain/model/author"
	"bookypedia/internal/core/domain/model/book"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"

	"gorm.io/gorm"
)

const insertSavePoint = "catalog_insert"

// trackedChange is a row written during the unit of work.
type trackedChange struct {
	Table string
	ID    kernel.UUID
}

// GormUnitOfWorkFactory lazily owns one GormUnitOfWork. It is not safe for
// concurrent use; concurrent callers need a factory each.
type GormUnitOfWorkFactory struct {
	db      *gorm.DB
	logger  *slog.Logger
	current *GormUnitOfWork
}

// NewGormUnitOfWorkFactory creates a factory whose units of work run on db.
func NewGormUnitOfWorkFactory(db *gorm.DB, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:     db,
		logger: logger.With("component", "unit_of_work"),
	}
}

// GetUnitOfWork returns the live unit of work or begins a new transaction.
func (f *GormUnitOfWorkFactory) GetUnitOfWork(ctx context.Context) (ports.UnitOfWork, error) {
	if f.current != nil {
		return f.current, nil
	}

	uow := &GormUnitOfWork{
		db:      f.db,
		logger:  f.logger,
		changes: make([]trackedChange, 0),
	}
	if err := uow.begin(ctx); err != nil {
		return nil, err
	}

	f.current = uow
	return uow, nil
}

// DeleteUnitOfWork forgets the live unit of work without finalizing it.
func (f *GormUnitOfWorkFactory) DeleteUnitOfWork() {
	f.current = nil
}

// GormUnitOfWork is one open transaction with the catalog operations on top.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	logger  *slog.Logger
	changes []trackedChange
}

func (uow *GormUnitOfWork) begin(ctx context.Context) error {
	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	uow.tx = tx
	return nil
}

// Commit finalizes the transaction. Calling it after Commit or Reset does nothing.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	uow.logger.DebugContext(ctx, "Transaction committed",
		"changes", len(uow.changes), "tables", uow.ChangedTables())
	return nil
}

// Reset rolls the transaction back. Calling it after Commit or Reset does nothing.
func (uow *GormUnitOfWork) Reset(ctx context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	if err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}

	uow.logger.DebugContext(ctx, "Transaction rolled back",
		"discarded_changes", len(uow.changes), "tables", uow.ChangedTables())
	return nil
}

// TrackChange records a written row. Called by the repositories.
func (uow *GormUnitOfWork) TrackChange(table string, id kernel.UUID) {
	uow.changes = append(uow.changes, trackedChange{Table: table, ID: id})
}

// ChangedTables lists, sorted and without repeats, the tables written so far.
func (uow *GormUnitOfWork) ChangedTables() []string {
	tables := make([]string, 0, len(uow.changes))
	for _, change := range uow.changes {
		tables = append(tables, change.Table)
	}
	slices.Sort(tables)
	return slices.Compact(tables)
}

// AddAuthor inserts an author under a new ID. Invalid or duplicate names are reported as ok == false.
func (uow *GormUnitOfWork) AddAuthor(ctx context.Context, name string) (kernel.UUID, bool, error) {
	if uow.tx == nil {
		return kernel.UUID{}, false, ErrTransactionIsNotActive
	}

	aggregate, err := author.NewAuthor(kernel.NewUUID(), name)
	if err != nil {
		uow.logger.DebugContext(ctx, "Author rejected", "name", name, "error", err)
		return kernel.UUID{}, false, nil
	}

	ok, err := uow.insert(ctx, func() error {
		return uow.authors().Add(ctx, aggregate)
	})
	if err != nil || !ok {
		return kernel.UUID{}, false, err
	}
	return aggregate.ID(), true, nil
}

// AddBook inserts a book under a new ID. ok is false for invalid input or an unknown author.
func (uow *GormUnitOfWork) AddBook(
	ctx context.Context,
	title string,
	year int,
	authorID kernel.UUID,
) (kernel.UUID, bool, error) {
	if uow.tx == nil {
		return kernel.UUID{}, false, ErrTransactionIsNotActive
	}

	aggregate, err := book.NewBook(kernel.NewUUID(), authorID, title, year)
	if err != nil {
		uow.logger.DebugContext(ctx, "Book rejected", "title", title, "error", err)
		return kernel.UUID{}, false, nil
	}

	if _, found, err := uow.authors().FindByID(ctx, authorID); err != nil {
		return kernel.UUID{}, false, fmt.Errorf("resolve author %s: %w", authorID, err)
	} else if !found {
		uow.logger.DebugContext(ctx, "Book rejected: unknown author", "author_id", authorID.String())
		return kernel.UUID{}, false, nil
	}

	ok, err := uow.insert(ctx, func() error {
		return uow.books().Add(ctx, aggregate)
	})
	if err != nil || !ok {
		return kernel.UUID{}, false, err
	}
	return aggregate.ID(), true, nil
}

// AddBookTags inserts one row per tag. A tag over book.MaxTagLength fails before any row is written.
func (uow *GormUnitOfWork) AddBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	if err := book.ValidateTags(tags); err != nil {
		return fmt.Errorf("add tags of book %s: %w", bookID, err)
	}
	if err := uow.tags().Add(ctx, bookID, tags); err != nil {
		return fmt.Errorf("add tags of book %s: %w", bookID, err)
	}
	return nil
}

// GetAuthors lists all authors ordered by name.
func (uow *GormUnitOfWork) GetAuthors(ctx context.Context) ([]ports.AuthorInfo, error) {
	if uow.tx == nil {
		return nil, ErrTransactionIsNotActive
	}

	authors, err := uow.authors().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// GetBooks lists books with resolved authors, ordered by title.
func (uow *GormUnitOfWork) GetBooks(ctx context.Context) ([]ports.BookInfo, error) {
	if uow.tx == nil {
		return nil, ErrTransactionIsNotActive
	}

	listings, err := uow.books().ListWithAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return uow.resolved(ctx, listings), nil
}

// GetAuthorBooks lists the books of an author by publication year.
func (uow *GormUnitOfWork) GetAuthorBooks(ctx context.Context, authorID kernel.UUID) ([]ports.BookInfo, error) {
	if uow.tx == nil {
		return nil, ErrTransactionIsNotActive
	}

	matches, err := uow.authors().FindByIDs(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author %s: %w", authorID, err)
	}
	switch len(matches) {
	case 0:
		return []ports.BookInfo{}, nil
	case 1:
	default:
		uow.logger.WarnContext(ctx, "Author identifier is ambiguous, listing no books",
			"author_id", authorID.String(), "matches", len(matches))
		return []ports.BookInfo{}, nil
	}

	books, err := uow.books().ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books of author %s: %w", authorID, err)
	}
	for i := range books {
		books[i].AuthorName = matches[0].Name
	}
	return books, nil
}

// FindAuthorByName looks an author up by exact name.
func (uow *GormUnitOfWork) FindAuthorByName(ctx context.Context, name string) (ports.AuthorInfo, bool, error) {
	if uow.tx == nil {
		return ports.AuthorInfo{}, false, ErrTransactionIsNotActive
	}

	info, ok, err := uow.authors().FindByName(ctx, name)
	if err != nil {
		return ports.AuthorInfo{}, false, fmt.Errorf("find author by name: %w", err)
	}
	return info, ok, nil
}

// FindAuthorByID looks an author up by identifier.
func (uow *GormUnitOfWork) FindAuthorByID(ctx context.Context, id kernel.UUID) (ports.AuthorInfo, bool, error) {
	if uow.tx == nil {
		return ports.AuthorInfo{}, false, ErrTransactionIsNotActive
	}

	info, ok, err := uow.authors().FindByID(ctx, id)
	if err != nil {
		return ports.AuthorInfo{}, false, fmt.Errorf("find author %s: %w", id, err)
	}
	return info, ok, nil
}

// FindBookByTitle lists books with exactly this title.
func (uow *GormUnitOfWork) FindBookByTitle(ctx context.Context, title string) ([]ports.BookInfo, error) {
	if uow.tx == nil {
		return nil, ErrTransactionIsNotActive
	}

	listings, err := uow.books().ListByTitleWithAuthors(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find books by title: %w", err)
	}
	return uow.resolved(ctx, listings), nil
}

// GetBookAuthor returns the author reference of a book with only ID set.
func (uow *GormUnitOfWork) GetBookAuthor(ctx context.Context, bookID kernel.UUID) (ports.AuthorInfo, bool, error) {
	if uow.tx == nil {
		return ports.AuthorInfo{}, false, ErrTransactionIsNotActive
	}

	authorID, ok, err := uow.books().AuthorIDOf(ctx, bookID)
	if err != nil {
		return ports.AuthorInfo{}, false, fmt.Errorf("resolve author of book %s: %w", bookID, err)
	}
	if !ok {
		return ports.AuthorInfo{}, false, nil
	}
	return ports.AuthorInfo{ID: authorID}, true, nil
}

// GetBookTags lists the tags of a book alphabetically.
func (uow *GormUnitOfWork) GetBookTags(ctx context.Context, bookID kernel.UUID) ([]string, error) {
	if uow.tx == nil {
		return nil, ErrTransactionIsNotActive
	}

	tags, err := uow.tags().List(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list tags of book %s: %w", bookID, err)
	}
	return tags, nil
}

// DeleteAuthorBooks removes the tags of each of the author's books, then the books.
func (uow *GormUnitOfWork) DeleteAuthorBooks(ctx context.Context, authorID kernel.UUID) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	bookIDs, err := uow.books().IDsByAuthor(ctx, authorID)
	if err != nil {
		return fmt.Errorf("list books of author %s: %w", authorID, err)
	}
	for _, bookID := range bookIDs {
		if err = uow.DeleteBookTags(ctx, bookID); err != nil {
			return err
		}
	}

	if err = uow.books().DeleteByAuthor(ctx, authorID); err != nil {
		return fmt.Errorf("delete books of author %s: %w", authorID, err)
	}
	return nil
}

// DeleteAuthor removes the author row only.
func (uow *GormUnitOfWork) DeleteAuthor(ctx context.Context, authorID kernel.UUID) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	if err := uow.authors().Delete(ctx, authorID); err != nil {
		return fmt.Errorf("delete author %s: %w", authorID, err)
	}
	return nil
}

// DeleteBookTags removes every tag of a book.
func (uow *GormUnitOfWork) DeleteBookTags(ctx context.Context, bookID kernel.UUID) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	if err := uow.tags().DeleteByBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete tags of book %s: %w", bookID, err)
	}
	return nil
}

// DeleteBook removes the book row only.
func (uow *GormUnitOfWork) DeleteBook(ctx context.Context, bookID kernel.UUID) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	if err := uow.books().Delete(ctx, bookID); err != nil {
		return fmt.Errorf("delete book %s: %w", bookID, err)
	}
	return nil
}

// EditAuthor renames an author. A missing author is left alone; a taken name is a store fault.
func (uow *GormUnitOfWork) EditAuthor(ctx context.Context, authorID kernel.UUID, newName string) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	aggregate, found, err := uow.authors().Get(ctx, authorID)
	if err != nil {
		return fmt.Errorf("load author %s: %w", authorID, err)
	}
	if !found {
		return nil
	}

	if err = aggregate.Rename(newName); err != nil {
		return fmt.Errorf("rename author %s: %w", authorID, err)
	}
	if err = uow.authors().Update(ctx, aggregate); err != nil {
		return fmt.Errorf("rename author %s: %w", authorID, err)
	}
	return nil
}

// EditBook sets title and publication year of info.ID. A missing book is left alone.
func (uow *GormUnitOfWork) EditBook(ctx context.Context, info ports.BookInfo) error {
	if uow.tx == nil {
		return ErrTransactionIsNotActive
	}

	aggregate, found, err := uow.books().Get(ctx, info.ID)
	if err != nil {
		return fmt.Errorf("load book %s: %w", info.ID, err)
	}
	if !found {
		return nil
	}

	if err = aggregate.Edit(info.Title, info.PublicationYear); err != nil {
		return fmt.Errorf("update book %s: %w", info.ID, err)
	}
	if err = uow.books().Update(ctx, aggregate); err != nil {
		return fmt.Errorf("update book %s: %w", info.ID, err)
	}
	return nil
}

// EditBookTags replaces the tag set of a book.
func (uow *GormUnitOfWork) EditBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error {
	if err := uow.DeleteBookTags(ctx, bookID); err != nil {
		return err
	}
	return uow.AddBookTags(ctx, bookID, tags)
}

// CheckIntegrity counts books without an author and tags without a book.
func (uow *GormUnitOfWork) CheckIntegrity(ctx context.Context) (ports.IntegrityReport, error) {
	if uow.tx == nil {
		return ports.IntegrityReport{}, ErrTransactionIsNotActive
	}

	orphanedBooks, err := uow.books().CountOrphans(ctx)
	if err != nil {
		return ports.IntegrityReport{}, fmt.Errorf("count orphaned books: %w", err)
	}

	orphanedTags, err := uow.tags().CountOrphans(ctx)
	if err != nil {
		return ports.IntegrityReport{}, fmt.Errorf("count orphaned tags: %w", err)
	}

	return ports.IntegrityReport{
		OrphanedBooks: int(orphanedBooks),
		OrphanedTags:  int(orphanedTags),
	}, nil
}

// insert runs write under a savepoint that is released afterwards. A
// constraint violation rolls back to the savepoint and reports ok == false;
// any other failure is returned.
func (uow *GormUnitOfWork) insert(ctx context.Context, write func() error) (bool, error) {
	if err := uow.tx.SavePoint(insertSavePoint).Error; err != nil {
		return false, fmt.Errorf("create savepoint: %w", err)
	}

	err := write()
	if err == nil {
		if relErr := uow.releaseSavePoint(); relErr != nil {
			return false, relErr
		}
		return true, nil
	}

	if rbErr := uow.tx.RollbackTo(insertSavePoint).Error; rbErr != nil {
		return false, fmt.Errorf("rollback to savepoint after %w: %w", err, rbErr)
	}
	if relErr := uow.releaseSavePoint(); relErr != nil {
		return false, relErr
	}
	if isConstraintViolation(err) {
		uow.logger.DebugContext(ctx, "Insert rejected by constraint", "error", err)
		return false, nil
	}
	return false, err
}

func (uow *GormUnitOfWork) releaseSavePoint() error {
	if err := uow.tx.Exec("RELEASE SAVEPOINT " + insertSavePoint).Error; err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

// resolved drops books whose author is missing and logs each one.
func (uow *GormUnitOfWork) resolved(ctx context.Context, listings []bookrepo.Listing) []ports.BookInfo {
	books := make([]ports.BookInfo, 0, len(listings))
	for _, listing := range listings {
		if !listing.AuthorFound {
			uow.logger.WarnContext(ctx, "Skipping book with unresolved author",
				"book_id", listing.Info.ID.String(),
				"author_id", listing.Info.AuthorID.String())
			continue
		}
		books = append(books, listing.Info)
	}
	return books
}

func (uow *GormUnitOfWork) authors() *authorrepo.GormAuthorRepository {
	return authorrepo.NewGormAuthorRepository(uow.tx, uow)
}

func (uow *GormUnitOfWork) books() *bookrepo.GormBookRepository {
	return bookrepo.NewGormBookRepository(uow.tx, uow)
}

func (uow *GormUnitOfWork) tags() *tagrepo.GormTagRepository {
	return tagrepo.NewGormTagRepository(uow.tx, uow)
}
