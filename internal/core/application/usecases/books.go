package usecases

import (
	"context"

	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"
)

type bookInput struct {
	Title           string `json:"title" validate:"required,max=100"`
	PublicationYear int    `json:"publication_year" validate:"gte=0,lte=9999"`
}

type tagsInput struct {
	Tags []string `json:"tags" validate:"dive,required,max=30"`
}

// AddBook adds a book of an existing author. ok is false when the author
// does not exist or a store constraint rejects the row.
func (c *Catalog) AddBook(ctx context.Context, title string, year int, authorID kernel.UUID) (kernel.UUID, bool, error) {
	if err := c.validate(bookInput{Title: title, PublicationYear: year}); err != nil {
		return kernel.UUID{}, false, err
	}

	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return kernel.UUID{}, false, err
	}
	return uow.AddBook(ctx, title, year, authorID)
}

// AddBookTags attaches tags to a book. Tags are stored as given.
func (c *Catalog) AddBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error {
	if err := c.validate(tagsInput{Tags: tags}); err != nil {
		return err
	}

	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}
	return uow.AddBookTags(ctx, bookID, tags)
}

// GetBooks lists all books with their author names ordered by title.
func (c *Catalog) GetBooks(ctx context.Context) ([]ports.BookInfo, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return nil, err
	}
	return uow.GetBooks(ctx)
}

// FindBookByTitle lists the books with exactly this title.
func (c *Catalog) FindBookByTitle(ctx context.Context, title string) ([]ports.BookInfo, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return nil, err
	}
	return uow.FindBookByTitle(ctx, title)
}

// GetBookAuthor resolves the full author of a book: the author reference
// comes from the book, the name from a second lookup by that reference.
func (c *Catalog) GetBookAuthor(ctx context.Context, bookID kernel.UUID) (ports.AuthorInfo, bool, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return ports.AuthorInfo{}, false, err
	}

	ref, ok, err := uow.GetBookAuthor(ctx, bookID)
	if err != nil || !ok {
		return ports.AuthorInfo{}, false, err
	}
	return uow.FindAuthorByID(ctx, ref.ID)
}

// GetBookTags lists a book's tags alphabetically.
func (c *Catalog) GetBookTags(ctx context.Context, bookID kernel.UUID) ([]string, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return nil, err
	}
	return uow.GetBookTags(ctx, bookID)
}

// EditBook updates title and publication year of book.ID.
func (c *Catalog) EditBook(ctx context.Context, book ports.BookInfo) error {
	if err := c.validate(bookInput{Title: book.Title, PublicationYear: book.PublicationYear}); err != nil {
		return err
	}

	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}
	return uow.EditBook(ctx, book)
}

// EditBookTags replaces the book's tag set.
func (c *Catalog) EditBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error {
	if err := c.validate(tagsInput{Tags: tags}); err != nil {
		return err
	}

	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}
	return uow.EditBookTags(ctx, bookID, tags)
}

// DeleteBook deletes the book's tags, then the book.
func (c *Catalog) DeleteBook(ctx context.Context, bookID kernel.UUID) error {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}

	if err = uow.DeleteBookTags(ctx, bookID); err != nil {
		return err
	}
	return uow.DeleteBook(ctx, bookID)
}
