package usecases

import (
	"context"

	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"
)

type authorInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AddAuthor adds an author. ok is false when the name is already taken.
func (c *Catalog) AddAuthor(ctx context.Context, name string) (kernel.UUID, bool, error) {
	if err := c.validate(authorInput{Name: name}); err != nil {
		return kernel.UUID{}, false, err
	}

	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return kernel.UUID{}, false, err
	}
	return uow.AddAuthor(ctx, name)
}

// GetAuthors lists all authors ordered by name.
func (c *Catalog) GetAuthors(ctx context.Context) ([]ports.AuthorInfo, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return nil, err
	}
	return uow.GetAuthors(ctx)
}

// GetAuthorBooks lists the author's books ordered by publication year.
func (c *Catalog) GetAuthorBooks(ctx context.Context, authorID kernel.UUID) ([]ports.BookInfo, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return nil, err
	}
	return uow.GetAuthorBooks(ctx, authorID)
}

// FindAuthorByName looks an author up by exact name.
func (c *Catalog) FindAuthorByName(ctx context.Context, name string) (ports.AuthorInfo, bool, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return ports.AuthorInfo{}, false, err
	}
	return uow.FindAuthorByName(ctx, name)
}

// FindAuthorByID looks an author up by identifier.
func (c *Catalog) FindAuthorByID(ctx context.Context, id kernel.UUID) (ports.AuthorInfo, bool, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return ports.AuthorInfo{}, false, err
	}
	return uow.FindAuthorByID(ctx, id)
}

// EditAuthor renames an author. A name already used by another author is a
// store fault and leaves the transaction unusable.
func (c *Catalog) EditAuthor(ctx context.Context, authorID kernel.UUID, newName string) error {
	if err := c.validate(authorInput{Name: newName}); err != nil {
		return err
	}

	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}
	return uow.EditAuthor(ctx, authorID, newName)
}

// DeleteAuthor deletes the author's books with their tags, then the author.
func (c *Catalog) DeleteAuthor(ctx context.Context, authorID kernel.UUID) error {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}

	if err = uow.DeleteAuthorBooks(ctx, authorID); err != nil {
		return err
	}
	return uow.DeleteAuthor(ctx, authorID)
}
