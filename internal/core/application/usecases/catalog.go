// Package usecases is the application layer of the catalog. Catalog owns a
// Unit-of-Work factory and exposes every catalog operation; all operations
// issued between two finalizations share one transaction.
//
// Example:
//
//	catalog := usecases.NewCatalog(factory, validation.New(), logger)
//	err := catalog.WithinTransaction(ctx, func(ctx context.Context) error {
//	    id, ok, err := catalog.AddAuthor(ctx, "Joanne Rowling")
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        return usecases.ErrAborted
//	    }
//	    _, _, err = catalog.AddBook(ctx, "Harry Potter", 1997, id)
//	    return err
//	})
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookypedia/internal/core/ports"
	"bookypedia/internal/pkg/guard"
)

var (
	// ErrCatalogIsNotConstructed is returned by a zero-value Catalog.
	ErrCatalogIsNotConstructed = errors.New("Catalog must be created via NewCatalog constructor")

	// ErrAborted cancels a WithinTransaction scope without reporting a failure.
	ErrAborted = errors.New("transaction aborted")
)

// Validator checks input structs. *validation.Validator satisfies it.
type Validator interface {
	Validate(s any) error
}

// Catalog runs catalog operations against the current unit of work of its
// factory. It is as safe for concurrent use as its factory, which usually
// means it is not.
type Catalog struct {
	factory   ports.UnitOfWorkFactory
	validator Validator
	logger    *slog.Logger

	// active is set once a unit of work is acquired and cleared on finalization.
	active bool

	guard guard.ConstructorGuard
}

// NewCatalog creates a catalog over factory.
func NewCatalog(factory ports.UnitOfWorkFactory, validator Validator, logger *slog.Logger) *Catalog {
	return &Catalog{
		factory:   factory,
		validator: validator,
		logger:    logger.With("component", "catalog"),
		guard:     guard.NewConstructorGuard(),
	}
}

// EndTransaction commits the current unit of work and forgets it. The unit of
// work is forgotten even when the commit fails.
func (c *Catalog) EndTransaction(ctx context.Context) error {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}
	defer c.forget()

	if err = uow.Commit(ctx); err != nil {
		return fmt.Errorf("end transaction: %w", err)
	}
	return nil
}

// CancelTransaction rolls the current unit of work back and forgets it.
func (c *Catalog) CancelTransaction(ctx context.Context) error {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return err
	}
	defer c.forget()

	if err = uow.Reset(ctx); err != nil {
		return fmt.Errorf("cancel transaction: %w", err)
	}
	return nil
}

// WithinTransaction runs fn and finalizes the transaction it used: commit when
// fn returns nil, rollback when it returns an error or panics. A panic is
// re-raised after the rollback. ErrAborted from fn rolls back and yields nil.
// When fn never reached the store there is nothing to finalize and no
// transaction is opened.
func (c *Catalog) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err = c.guard.Validate(ErrCatalogIsNotConstructed); err != nil {
		return err
	}

	finalized := false
	defer func() {
		if finalized {
			return
		}
		if r := recover(); r != nil {
			if !c.active {
				panic(r)
			}
			if cancelErr := c.CancelTransaction(ctx); cancelErr != nil {
				c.logger.ErrorContext(ctx, "Failed to cancel transaction after panic", "error", cancelErr)
			}
			panic(r)
		}
	}()

	fnErr := fn(ctx)
	finalized = true

	if !c.active {
		if errors.Is(fnErr, ErrAborted) {
			return nil
		}
		return fnErr
	}

	if fnErr == nil {
		return c.EndTransaction(ctx)
	}

	if cancelErr := c.CancelTransaction(ctx); cancelErr != nil {
		c.logger.ErrorContext(ctx, "Failed to cancel transaction", "error", cancelErr)
		if errors.Is(fnErr, ErrAborted) {
			return cancelErr
		}
		return errors.Join(fnErr, cancelErr)
	}

	if errors.Is(fnErr, ErrAborted) {
		return nil
	}
	return fnErr
}

// CheckIntegrity counts rows left behind by writes that bypassed the catalog.
func (c *Catalog) CheckIntegrity(ctx context.Context) (ports.IntegrityReport, error) {
	uow, err := c.unitOfWork(ctx)
	if err != nil {
		return ports.IntegrityReport{}, err
	}
	return uow.CheckIntegrity(ctx)
}

func (c *Catalog) unitOfWork(ctx context.Context) (ports.UnitOfWork, error) {
	if err := c.guard.Validate(ErrCatalogIsNotConstructed); err != nil {
		return nil, err
	}

	uow, err := c.factory.GetUnitOfWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire unit of work: %w", err)
	}
	c.active = true
	return uow, nil
}

func (c *Catalog) forget() {
	c.factory.DeleteUnitOfWork()
	c.active = false
}

func (c *Catalog) validate(input any) error {
	if c.validator == nil {
		return nil
	}
	return c.validator.Validate(input)
}
