package postgres_test

import (
	"context"

	postgres_adapter "bookypedia/internal/adapters/out/postgres"
	"bookypedia/internal/core/application/usecases"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/pkg/validation"
)

func (suite *UnitOfWorkIntegrationTestSuite) newCatalog() *usecases.Catalog {
	factory := postgres_adapter.NewGormUnitOfWorkFactory(suite.db, suite.logger)
	return usecases.NewCatalog(factory, validation.New(), suite.logger)
}

// seedAuthorWithBook commits an author owning one tagged book and a second,
// unrelated author with a book of their own.
func (suite *UnitOfWorkIntegrationTestSuite) seedAuthorWithBook(ctx context.Context) (authorID, bookID kernel.UUID) {
	catalog := suite.newCatalog()

	authorID, ok, err := catalog.AddAuthor(ctx, "Ursula K. Le Guin")
	suite.Require().NoError(err)
	suite.Require().True(ok)
	bookID, ok, err = catalog.AddBook(ctx, "The Dispossessed", 1974, authorID)
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Require().NoError(catalog.AddBookTags(ctx, bookID, []string{"x", "y"}))

	otherID, ok, err := catalog.AddAuthor(ctx, "Frank Herbert")
	suite.Require().NoError(err)
	suite.Require().True(ok)
	_, ok, err = catalog.AddBook(ctx, "Dune", 1965, otherID)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Require().NoError(catalog.EndTransaction(ctx))
	return authorID, bookID
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCatalog_CancelledDeleteAuthorLeavesEverything() {
	ctx := context.Background()
	authorID, bookID := suite.seedAuthorWithBook(ctx)

	catalog := suite.newCatalog()
	suite.Require().NoError(catalog.DeleteAuthor(ctx, authorID))
	suite.Require().NoError(catalog.CancelTransaction(ctx))

	suite.Equal(int64(2), suite.countRows("authors"))
	suite.Equal(int64(2), suite.countRows("books"))

	reader := suite.newCatalog()
	defer func() { _ = reader.CancelTransaction(ctx) }()

	info, found, err := reader.FindAuthorByID(ctx, authorID)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Equal("Ursula K. Le Guin", info.Name)

	books, err := reader.GetAuthorBooks(ctx, authorID)
	suite.Require().NoError(err)
	suite.Require().Len(books, 1)
	suite.True(books[0].ID.IsEqual(bookID))

	tags, err := reader.GetBookTags(ctx, bookID)
	suite.Require().NoError(err)
	suite.Equal([]string{"x", "y"}, tags)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCatalog_CommittedDeleteAuthorRemovesBooksAndTags() {
	ctx := context.Background()
	authorID, bookID := suite.seedAuthorWithBook(ctx)

	catalog := suite.newCatalog()
	suite.Require().NoError(catalog.DeleteAuthor(ctx, authorID))
	suite.Require().NoError(catalog.EndTransaction(ctx))

	suite.Equal(int64(1), suite.countRows("authors"))
	suite.Equal(int64(1), suite.countRows("books"))
	suite.Equal(int64(0), suite.countRows("book_tags"))

	reader := suite.newCatalog()
	defer func() { _ = reader.CancelTransaction(ctx) }()

	_, found, err := reader.FindAuthorByID(ctx, authorID)
	suite.Require().NoError(err)
	suite.False(found)

	_, found, err = reader.GetBookAuthor(ctx, bookID)
	suite.Require().NoError(err)
	suite.False(found)

	report, err := reader.CheckIntegrity(ctx)
	suite.Require().NoError(err)
	suite.True(report.IsClean())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCatalog_WithinTransactionRollsBackOnError() {
	ctx := context.Background()
	authorID, _ := suite.seedAuthorWithBook(ctx)

	catalog := suite.newCatalog()
	err := catalog.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := catalog.DeleteAuthor(ctx, authorID); err != nil {
			return err
		}
		return usecases.ErrAborted
	})
	suite.Require().NoError(err)

	suite.Equal(int64(2), suite.countRows("authors"))
	suite.Equal(int64(2), suite.countRows("books"))
	suite.Equal(int64(2), suite.countRows("book_tags"))
}
