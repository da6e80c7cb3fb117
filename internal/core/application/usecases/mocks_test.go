package usecases_test

import (
	"context"

	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) AddAuthor(ctx context.Context, name string) (kernel.UUID, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockUnitOfWork) AddBook(ctx context.Context, title string, year int, authorID kernel.UUID) (kernel.UUID, bool, error) {
	args := m.Called(ctx, title, year, authorID)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockUnitOfWork) AddBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error {
	args := m.Called(ctx, bookID, tags)
	return args.Error(0)
}

func (m *MockUnitOfWork) GetAuthors(ctx context.Context) ([]ports.AuthorInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ports.AuthorInfo), args.Error(1)
}

func (m *MockUnitOfWork) GetBooks(ctx context.Context) ([]ports.BookInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ports.BookInfo), args.Error(1)
}

func (m *MockUnitOfWork) GetAuthorBooks(ctx context.Context, authorID kernel.UUID) ([]ports.BookInfo, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]ports.BookInfo), args.Error(1)
}

func (m *MockUnitOfWork) FindAuthorByName(ctx context.Context, name string) (ports.AuthorInfo, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(ports.AuthorInfo), args.Bool(1), args.Error(2)
}

func (m *MockUnitOfWork) FindAuthorByID(ctx context.Context, id kernel.UUID) (ports.AuthorInfo, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.AuthorInfo), args.Bool(1), args.Error(2)
}

func (m *MockUnitOfWork) FindBookByTitle(ctx context.Context, title string) ([]ports.BookInfo, error) {
	args := m.Called(ctx, title)
	return args.Get(0).([]ports.BookInfo), args.Error(1)
}

func (m *MockUnitOfWork) GetBookAuthor(ctx context.Context, bookID kernel.UUID) (ports.AuthorInfo, bool, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(ports.AuthorInfo), args.Bool(1), args.Error(2)
}

func (m *MockUnitOfWork) GetBookTags(ctx context.Context, bookID kernel.UUID) ([]string, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUnitOfWork) DeleteAuthorBooks(ctx context.Context, authorID kernel.UUID) error {
	return m.Called(ctx, authorID).Error(0)
}

func (m *MockUnitOfWork) DeleteAuthor(ctx context.Context, authorID kernel.UUID) error {
	return m.Called(ctx, authorID).Error(0)
}

func (m *MockUnitOfWork) DeleteBookTags(ctx context.Context, bookID kernel.UUID) error {
	return m.Called(ctx, bookID).Error(0)
}

func (m *MockUnitOfWork) DeleteBook(ctx context.Context, bookID kernel.UUID) error {
	return m.Called(ctx, bookID).Error(0)
}

func (m *MockUnitOfWork) EditAuthor(ctx context.Context, authorID kernel.UUID, newName string) error {
	return m.Called(ctx, authorID, newName).Error(0)
}

func (m *MockUnitOfWork) EditBook(ctx context.Context, book ports.BookInfo) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockUnitOfWork) EditBookTags(ctx context.Context, bookID kernel.UUID, tags []string) error {
	return m.Called(ctx, bookID, tags).Error(0)
}

func (m *MockUnitOfWork) CheckIntegrity(ctx context.Context) (ports.IntegrityReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.IntegrityReport), args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) GetUnitOfWork(ctx context.Context) (ports.UnitOfWork, error) {
	args := m.Called(ctx)
	uow, _ := args.Get(0).(ports.UnitOfWork)
	return uow, args.Error(1)
}

func (m *MockUnitOfWorkFactory) DeleteUnitOfWork() {
	m.Called()
}
