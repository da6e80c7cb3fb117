package http

import (
	"bookypedia/internal/core/ports"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID              string   `json:"id"`
	AuthorID        string   `json:"author_id"`
	Title           string   `json:"title"`
	AuthorName      string   `json:"author_name,omitempty"`
	PublicationYear int      `json:"publication_year"`
	Tags            []string `json:"tags,omitempty"`
}

type NewAuthor struct {
	Name string `json:"name" validate:"required,max=100"`
}

type NewBook struct {
	Title           string   `json:"title" validate:"required,max=100"`
	PublicationYear int      `json:"publication_year" validate:"gte=0,lte=9999"`
	AuthorID        string   `json:"author_id" validate:"required,uuid"`
	Tags            []string `json:"tags" validate:"dive,required,max=30"`
}

// BookUpdate replaces title, year and the whole tag set of a book.
type BookUpdate struct {
	Title           string   `json:"title" validate:"required,max=100"`
	PublicationYear int      `json:"publication_year" validate:"gte=0,lte=9999"`
	Tags            []string `json:"tags" validate:"dive,required,max=30"`
}

func toAuthor(info ports.AuthorInfo) Author {
	return Author{ID: info.ID.String(), Name: info.Name}
}

func toAuthors(infos []ports.AuthorInfo) []Author {
	authors := make([]Author, 0, len(infos))
	for _, info := range infos {
		authors = append(authors, toAuthor(info))
	}
	return authors
}

func toBook(info ports.BookInfo) Book {
	return Book{
		ID:              info.ID.String(),
		AuthorID:        info.AuthorID.String(),
		Title:           info.Title,
		AuthorName:      info.AuthorName,
		PublicationYear: info.PublicationYear,
	}
}

func toBooks(infos []ports.BookInfo) []Book {
	books := make([]Book, 0, len(infos))
	for _, info := range infos {
		books = append(books, toBook(info))
	}
	return books
}
