// Package tagrepo persists book tags. Tags have no identity of their own:
// they are inserted, listed and deleted per book.
package tagrepo

import "github.com/google/uuid"

// BookTagDTO maps the book_tags table. The table has no primary key and
// accepts duplicate rows; deduplication happens before tags reach the store.
type BookTagDTO struct {
	BookID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tag    *string   `gorm:"type:varchar(30)"`
}

// TableName overrides GORM's default "book_tag_dtos".
func (BookTagDTO) TableName() string {
	return "book_tags"
}

func fromTags(bookID uuid.UUID, tags []string) []BookTagDTO {
	dtos := make([]BookTagDTO, 0, len(tags))
	for i := range tags {
		dtos = append(dtos, BookTagDTO{BookID: bookID, Tag: &tags[i]})
	}
	return dtos
}
