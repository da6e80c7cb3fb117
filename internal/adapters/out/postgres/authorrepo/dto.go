// Package authorrepo persists authors. Writes take the author entity,
// reads return ports.AuthorInfo read models.
package authorrepo

import (
	"bookypedia/internal/core/domain/model/author"
	"bookypedia/internal/core/domain/model/kernel"
	"bookypedia/internal/core/ports"

	"github.com/google/uuid"
)

// AuthorDTO maps the authors table. Name uniqueness is a store constraint.
type AuthorDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName overrides GORM's default "author_dtos".
func (AuthorDTO) TableName() string {
	return "authors"
}

func fromDomain(a *author.Author) AuthorDTO {
	return AuthorDTO{
		ID:   a.ID().Bytes(),
		Name: a.Name(),
	}
}

func toDomain(dto AuthorDTO) (*author.Author, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return author.RestoreAuthor(id, dto.Name)
}

func toInfo(dto AuthorDTO) (ports.AuthorInfo, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.AuthorInfo{}, err
	}

	return ports.AuthorInfo{ID: id, Name: dto.Name}, nil
}
