package entities

import "time"

// Author writes titles. Deleting an author removes all of its titles.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:100;not null" json:"name"`
	Titles    []Title   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Genre is a categorical tag shared between titles.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Titles    []Title   `gorm:"many2many:title_genres;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Title is one book in the catalog.
type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index;size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	Author      Author    `gorm:"foreignKey:AuthorID" json:"author"`
	Genres      []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Title) TableName() string {
	return "titles"
}

// GenreIDs returns the identifiers of the title's genres.
func (t *Title) GenreIDs() []uint {
	ids := make([]uint, 0, len(t.Genres))
	for _, g := range t.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// HasGenre reports whether the title is associated with the genre.
func (t *Title) HasGenre(id uint) bool {
	for _, g := range t.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}
