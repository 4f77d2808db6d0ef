package entities

import (
	"time"
)

type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null;index:idx_book_title;index:idx_book_author_title,priority:2" json:"title"`
	Author          string     `gorm:"size:255;not null;index:idx_book_author_title,priority:1" json:"author"`
	ISBN            string     `gorm:"column:isbn;size:32;not null;uniqueIndex" json:"isbn"`
	PublicationDate time.Time  `gorm:"not null" json:"publication_date"`
	BookCopies      []BookCopy `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

type Location struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Address    string     `gorm:"size:255;not null" json:"address"`
	BookCopies []BookCopy `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

// BookCopyKey identifies the stock record of one book at one location.
type BookCopyKey struct {
	BookID     uint
	LocationID uint
}

// BookCopy is the stock of one book held at one location.
// Quantity is never negative.
type BookCopy struct {
	BookID     uint      `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	LocationID uint      `gorm:"primaryKey;autoIncrement:false" json:"location_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (BookCopy) TableName() string {
	return "book_copies"
}

func (c BookCopy) Key() BookCopyKey {
	return BookCopyKey{BookID: c.BookID, LocationID: c.LocationID}
}

// BookWithQuantity is the per-location stock listing row.
type BookWithQuantity struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `gorm:"column:isbn" json:"isbn"`
	Quantity int    `json:"quantity"`
}

// LibraryStats summarises the catalog.
type LibraryStats struct {
	TotalBooks     int64 `json:"total_books"`
	TotalLocations int64 `json:"total_locations"`
	TotalCopies    int64 `json:"total_copies"`
}
