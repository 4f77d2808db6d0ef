package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

const entityBook = "book"

func (s *Service) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, &entities.BookNotFoundError{ID: id}
	}
	return book, err
}

func (s *Service) ListBooks(ctx context.Context, filter books.Filter, req paging.Request) (paging.Page[entities.Book], error) {
	return s.books.FindAll(ctx, filter, req)
}

// CreateBook stores a new book. Any ID on the input is ignored.
func (s *Service) CreateBook(ctx context.Context, book *entities.Book) (*entities.Book, error) {
	if err := s.ensureISBNFree(ctx, book.ISBN, 0); err != nil {
		return nil, err
	}

	book.ID = 0
	if err := s.books.Create(ctx, book); err != nil {
		if errors.Is(err, entities.ErrDuplicateKey) {
			return nil, &entities.BookAlreadyExistsError{ISBN: book.ISBN}
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.WithField("book_id", book.ID).Info("Book created")
	s.audit.LogCreate(entityBook, book.ID, book.Title)
	return book, nil
}

// UpdateBook replaces the editable fields of book id with those of input.
func (s *Service) UpdateBook(ctx context.Context, id uint, input *entities.Book) (*entities.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.ISBN != book.ISBN {
		if err := s.ensureISBNFree(ctx, input.ISBN, id); err != nil {
			return nil, err
		}
	}

	book.Title = input.Title
	book.Author = input.Author
	book.ISBN = input.ISBN
	book.PublicationDate = input.PublicationDate

	if err := s.books.Save(ctx, book); err != nil {
		if errors.Is(err, entities.ErrDuplicateKey) {
			return nil, &entities.BookAlreadyExistsError{ISBN: book.ISBN}
		}
		return nil, fmt.Errorf("failed to update book %d: %w", id, err)
	}

	s.audit.LogUpdate(entityBook, book.ID, book.Title)
	return book, nil
}

// DeleteBook removes the book and all of its stock records.
func (s *Service) DeleteBook(ctx context.Context, id uint) error {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}

	if err := s.books.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return &entities.BookNotFoundError{ID: id}
		}
		return fmt.Errorf("failed to delete book %d: %w", id, err)
	}

	s.logger.WithField("book_id", id).Info("Book deleted")
	s.audit.LogDelete(entityBook, id, book.Title)
	return nil
}

// ensureISBNFree fails when a book other than exceptID already uses isbn.
func (s *Service) ensureISBNFree(ctx context.Context, isbn string, exceptID uint) error {
	existing, err := s.books.FindByISBN(ctx, isbn)
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up isbn %s: %w", isbn, err)
	case existing.ID != exceptID:
		return &entities.BookAlreadyExistsError{ISBN: isbn}
	}
	return nil
}
