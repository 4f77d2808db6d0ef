package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
	"github.com/mrlokans/library/internal/validation"
)

// BookRequest is the body of book create and update calls.
type BookRequest struct {
	Title           string `json:"title" binding:"required,max=255"`
	Author          string `json:"author" binding:"required,max=255"`
	ISBN            string `json:"isbn" binding:"required,isbn"`
	PublicationDate string `json:"publication_date" binding:"required,pastdate"`
}

func (r BookRequest) toEntity() (*entities.Book, error) {
	published, err := time.Parse(validation.DateLayout, r.PublicationDate)
	if err != nil {
		return nil, err
	}
	return &entities.Book{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		PublicationDate: published,
	}, nil
}

// BookResponse is the API representation of a book.
type BookResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationDate string `json:"publication_date"`
}

func newBookResponse(book entities.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		ISBN:            book.ISBN,
		PublicationDate: book.PublicationDate.Format(validation.DateLayout),
	}
}

type BooksController struct {
	service BookService
	logger  logrus.FieldLogger
}

func NewBooksController(service BookService, logger logrus.FieldLogger) *BooksController {
	return &BooksController{
		service: service,
		logger:  logger,
	}
}

// ListBooks returns a page of books filtered by title and author.
// GET /api/books
func (controller *BooksController) ListBooks(c *gin.Context) {
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	filter := books.Filter{Title: c.Query("title"), Author: c.Query("author")}
	page, err := controller.service.ListBooks(c.Request.Context(), filter, req)
	if err != nil {
		respondServiceError(c, controller.logger, err, "ListBooks")
		return
	}
	c.JSON(http.StatusOK, paging.Map(page, newBookResponse))
}

// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.service.GetBook(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, controller.logger, err, "GetBook")
		return
	}
	c.JSON(http.StatusOK, newBookResponse(*book))
}

// POST /api/books
func (controller *BooksController) CreateBook(c *gin.Context) {
	book, ok := bindBook(c)
	if !ok {
		return
	}

	created, err := controller.service.CreateBook(c.Request.Context(), book)
	if err != nil {
		respondServiceError(c, controller.logger, err, "CreateBook")
		return
	}
	c.JSON(http.StatusCreated, newBookResponse(*created))
}

// PUT /api/books/:id
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, ok := bindBook(c)
	if !ok {
		return
	}

	updated, err := controller.service.UpdateBook(c.Request.Context(), id, book)
	if err != nil {
		respondServiceError(c, controller.logger, err, "UpdateBook")
		return
	}
	c.JSON(http.StatusOK, newBookResponse(*updated))
}

// DELETE /api/books/:id
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.service.DeleteBook(c.Request.Context(), id); err != nil {
		respondServiceError(c, controller.logger, err, "DeleteBook")
		return
	}
	c.Status(http.StatusNoContent)
}

func bindBook(c *gin.Context) (*entities.Book, bool) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return nil, false
	}
	book, err := req.toEntity()
	if err != nil {
		respondBadRequest(c, "invalid publication_date")
		return nil, false
	}
	return book, true
}
