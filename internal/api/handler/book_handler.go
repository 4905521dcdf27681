package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bibliotek/library-system/internal/core/ports"
)

type BookHandler struct {
	books ports.BookService
}

func NewBookHandler(books ports.BookService) *BookHandler {
	return &BookHandler{books: books}
}

type bookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	AuthorID    int64  `json:"author_id" validate:"required,gt=0"`
	PublishedOn string `json:"published_on" validate:"omitempty,datetime=2006-01-02"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
}

func (r *bookRequest) toInput() (ports.BookInput, error) {
	input := ports.BookInput{
		Title:    r.Title,
		AuthorID: r.AuthorID,
		Quantity: r.Quantity,
	}
	if r.PublishedOn != "" {
		published, err := time.Parse("2006-01-02", r.PublishedOn)
		if err != nil {
			return ports.BookInput{}, echo.NewHTTPError(http.StatusBadRequest, "published_on must be YYYY-MM-DD")
		}
		input.PublishedOn = &published
	}
	return input, nil
}

// List returns the whole catalog, or a title search when ?title= is given.
func (h *BookHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if title := c.QueryParam("title"); title != "" {
		books, err := h.books.Search(ctx, title)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, books)
	}

	books, err := h.books.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.books.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	book, err := h.books.Create(c.Request().Context(), identity, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	book, err := h.books.Update(c.Request().Context(), identity, id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.books.Delete(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}
