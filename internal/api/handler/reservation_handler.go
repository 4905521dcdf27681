package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotek/library-system/internal/core/ports"
)

type ReservationHandler struct {
	reservations ports.ReservationService
}

func NewReservationHandler(reservations ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Create reserves one copy of a book for a user. The response carries the
// book snapshot taken after the stock decrement, so the client sees the
// quantity its own reservation produced.
func (h *ReservationHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	bookID, err := paramID(c, "bookId")
	if err != nil {
		return err
	}

	result, err := h.reservations.Create(c.Request().Context(), identity, userID, bookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"book": result.Book})
}

// Cancel releases a reservation and returns the copy to stock.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	bookID, err := paramID(c, "bookId")
	if err != nil {
		return err
	}

	if err := h.reservations.Cancel(c.Request().Context(), identity, userID, bookID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// List returns the books a user currently holds.
func (h *ReservationHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	books, err := h.reservations.ListForUser(c.Request().Context(), identity, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}
