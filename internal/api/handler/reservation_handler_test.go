package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bibliotek/library-system/internal/api"
	"github.com/bibliotek/library-system/internal/api/handler"
	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
)

type stubReservationService struct {
	result    *ports.ReservationResult
	createErr error
	cancelErr error
	books     []domain.ReservedBook
	listErr   error
}

func (s *stubReservationService) Create(_ context.Context, _ domain.Identity, _, _ int64) (*ports.ReservationResult, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.result, nil
}

func (s *stubReservationService) Cancel(_ context.Context, _ domain.Identity, _, _ int64) error {
	return s.cancelErr
}

func (s *stubReservationService) ListForUser(_ context.Context, _ domain.Identity, _ int64) ([]domain.ReservedBook, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.books, nil
}

// newReservationEcho wires the handler behind a fake auth middleware that
// injects the given identity, with the production error mapping in place.
func newReservationEcho(svc ports.ReservationService, identity domain.Identity) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	inject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("identity", identity)
			return next(c)
		}
	}

	h := handler.NewReservationHandler(svc)
	g := e.Group("/users", inject)
	g.GET("/:id/reservations", h.List)
	g.POST("/:id/reservations/:bookId", h.Create)
	g.DELETE("/:id/reservations/:bookId", h.Cancel)
	return e
}

func TestCreateReservation_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"already reserved", domain.ErrAlreadyReserved, http.StatusBadRequest},
		{"unavailable", domain.ErrBookUnavailable, http.StatusBadRequest},
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound},
		{"unknown book", domain.ErrBookNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"transient failure", domain.ErrTransientStore, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubReservationService{createErr: tt.err}
			e := newReservationEcho(svc, domain.Identity{UserID: 1, Role: domain.RoleUser})

			req := httptest.NewRequest(http.MethodPost, "/users/1/reservations/2", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (body %s)", tt.wantCode, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), "error") {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestCreateReservation_ReturnsBookSnapshot(t *testing.T) {
	svc := &stubReservationService{result: &ports.ReservationResult{
		Reservation: &domain.Reservation{ID: 9, UserID: 1, BookID: 2},
		Book:        &domain.Book{ID: 2, Title: "Dune", Quantity: 1, Available: true},
	}}
	e := newReservationEcho(svc, domain.Identity{UserID: 1, Role: domain.RoleUser})

	req := httptest.NewRequest(http.MethodPost, "/users/1/reservations/2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"book"`) || !strings.Contains(body, "Dune") {
		t.Fatalf("expected book snapshot in response, got %s", body)
	}
}

func TestCancelReservation_NotReserved(t *testing.T) {
	svc := &stubReservationService{cancelErr: domain.ErrNotReserved}
	e := newReservationEcho(svc, domain.Identity{UserID: 1, Role: domain.RoleUser})

	req := httptest.NewRequest(http.MethodDelete, "/users/1/reservations/2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateReservation_MalformedIDs(t *testing.T) {
	svc := &stubReservationService{}
	e := newReservationEcho(svc, domain.Identity{UserID: 1, Role: domain.RoleUser})

	req := httptest.NewRequest(http.MethodPost, "/users/abc/reservations/2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListReservations_ReturnsBooks(t *testing.T) {
	svc := &stubReservationService{books: []domain.ReservedBook{
		{ID: 2, Title: "Dune", Author: "Frank Herbert"},
	}}
	e := newReservationEcho(svc, domain.Identity{UserID: 1, Role: domain.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/users/1/reservations", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dune") {
		t.Fatalf("expected reserved book in response, got %s", rec.Body.String())
	}
}
