package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// BookingService is the part of the reservation engine the HTTP layer
// needs.  Satisfied by *service.ReservationService.
type BookingService interface {
	CreateBooking(ctx context.Context, req service.BookingRequest) (service.BookingConfirmation, error)
	GetHistory(ctx context.Context, userID uint64, page, pageSize int) (service.HistoryPage, error)
}

// BookingHandler exposes the reservation engine over HTTP.
type BookingHandler struct {
	Svc      BookingService
	Bookings *repository.BookingRepo
}

func NewBookingHandler(svc BookingService, bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Svc: svc, Bookings: bookings}
}

type createBookingReq struct {
	RoomType     string `json:"room_type"`
	BookingDate  string `json:"booking_date"`  // RFC3339; empty means now
	CheckoutDate string `json:"checkout_date"` // RFC3339; optional
}

// Create books one available room of the requested type.
// POST /v1/bookings
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomType = strings.TrimSpace(req.RoomType)
	if req.RoomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type required"})
	}

	bookingDate := time.Now().UTC()
	if req.BookingDate != "" {
		t, err := time.Parse(time.RFC3339, req.BookingDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be RFC3339"})
		}
		bookingDate = t.UTC()
	}
	var checkout *time.Time
	if req.CheckoutDate != "" {
		t, err := time.Parse(time.RFC3339, req.CheckoutDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout_date must be RFC3339"})
		}
		u := t.UTC()
		if !u.After(bookingDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout_date must be after booking_date"})
		}
		checkout = &u
	}

	conf, err := h.Svc.CreateBooking(c.Request().Context(), service.BookingRequest{
		UserID:       uid,
		RoomType:     req.RoomType,
		BookingDate:  bookingDate,
		CheckoutDate: checkout,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoRoomAvailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no room of this type is available"})
		case errors.Is(err, repository.ErrRoomTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room was taken, please retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}
	return c.JSON(http.StatusCreated, conf)
}

// History returns one page of the caller's booking history.
// GET /v1/bookings/history?page=&page_size=
func (h *BookingHandler) History(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 0) // 0 lets the service apply its default

	res, err := h.Svc.GetHistory(c.Request().Context(), uid, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	if res.Records == nil {
		res.Records = []model.BookingHistoryEntry{}
	}
	return c.JSON(http.StatusOK, res)
}

// Get returns a single booking owned by the caller.
// GET /v1/bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByIDForUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, b)
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
