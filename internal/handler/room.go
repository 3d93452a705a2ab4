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
)

// RoomHandler exposes the room catalog.  Reads are open to any
// authenticated user; writes are restricted to ADMIN via middleware.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(r *repository.RoomRepo) *RoomHandler {
	return &RoomHandler{Rooms: r}
}

type roomReq struct {
	Type        string `json:"type"`
	PriceCents  uint32 `json:"price_cents"`
	IsAvailable *bool  `json:"is_available"` // nil on create means available
}

// List returns all rooms, or matches of ?q= when present.
// GET /v1/rooms
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q := strings.TrimSpace(c.QueryParam("q"))
	var (
		rooms []model.Room
		err   error
	)
	if q != "" {
		rooms, err = h.Rooms.Search(ctx, q)
	} else {
		rooms, err = h.Rooms.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rooms failed"})
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}

// Get returns one room by id.
// GET /v1/rooms/:id
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	return c.JSON(http.StatusOK, rm)
}

// Create adds a room to the catalog (ADMIN).
// POST /v1/rooms
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type required"})
	}

	rm := model.Room{
		Type:        req.Type,
		PriceCents:  req.PriceCents,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		rm.IsAvailable = *req.IsAvailable
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Create(ctx, &rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, rm)
}

// Update replaces a room's type, price and availability flag (ADMIN).
// PUT /v1/rooms/:id
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type required"})
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm := model.Room{ID: id, Type: req.Type, PriceCents: req.PriceCents, IsAvailable: available}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, rm)
}

// Delete removes a room from the catalog (ADMIN).
// DELETE /v1/rooms/:id
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
