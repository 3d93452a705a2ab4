package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// FeedbackHandler lets guests rate their stay and admins read ratings.
type FeedbackHandler struct {
	Feedback *repository.FeedbackRepo
}

func NewFeedbackHandler(f *repository.FeedbackRepo) *FeedbackHandler {
	return &FeedbackHandler{Feedback: f}
}

type feedbackReq struct {
	Rating  uint8  `json:"rating"` // 1..5
	Comment string `json:"comment"`
}

// Submit records a rating and optional comment for the caller.
// POST /v1/feedback
func (h *FeedbackHandler) Submit(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	fb := model.Feedback{
		UserID:  uid,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Feedback.Create(ctx, &fb); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save feedback failed"})
	}
	return c.JSON(http.StatusCreated, fb)
}

// Mine lists the caller's own feedback entries.
// GET /v1/feedback
func (h *FeedbackHandler) Mine(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Feedback.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load feedback failed"})
	}
	if list == nil {
		list = []model.Feedback{}
	}
	return c.JSON(http.StatusOK, list)
}

// All lists every feedback entry (ADMIN).
// GET /v1/admin/feedback
func (h *FeedbackHandler) All(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Feedback.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load feedback failed"})
	}
	if list == nil {
		list = []model.Feedback{}
	}
	return c.JSON(http.StatusOK, list)
}
