package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"user-console/internal/coordinator"
	"user-console/internal/model"
	"user-console/pkg/client"
	"user-console/pkg/logger"
)

// Handler exposes the view coordinator and the detail view over HTTP.
type Handler struct {
	coord *coordinator.Coordinator
	users *client.UsersClient
}

// New creates the HTTP handler set.
func New(coord *coordinator.Coordinator, users *client.UsersClient) *Handler {
	return &Handler{coord: coord, users: users}
}

// searchRequest carries the name filter term.
type searchRequest struct {
	Term string `json:"term"`
}

// GetView returns the current coordinator snapshot and visible records.
func (h *Handler) GetView(c echo.Context) error {
	return c.JSON(http.StatusOK, h.coord.View())
}

// Search updates the name filter term.
func (h *Handler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	h.coord.SetSearch(req.Term)
	return c.JSON(http.StatusOK, h.coord.View())
}

// OpenAdd opens the add-user modal.
func (h *Handler) OpenAdd(c echo.Context) error {
	h.coord.OpenAdd()
	return c.JSON(http.StatusOK, h.coord.View())
}

// SubmitAdd submits the add-user form.
func (h *Handler) SubmitAdd(c echo.Context) error {
	log := logger.FromContext(c)

	var d model.Draft
	if err := c.Bind(&d); err != nil {
		log.Error("invalid add draft", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if err := h.coord.SubmitAdd(c.Request().Context(), d); err != nil {
		return h.coordinationError(c, err)
	}
	return c.JSON(http.StatusOK, h.coord.View())
}

// OpenEdit opens the edit modal for a user and fetches its draft.
func (h *Handler) OpenEdit(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid user id",
		})
	}

	// A fetch failure is reflected in the view's loadError; the modal
	// stays open either way, so the snapshot is returned regardless.
	_ = h.coord.OpenEdit(c.Request().Context(), id)
	return c.JSON(http.StatusOK, h.coord.View())
}

// SubmitEdit submits the edit form for the selected user.
func (h *Handler) SubmitEdit(c echo.Context) error {
	log := logger.FromContext(c)

	var d model.Draft
	if err := c.Bind(&d); err != nil {
		log.Error("invalid edit draft", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if err := h.coord.SubmitEdit(c.Request().Context(), d); err != nil {
		return h.coordinationError(c, err)
	}
	return c.JSON(http.StatusOK, h.coord.View())
}

// OpenDelete opens the delete confirmation for a user.
func (h *Handler) OpenDelete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid user id",
		})
	}
	h.coord.OpenDelete(id)
	return c.JSON(http.StatusOK, h.coord.View())
}

// ConfirmDelete actions the pending delete confirmation.
func (h *Handler) ConfirmDelete(c echo.Context) error {
	if err := h.coord.ConfirmDelete(c.Request().Context()); err != nil {
		return h.coordinationError(c, err)
	}
	return c.JSON(http.StatusOK, h.coord.View())
}

// CloseModal dismisses any open modal, discarding draft state.
func (h *Handler) CloseModal(c echo.Context) error {
	h.coord.Close()
	return c.JSON(http.StatusOK, h.coord.View())
}

// coordinationError maps coordinator failures onto HTTP responses. The
// coordinator has already logged, notified and preserved its state; the
// response just reports what happened alongside the fresh snapshot.
func (h *Handler) coordinationError(c echo.Context, err error) error {
	status := http.StatusBadGateway
	if errors.Is(err, coordinator.ErrNoActiveModal) {
		status = http.StatusConflict
	}
	return c.JSON(status, echo.Map{
		"error": err.Error(),
		"view":  h.coord.View(),
	})
}
