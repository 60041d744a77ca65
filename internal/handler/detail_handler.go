package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"user-console/pkg/client"
	"user-console/pkg/logger"
)

// UserDetails serves the detail view for a single user, resolved by the
// id in the route path. The record is fetched fresh from the remote;
// a non-success answer there is a page-level not-found.
func (h *Handler) UserDetails(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid user id",
		})
	}

	user, err := h.users.FetchOne(c.Request().Context(), id)
	if err != nil {
		log.Error("detail fetch failed", zap.Int("user_id", id), zap.Error(err))
		if errors.Is(err, client.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "User not found",
			})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Error fetching user data",
		})
	}

	return c.JSON(http.StatusOK, user)
}
