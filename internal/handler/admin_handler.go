package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/seed"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

// ListAdminLogs returns the audit trail newest first
func (h *Handler) ListAdminLogs(c echo.Context) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return respond(c, err)
	}
	offset, err := intParam(c, "offset")
	if err != nil {
		return respond(c, err)
	}

	logs, err := h.audit.List(c.Request().Context(), model.AdminLogFilter{
		EntityType: c.QueryParam("entity_type"),
		Action:     c.QueryParam("action"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.MalformedInput(name + " must be a non-negative integer")
	}
	return n, nil
}

// Seed loads the sample organisation when seeding is enabled
func (h *Handler) Seed(c echo.Context) error {
	log := logger.FromEcho(c)
	if !h.seedEnabled {
		log.Warn("Seed requested while disabled")
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "seed disabled; set ENABLE_SEED=1 to allow",
			Code:  "FORBIDDEN",
		})
	}

	result, err := seed.Run(c.Request().Context(), h.store, h.audit)
	if err != nil {
		return respond(c, err)
	}
	message := "Seed completed."
	if result.Skipped {
		message = "Employees already exist; seed skipped."
	}
	log.Info("Seed requested", zap.Bool("skipped", result.Skipped))
	return c.JSON(http.StatusOK, echo.Map{"message": message, "result": result})
}
