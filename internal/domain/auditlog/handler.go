package auditlog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbook/booking/internal/platform/apierror"
	"github.com/medbook/booking/pkg/params"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/audit-logs")
	g.POST("", h.CreateAuditLog)
	g.GET("", h.ListAuditLogs)
	g.GET("/range", h.ListAuditLogsInRange)
	g.GET("/user/:userId", h.ListUserAuditLogs)
	g.GET("/action/:action", h.ListActionAuditLogs)
	g.GET("/:id", h.GetAuditLog)
	g.DELETE("/:id", h.DeleteAuditLog)
}

func (h *Handler) CreateAuditLog(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	e, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetAuditLog(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListAuditLogs(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("user_id"), c.QueryParam("action"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAuditLogsInRange(c echo.Context) error {
	rng, err := params.DateRange(c)
	if err != nil {
		return apierror.Validation(err.Error())
	}
	items, err := h.svc.ListByDateRange(c.Request().Context(), rng)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListUserAuditLogs(c echo.Context) error {
	items, err := h.svc.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListActionAuditLogs(c echo.Context) error {
	items, err := h.svc.ListByAction(c.Request().Context(), c.Param("action"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteAuditLog(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Audit log deleted successfully"})
}
