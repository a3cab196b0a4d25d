package notification

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
	g := api.Group("/notifications")
	g.POST("", h.CreateNotification)
	g.GET("", h.ListNotifications)
	g.GET("/pending", h.ListPendingNotifications)
	g.GET("/status/:status", h.ListNotificationsByStatus)
	g.GET("/appointment/:appointmentId", h.ListAppointmentNotifications)
	g.GET("/:id", h.GetNotification)
	g.PUT("/:id", h.UpdateNotification)
	g.PATCH("/:id/status", h.UpdateNotificationStatus)
	g.DELETE("/:id", h.DeleteNotification)
}

func (h *Handler) CreateNotification(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	n, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) GetNotification(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("type"), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPendingNotifications(c echo.Context) error {
	items, err := h.svc.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListNotificationsByStatus(c echo.Context) error {
	items, err := h.svc.ListByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAppointmentNotifications(c echo.Context) error {
	items, err := h.svc.ListByAppointment(c.Request().Context(), c.Param("appointmentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateNotification(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	n, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) UpdateNotificationStatus(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	n, err := h.svc.UpdateStatus(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deleted successfully"})
}
