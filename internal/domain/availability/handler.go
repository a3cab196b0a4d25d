package availability

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
	g := api.Group("/availability-slots")
	g.POST("", h.CreateSlot)
	g.GET("", h.ListSlots)
	g.GET("/practitioner/:practitionerId/available", h.ListAvailableSlots)
	g.GET("/practitioner/:practitionerId", h.ListPractitionerSlots)
	g.GET("/:id", h.GetSlot)
	g.PUT("/:id", h.UpdateSlot)
	g.DELETE("/:id", h.DeleteSlot)
}

func (h *Handler) CreateSlot(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	slot, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, slot)
}

func (h *Handler) GetSlot(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	slot, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slot)
}

func (h *Handler) ListSlots(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("practitioner_id"), c.QueryParam("is_exception"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPractitionerSlots(c echo.Context) error {
	items, err := h.svc.ListByPractitioner(c.Request().Context(), c.Param("practitionerId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAvailableSlots(c echo.Context) error {
	rng, err := params.DateRange(c)
	if err != nil {
		return apierror.Validation(err.Error())
	}
	items, err := h.svc.ListAvailable(c.Request().Context(), c.Param("practitionerId"), rng)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateSlot(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	slot, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slot)
}

func (h *Handler) DeleteSlot(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Availability slot deleted successfully"})
}
