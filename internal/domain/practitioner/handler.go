package practitioner

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
	g := api.Group("/practitioners")
	g.POST("", h.CreatePractitioner)
	g.GET("", h.ListPractitioners)
	g.GET("/user/:userId", h.GetPractitionerByUser)
	g.GET("/specialty/:specialty", h.ListBySpecialty)
	g.GET("/:id", h.GetPractitioner)
	g.PUT("/:id", h.UpdatePractitioner)
	g.DELETE("/:id", h.DeletePractitioner)
}

func (h *Handler) CreatePractitioner(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPractitioner(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPractitionerByUser(c echo.Context) error {
	p, err := h.svc.GetByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListBySpecialty(c echo.Context) error {
	items, err := h.svc.ListBySpecialty(c.Request().Context(), c.Param("specialty"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPractitioners(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("specialty"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdatePractitioner(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePractitioner(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Practitioner deleted successfully"})
}
