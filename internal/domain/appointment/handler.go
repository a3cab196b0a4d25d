package appointment

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
	g := api.Group("/appointments")
	g.POST("", h.CreateAppointment)
	g.GET("", h.ListAppointments)
	g.GET("/range", h.ListAppointmentsInRange)
	g.GET("/patient/:patientId", h.ListPatientAppointments)
	g.GET("/practitioner/:practitionerId", h.ListPractitionerAppointments)
	g.GET("/:id", h.GetAppointment)
	g.PUT("/:id", h.UpdateAppointment)
	g.PATCH("/:id/status", h.UpdateAppointmentStatus)
	g.DELETE("/:id", h.DeleteAppointment)
}

func filterInput(c echo.Context) FilterInput {
	return FilterInput{
		Status:         c.QueryParam("status"),
		PatientID:      c.QueryParam("patient_id"),
		PractitionerID: c.QueryParam("practitioner_id"),
	}
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	a, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), filterInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAppointmentsInRange(c echo.Context) error {
	rng, err := params.DateRange(c)
	if err != nil {
		return apierror.Validation(err.Error())
	}
	items, err := h.svc.ListByDateRange(c.Request().Context(), rng, filterInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
	items, err := h.svc.ListByPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPractitionerAppointments(c echo.Context) error {
	items, err := h.svc.ListByPractitioner(c.Request().Context(), c.Param("practitionerId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	a, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return apierror.Validation(apierror.MsgInvalidBody)
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, ok := params.PathID(c, "id")
	if !ok {
		return apierror.NotFound(msgNotFound)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment deleted successfully"})
}
