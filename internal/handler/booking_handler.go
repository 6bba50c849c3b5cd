package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/salon-booking-service/internal/dto"
	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/internal/service"
	"github.com/Eursukkul/salon-booking-service/internal/wizard"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	salons := e.Group("/api/v1/salons")
	salons.GET("/:slug", h.GetCatalog)
	salons.GET("/:slug/availability", h.GetAvailability)
	salons.POST("/:slug/sessions", h.OpenSession)

	sessions := e.Group("/api/v1/sessions/:id")
	sessions.GET("", h.GetSession)
	sessions.DELETE("", h.CloseSession)
	sessions.POST("/next", h.Next)
	sessions.POST("/prev", h.Prev)
	sessions.PUT("/people", h.SetNumberOfPeople)
	sessions.PUT("/people/:index/name", h.SetPersonName)
	sessions.PUT("/active-person", h.SetActivePerson)
	sessions.POST("/people/:index/services/:service_id/toggle", h.ToggleService)
	sessions.PUT("/people/:index/services/:selection/stylist", h.AssignStylist)
	sessions.PUT("/date", h.SelectDate)
	sessions.GET("/slots", h.GetSlots)
	sessions.PUT("/time", h.SelectTime)
	sessions.PUT("/contact", h.UpdateContact)
	sessions.POST("/submit", h.Submit)

	e.GET("/api/v1/bookings/:confirmation", h.GetBooking)
}

func (h *BookingHandler) GetCatalog(c echo.Context) error {
	catalog, err := h.svc.Catalog(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCatalogResponse(catalog))
}

func (h *BookingHandler) GetAvailability(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	duration := 0
	if d := c.QueryParam("duration"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid duration")
		}
		duration = n
	}

	slots, err := h.svc.Availability(c.Request().Context(), c.Param("slug"), date, c.QueryParam("stylist_id"), duration)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.SlotsResponse{Date: date, Slots: slots})
}

func (h *BookingHandler) OpenSession(c echo.Context) error {
	var req dto.OpenSessionRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}

	id, w, err := h.svc.OpenSession(c.Request().Context(), c.Param("slug"), req.PreselectedServiceID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToSessionResponse(id, w))
}

func (h *BookingHandler) session(c echo.Context) (string, *wizard.Wizard, error) {
	id := c.Param("id")
	w, err := h.svc.Session(id)
	if err != nil {
		return "", nil, toHTTPError(err)
	}
	return id, w, nil
}

func (h *BookingHandler) respond(c echo.Context, id string, w *wizard.Wizard) error {
	return c.JSON(http.StatusOK, dto.ToSessionResponse(id, w))
}

func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func (h *BookingHandler) GetSession(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) CloseSession(c echo.Context) error {
	if err := h.svc.CloseSession(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) Next(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	if err := w.Advance(); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) Prev(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	w.Retreat()
	return h.respond(c, id, w)
}

func (h *BookingHandler) SetNumberOfPeople(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	var req dto.NumberOfPeopleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := w.SetNumberOfPeople(*req.NumberOfPeople); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) SetPersonName(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := intParam(c, "index")
	if err != nil {
		return err
	}
	var req dto.PersonNameRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := w.SetPersonName(index, req.Name); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) SetActivePerson(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	var req dto.ActivePersonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := w.SetActivePerson(req.Index); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) ToggleService(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := intParam(c, "index")
	if err != nil {
		return err
	}
	if _, err := w.ToggleService(index, c.Param("service_id")); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) AssignStylist(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := intParam(c, "index")
	if err != nil {
		return err
	}
	selection, err := intParam(c, "selection")
	if err != nil {
		return err
	}
	var req dto.StylistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := w.AssignStylist(index, selection, req.StylistID); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) SelectDate(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	var req dto.DateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := w.SelectDate(req.Date); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

// GetSlots defaults to the session's selected date.
func (h *BookingHandler) GetSlots(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	if date == "" {
		date = w.Data().Date
	}
	if date == "" {
		return toHTTPError(wizard.ErrDateRequired)
	}
	slots, err := h.svc.SessionSlots(c.Request().Context(), id, date)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.SlotsResponse{Date: date, Slots: slots})
}

func (h *BookingHandler) SelectTime(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	var req dto.TimeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.SelectTime(c.Request().Context(), id, req.Time); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) UpdateContact(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return err
	}
	var req dto.ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	contact := models.Contact{Name: req.Name, Email: req.Email, Phone: req.Phone, Notes: req.Notes}
	if err := w.UpdateContact(contact); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, id, w)
}

func (h *BookingHandler) Submit(c echo.Context) error {
	booking, err := h.svc.Submit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.FindBooking(c.Request().Context(), c.Param("confirmation"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
