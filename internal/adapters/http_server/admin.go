package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tripdesk/internal/domain"
)

func (h *Handlers) listDrivers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Drivers(r.Context()))
}

func (h *Handlers) createDriver(w http.ResponseWriter, r *http.Request) {
	var d domain.Driver
	if err := decode(r, &d); err != nil {
		fail(w, r, err)
		return
	}
	if err := d.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.Catalog.CreateDriver(r.Context(), d)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	var d domain.Driver
	if err == nil {
		err = decode(r, &d)
	}
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	d.ID = id
	out, err := h.Catalog.UpdateDriver(r.Context(), d)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err == nil {
		err = h.Catalog.DeleteDriver(r.Context(), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) adminHotels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Hotels(r.Context(), ""))
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in domain.Hotel
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.Catalog.CreateHotel(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	var in domain.Hotel
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	in.ID = id
	out, err := h.Catalog.UpdateHotel(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err == nil {
		err = h.Catalog.DeleteHotel(r.Context(), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// metric computes one dashboard figure from the live catalog.
func (h *Handlers) metric(w http.ResponseWriter, r *http.Request) {
	name := domain.MetricName(chi.URLParam(r, "name"))
	ctx := r.Context()

	var v float64
	switch name {
	case domain.MetricTotalBookings, domain.MetricTotalRevenue:
		for _, b := range h.Catalog.Bookings(ctx, 0, 0) {
			if b.Status == domain.BookingCancelled {
				continue
			}
			if name == domain.MetricTotalBookings {
				v++
			} else {
				v += b.TotalPrice
			}
		}
	case domain.MetricActiveDrivers:
		for _, d := range h.Catalog.Drivers(ctx) {
			if d.Available {
				v++
			}
		}
	case domain.MetricTotalHotels:
		v = float64(len(h.Catalog.Hotels(ctx, "")))
	case domain.MetricTotalCustomers:
		v = float64(h.Catalog.CountUsers(ctx, domain.UserCustomer))
	default:
		writeDetail(w, http.StatusNotFound, "Unknown metric")
		return
	}
	writeJSON(w, http.StatusOK, domain.Metric{Name: name, Value: v})
}

func (h *Handlers) adminRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Rooms(r.Context(), 0))
}

func (h *Handlers) adminBookings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Bookings(r.Context(), 0, 0))
}
