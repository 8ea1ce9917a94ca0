package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/domain"
)

// actingDriver resolves the driver id for a request: drivers act as
// themselves, admins on behalf of the requested driver.
func actingDriver(r *http.Request, requested int64) (int64, error) {
	p, _ := principal(r.Context())
	if p.Role == domain.UserAdmin {
		return requested, nil
	}
	if requested != 0 && requested != p.UserID {
		return 0, forbidden("You can only act as yourself")
	}
	return p.UserID, nil
}

func (h *Handlers) trip(r *http.Request, rec domain.RideRecord) domain.Trip {
	t := domain.Trip{
		ID:              rec.Ride.ID,
		PickupLocation:  rec.Ride.PickupLocation,
		DropoffLocation: rec.Ride.DropoffLocation,
		PickupDateTime:  rec.Ride.PickupDateTime.UTC().Format("2006-01-02T15:04:05Z"),
		Status:          rec.Ride.Status,
		Price:           rec.Ride.Price,
	}
	if u, err := h.Catalog.User(r.Context(), rec.CustomerID); err == nil {
		t.CustomerName = u.Username
	}
	return t
}

func (h *Handlers) trips(w http.ResponseWriter, r *http.Request, keep func(domain.RideBooking) bool) {
	recs, err := h.Store.ListRides(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	out := []domain.Trip{}
	for _, rec := range recs {
		if keep(rec.Ride) {
			out = append(out, h.trip(r, rec))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) acceptedTrips(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err == nil {
		id, err = actingDriver(r, id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	h.trips(w, r, func(rb domain.RideBooking) bool {
		return rb.DriverID == id && (rb.Status == domain.RideConfirmed || rb.Status == domain.RideCompleted)
	})
}

func (h *Handlers) pendingTrips(w http.ResponseWriter, r *http.Request) {
	h.trips(w, r, func(rb domain.RideBooking) bool { return rb.Status == domain.RidePending })
}

type driverBody struct {
	DriverID int64 `json:"driver_id"`
}

// rideAction decodes the body and resolves the ride and acting driver.
func (h *Handlers) rideAction(r *http.Request) (domain.RideRecord, int64, error) {
	rideID, err := pathID(r, "id")
	if err != nil {
		return domain.RideRecord{}, 0, err
	}
	var in driverBody
	if r.ContentLength != 0 {
		if err := decode(r, &in); err != nil {
			return domain.RideRecord{}, 0, err
		}
	}
	driverID, err := actingDriver(r, in.DriverID)
	if err != nil {
		return domain.RideRecord{}, 0, err
	}
	if driverID == 0 {
		return domain.RideRecord{}, 0, domain.Invalid("driver_id", "driver_id is required")
	}
	rec, err := h.rideRecord(r.Context(), rideID)
	return rec, driverID, err
}

func (h *Handlers) acceptRide(w http.ResponseWriter, r *http.Request) {
	rec, driverID, err := h.rideAction(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if rec.Ride.Status != domain.RidePending {
		fail(w, r, conflict("Ride is no longer pending"))
		return
	}
	d, err := h.Catalog.Driver(r.Context(), driverID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.Store.AssignRide(r.Context(), rec.Ride.ID, driverID, d.Name); err != nil {
		fail(w, r, err)
		return
	}
	log.Info().Int64("ride_id", rec.Ride.ID).Int64("driver_id", driverID).Msg("ride accepted")
	w.WriteHeader(http.StatusNoContent)
}

// declineRide leaves the ride pending for other drivers.
func (h *Handlers) declineRide(w http.ResponseWriter, r *http.Request) {
	rec, driverID, err := h.rideAction(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if rec.Ride.Status != domain.RidePending {
		fail(w, r, conflict("Ride is no longer pending"))
		return
	}
	log.Info().Int64("ride_id", rec.Ride.ID).Int64("driver_id", driverID).Msg("ride declined")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) completeRide(w http.ResponseWriter, r *http.Request) {
	rec, driverID, err := h.rideAction(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if rec.Ride.Status != domain.RideConfirmed || rec.Ride.DriverID != driverID {
		fail(w, r, conflict("Only your confirmed rides can be completed"))
		return
	}
	if err := h.Store.SetRideStatus(r.Context(), rec.ItineraryID, rec.Ride.ID, domain.RideCompleted); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) driverProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err == nil {
		_, err = actingDriver(r, id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	d, err := h.Catalog.Driver(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
