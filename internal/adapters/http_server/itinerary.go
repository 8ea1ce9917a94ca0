package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/domain"
	"tripdesk/internal/pricing"
)

// present fills the derived fields the client reads but nobody stores.
func (h *Handlers) present(it domain.Itinerary) domain.Itinerary {
	seen := map[string]bool{}
	it.Destinations = []string{}
	for _, ri := range it.RoomItems {
		c := ri.Room.Hotel.City
		if c != "" && !seen[c] {
			seen[c] = true
			it.Destinations = append(it.Destinations, c)
		}
	}
	if it.Status == domain.ItineraryUpcoming && pricing.IsOngoing(it, h.now()) {
		it.Status = domain.ItineraryOngoing
	}
	if it.ScheduleItems == nil {
		it.ScheduleItems = []domain.ScheduleItem{}
	}
	if it.RoomItems == nil {
		it.RoomItems = []domain.RoomItem{}
	}
	if it.RideBookings == nil {
		it.RideBookings = []domain.RideBooking{}
	}
	return it
}

// owned loads the {id} itinerary and checks the caller may touch it.
func (h *Handlers) owned(r *http.Request) (domain.Itinerary, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return domain.Itinerary{}, err
	}
	return h.ownedByID(r, id)
}

func (h *Handlers) ownedByID(r *http.Request, id int64) (domain.Itinerary, error) {
	it, err := h.Store.GetItinerary(r.Context(), id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if _, err := self(r, it.CustomerID); err != nil {
		return domain.Itinerary{}, err
	}
	return it, nil
}

func (h *Handlers) listItineraries(w http.ResponseWriter, r *http.Request) {
	q, err := queryID(r, "customer_id")
	if err == nil {
		q, err = self(r, q)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	its, err := h.Store.ListItineraries(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]domain.Itinerary, 0, len(its))
	for _, it := range its {
		out = append(out, h.present(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createItinerary(w http.ResponseWriter, r *http.Request) {
	var in domain.ItineraryInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	customerID, err := self(r, in.CustomerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	it, err := h.Store.CreateItinerary(r.Context(), domain.Itinerary{
		CustomerID:      customerID,
		Name:            strings.TrimSpace(in.Name),
		NumberOfPersons: in.NumberOfPersons,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Status:          domain.ItineraryUpcoming,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	log.Info().Int64("itinerary_id", it.ID).Int64("customer_id", customerID).Msg("itinerary created")
	writeJSON(w, http.StatusCreated, h.present(it))
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present(it))
}

func (h *Handlers) updateItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var in domain.ItineraryInput
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
	it.Name = strings.TrimSpace(in.Name)
	it.NumberOfPersons = in.NumberOfPersons
	it.StartDate, it.EndDate = in.StartDate, in.EndDate
	if err := h.Store.UpdateItinerary(r.Context(), it); err != nil {
		fail(w, r, err)
		return
	}
	h.respondItinerary(w, r, it.ID, http.StatusOK)
}

func (h *Handlers) respondItinerary(w http.ResponseWriter, r *http.Request, id int64, status int) {
	it, err := h.Store.GetItinerary(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, status, h.present(it))
}

func (h *Handlers) deleteItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	if err == nil {
		err = h.Store.DeleteItinerary(r.Context(), it.ID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusBody struct {
	Status domain.ItineraryStatus `json:"status"`
}

// updateStatus moves the itinerary through its lifecycle. Accepting settles
// every room item, which is where the client's mock payment ends up.
func (h *Handlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var in statusBody
	if err == nil {
		err = decode(r, &in)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	switch in.Status {
	case domain.ItineraryUpcoming, domain.ItineraryOngoing, domain.ItineraryCompleted:
	case domain.ItineraryAccepted:
		if len(it.RoomItems) == 0 {
			fail(w, r, conflict("Add at least one room before accepting"))
			return
		}
		for _, ri := range it.RoomItems {
			if err := h.Store.MarkRoomItemPaid(r.Context(), ri.ID); err != nil {
				fail(w, r, err)
				return
			}
		}
	default:
		fail(w, r, domain.Invalid("status", "Unknown itinerary status"))
		return
	}
	it.Status = in.Status
	if err := h.Store.UpdateItinerary(r.Context(), it); err != nil {
		fail(w, r, err)
		return
	}
	log.Info().Int64("itinerary_id", it.ID).Str("status", string(in.Status)).Msg("itinerary status changed")
	h.respondItinerary(w, r, it.ID, http.StatusOK)
}

type driverServiceBody struct {
	Requested bool `json:"driver_service_requested"`
}

func (h *Handlers) driverService(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var in driverServiceBody
	if err == nil {
		err = decode(r, &in)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	it.DriverServiceRequested = in.Requested
	if err := h.Store.UpdateItinerary(r.Context(), it); err != nil {
		fail(w, r, err)
		return
	}
	h.respondItinerary(w, r, it.ID, http.StatusOK)
}

// ---- schedule items ----

func scheduleItem(in domain.ScheduleItemInput) domain.ScheduleItem {
	return domain.ScheduleItem{
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
	}
}

func (h *Handlers) addScheduleItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var in domain.ScheduleItemInput
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
	si, err := h.Store.AddScheduleItem(r.Context(), it.ID, scheduleItem(in))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, si)
}

func (h *Handlers) updateScheduleItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var itemID int64
	if err == nil {
		itemID, err = pathID(r, "item")
	}
	var in domain.ScheduleItemInput
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
	si := scheduleItem(in)
	si.ID = itemID
	if err := h.Store.UpdateScheduleItem(r.Context(), it.ID, si); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, si)
}

func (h *Handlers) deleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var itemID int64
	if err == nil {
		itemID, err = pathID(r, "item")
	}
	if err == nil {
		err = h.Store.DeleteScheduleItem(r.Context(), it.ID, itemID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- room items ----

func (h *Handlers) addRoomItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var in domain.RoomItemInput
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
	if in.StartDate.Before(it.StartDate.Time) || in.EndDate.After(it.EndDate.Time) {
		fail(w, r, domain.Invalid("dates", "Room dates must fall within the itinerary"))
		return
	}
	ref, err := h.Catalog.RoomRef(r.Context(), in.RoomID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if ref.RoomCapacity < it.NumberOfPersons {
		fail(w, r, domain.Invalid("room_id", "Room is too small for this itinerary"))
		return
	}
	ri, err := h.Store.AddRoomItem(r.Context(), it.ID, domain.RoomItem{Room: ref, StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ri)
}

func (h *Handlers) deleteRoomItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var itemID int64
	if err == nil {
		itemID, err = pathID(r, "item")
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	ri, ok := it.RoomItem(itemID)
	if !ok {
		fail(w, r, domain.ErrNotFound)
		return
	}
	if ri.IsPaid {
		fail(w, r, conflict("Paid rooms cannot be removed"))
		return
	}
	if err := h.Store.DeleteRoomItem(r.Context(), it.ID, itemID); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) bookRoom(w http.ResponseWriter, r *http.Request) {
	var in domain.BookRoomRequest
	if err := decodeStrict(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if in.RoomItemID <= 0 || in.NumberOfPersons < 1 || in.CustomerID <= 0 {
		fail(w, r, domain.Invalid("room_item_id", "room_item_id, number_of_persons and customer_id are required"))
		return
	}
	itID, ri, err := h.Store.GetRoomItem(r.Context(), in.RoomItemID)
	if err == nil {
		_, err = h.ownedByID(r, itID)
	}
	if err == nil {
		_, err = self(r, in.CustomerID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	b, err := h.book(r, ri.Room.ID, in.CustomerID, in.NumberOfPersons, ri.StartDate, ri.EndDate)
	if err != nil {
		fail(w, r, err)
		return
	}
	log.Info().Int64("room_item_id", ri.ID).Int64("booking_id", b.ID).Msg("itinerary room booked")
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err1 := domain.ParseDate(q.Get("start_date"))
	end, err2 := domain.ParseDate(q.Get("end_date"))
	if err1 != nil || err2 != nil || !end.After(start.Time) {
		fail(w, r, domain.Invalid("dates", "start_date and end_date are required, end after start"))
		return
	}
	persons := 1
	if p := q.Get("persons"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			fail(w, r, badRequest("persons must be a positive number"))
			return
		}
		persons = n
	}

	ctx := r.Context()
	out := []domain.AvailableRoom{}
	for _, hotel := range h.Catalog.Hotels(ctx, strings.TrimSpace(q.Get("city"))) {
		for _, room := range h.Catalog.Rooms(ctx, hotel.ID) {
			if room.RoomCapacity < persons {
				continue
			}
			ref, err := h.Catalog.RoomRef(ctx, room.ID)
			if err != nil {
				continue
			}
			out = append(out, domain.AvailableRoom{RoomRef: ref, Available: h.Catalog.RoomFree(ctx, room.ID, start, end)})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) hotelReview(w http.ResponseWriter, r *http.Request) {
	var in domain.HotelReviewInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	rv, err := h.review(r, domain.Review{HotelID: in.HotelID, CustomerID: in.CustomerID, Rating: in.Rating, Comment: in.Comment})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

// ---- rides ----

func (h *Handlers) addRide(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var in domain.RideInput
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
	rb, err := h.Store.AddRide(r.Context(), it.ID, domain.RideBooking{
		PickupLocation:  strings.TrimSpace(in.PickupLocation),
		DropoffLocation: strings.TrimSpace(in.DropoffLocation),
		PickupDateTime:  in.PickupDateTime,
		Status:          domain.RidePending,
		Price:           h.RideFare,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rb)
}

func findRide(it domain.Itinerary, rideID int64) (domain.RideBooking, bool) {
	for _, rb := range it.RideBookings {
		if rb.ID == rideID {
			return rb, true
		}
	}
	return domain.RideBooking{}, false
}

func (h *Handlers) cancelRide(w http.ResponseWriter, r *http.Request) {
	it, err := h.owned(r)
	var rideID int64
	if err == nil {
		rideID, err = pathID(r, "ride")
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	rb, ok := findRide(it, rideID)
	switch {
	case !ok:
		fail(w, r, domain.ErrNotFound)
		return
	case rb.Status == domain.RideCancelled || rb.Status == domain.RideCompleted:
		fail(w, r, conflict("Only pending or confirmed rides can be cancelled"))
		return
	}
	if err := h.Store.SetRideStatus(r.Context(), it.ID, rideID, domain.RideCancelled); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rideRecord finds a ride anywhere in the store.
func (h *Handlers) rideRecord(ctx context.Context, rideID int64) (domain.RideRecord, error) {
	recs, err := h.Store.ListRides(ctx)
	if err != nil {
		return domain.RideRecord{}, err
	}
	for _, rec := range recs {
		if rec.Ride.ID == rideID {
			return rec, nil
		}
	}
	return domain.RideRecord{}, domain.ErrNotFound
}

func (h *Handlers) reviewRide(w http.ResponseWriter, r *http.Request) {
	rideID, err := pathID(r, "ride")
	var in domain.RideReviewInput
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		err = domain.ValidateRating(in.Rating)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	rec, err := h.rideRecord(r.Context(), rideID)
	if err == nil {
		_, err = self(r, rec.CustomerID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	switch {
	case rec.Ride.Status != domain.RideCompleted:
		fail(w, r, conflict("Only completed rides can be reviewed"))
		return
	case rec.Ride.IsReviewed:
		fail(w, r, conflict("This ride was already reviewed"))
		return
	}
	if err := h.Store.MarkRideReviewed(r.Context(), rideID); err != nil {
		fail(w, r, err)
		return
	}
	log.Info().Int64("ride_id", rideID).Int("rating", in.Rating).Msg("ride reviewed")
	w.WriteHeader(http.StatusNoContent)
}
