package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/domain"
	"tripdesk/internal/pricing"
	"tripdesk/internal/session"
)

// ItineraryOrchestrator backs the itinerary detail page. It keeps the last
// aggregate fetched from the backend; every successful mutation re-fetches
// it instead of patching local state.
type ItineraryOrchestrator struct {
	id         int64
	api        domain.ItineraryAPI
	rooms      domain.RoomCatalog
	holder     *session.Holder
	notify     domain.Notifier
	driverRate float64

	mu      sync.Mutex
	it      domain.Itinerary
	loaded  bool
	payment PaymentProgress
}

func NewItineraryOrchestrator(id int64, api domain.ItineraryAPI, rooms domain.RoomCatalog, h *session.Holder, n domain.Notifier, driverRate float64) *ItineraryOrchestrator {
	if driverRate <= 0 {
		driverRate = pricing.DefaultDriverRatePerDay
	}
	return &ItineraryOrchestrator{id: id, api: api, rooms: rooms, holder: h, notify: n, driverRate: driverRate}
}

func (o *ItineraryOrchestrator) ID() int64 { return o.id }

// Load fetches the aggregate. A failure leaves the previous copy in place.
func (o *ItineraryOrchestrator) Load(ctx context.Context) error {
	if err := o.refresh(ctx); err != nil {
		o.notify.Error(domain.Message(err))
		return err
	}
	return nil
}

func (o *ItineraryOrchestrator) refresh(ctx context.Context) error {
	it, err := o.api.Get(ctx, o.id)
	if err != nil {
		return fmt.Errorf("load itinerary %d: %w", o.id, err)
	}
	o.mu.Lock()
	o.it = it
	o.loaded = true
	o.mu.Unlock()
	return nil
}

func (o *ItineraryOrchestrator) ensureLoaded(ctx context.Context) (domain.Itinerary, error) {
	o.mu.Lock()
	it, ok := o.it.Clone(), o.loaded
	o.mu.Unlock()
	if ok {
		return it, nil
	}
	if err := o.Load(ctx); err != nil {
		return domain.Itinerary{}, err
	}
	return o.Itinerary(), nil
}

// Itinerary returns a private copy of the last loaded aggregate.
func (o *ItineraryOrchestrator) Itinerary() domain.Itinerary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.it.Clone()
}

func (o *ItineraryOrchestrator) Summary() pricing.Breakdown {
	return pricing.ItineraryTotal(o.Itinerary(), o.driverRate)
}

// mutate runs one backend call and re-fetches on success. Validation
// failures never reach the backend.
func (o *ItineraryOrchestrator) mutate(ctx context.Context, op, okMsg string, verr error, call func(context.Context) error) error {
	if verr != nil {
		o.notify.Error(domain.Message(verr))
		return verr
	}
	if err := call(ctx); err != nil {
		log.Warn().Err(err).Int64("itinerary_id", o.id).Str("op", op).Msg("itinerary mutation failed")
		o.notify.Error(domain.Message(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	o.notify.Success(okMsg)
	if err := o.refresh(ctx); err != nil {
		o.notify.Error(domain.Message(err))
		return err
	}
	return nil
}

func (o *ItineraryOrchestrator) UpdateDetails(ctx context.Context, in domain.ItineraryInput) error {
	in.CustomerID = o.Itinerary().CustomerID
	return o.mutate(ctx, "update itinerary", "Itinerary updated", in.Validate(), func(ctx context.Context) error {
		_, err := o.api.Update(ctx, o.id, in)
		return err
	})
}

// Delete removes the itinerary; there is nothing left to re-fetch.
func (o *ItineraryOrchestrator) Delete(ctx context.Context) error {
	if err := o.api.Delete(ctx, o.id); err != nil {
		o.notify.Error(domain.Message(err))
		return fmt.Errorf("delete itinerary: %w", err)
	}
	o.mu.Lock()
	o.it = domain.Itinerary{}
	o.loaded = false
	o.mu.Unlock()
	o.notify.Success("Itinerary deleted")
	return nil
}

func (o *ItineraryOrchestrator) AddActivity(ctx context.Context, in domain.ScheduleItemInput) error {
	return o.mutate(ctx, "add activity", "Activity added", in.Validate(), func(ctx context.Context) error {
		_, err := o.api.AddScheduleItem(ctx, o.id, in)
		return err
	})
}

func (o *ItineraryOrchestrator) EditActivity(ctx context.Context, itemID int64, in domain.ScheduleItemInput) error {
	return o.mutate(ctx, "edit activity", "Activity updated", in.Validate(), func(ctx context.Context) error {
		_, err := o.api.UpdateScheduleItem(ctx, o.id, itemID, in)
		return err
	})
}

func (o *ItineraryOrchestrator) RemoveActivity(ctx context.Context, itemID int64) error {
	return o.mutate(ctx, "remove activity", "Activity removed", nil, func(ctx context.Context) error {
		return o.api.DeleteScheduleItem(ctx, o.id, itemID)
	})
}

func (o *ItineraryOrchestrator) AddRoom(ctx context.Context, in domain.RoomItemInput) error {
	return o.mutate(ctx, "add room", "Room added to itinerary", in.Validate(), func(ctx context.Context) error {
		_, err := o.api.AddRoomItem(ctx, o.id, in)
		return err
	})
}

func (o *ItineraryOrchestrator) RemoveRoom(ctx context.Context, itemID int64) error {
	it, err := o.ensureLoaded(ctx)
	if err != nil {
		return err
	}
	var verr error
	if _, ok := it.RoomItem(itemID); !ok {
		verr = domain.Invalid("room_item_id", "Room is not part of this itinerary")
	}
	return o.mutate(ctx, "remove room", "Room removed", verr, func(ctx context.Context) error {
		return o.api.DeleteRoomItem(ctx, o.id, itemID)
	})
}

// BookRoom reserves one room item for the signed-in customer with the
// itinerary's party size.
func (o *ItineraryOrchestrator) BookRoom(ctx context.Context, itemID int64) error {
	if err := o.holder.RequireRole(domain.UserCustomer); err != nil {
		o.notify.Error("Please sign in as a customer to book rooms")
		return err
	}
	it, err := o.ensureLoaded(ctx)
	if err != nil {
		return err
	}
	var verr error
	if _, ok := it.RoomItem(itemID); !ok {
		verr = domain.Invalid("room_item_id", "Room is not part of this itinerary")
	}
	customerID := o.holder.Current().UserID
	return o.mutate(ctx, "book room", "Room booked", verr, func(ctx context.Context) error {
		return o.api.BookRoom(ctx, itemID, it.NumberOfPersons, customerID)
	})
}

func (o *ItineraryOrchestrator) AddRide(ctx context.Context, in domain.RideInput) error {
	return o.mutate(ctx, "add ride", "Ride requested", in.Validate(), func(ctx context.Context) error {
		_, err := o.api.AddRide(ctx, o.id, in)
		return err
	})
}

func (o *ItineraryOrchestrator) ride(ctx context.Context, rideID int64) (domain.RideBooking, error) {
	it, err := o.ensureLoaded(ctx)
	if err != nil {
		return domain.RideBooking{}, err
	}
	for _, r := range it.RideBookings {
		if r.ID == rideID {
			return r, nil
		}
	}
	return domain.RideBooking{}, domain.Invalid("ride_id", "Ride is not part of this itinerary")
}

func (o *ItineraryOrchestrator) CancelRide(ctx context.Context, rideID int64) error {
	r, verr := o.ride(ctx, rideID)
	if verr == nil && (r.Status == domain.RideCancelled || r.Status == domain.RideCompleted) {
		verr = domain.Invalid("ride_id", "Only pending or confirmed rides can be cancelled")
	}
	return o.mutate(ctx, "cancel ride", "Ride cancelled", verr, func(ctx context.Context) error {
		return o.api.CancelRide(ctx, o.id, rideID)
	})
}

func (o *ItineraryOrchestrator) ReviewRide(ctx context.Context, rideID int64, in domain.RideReviewInput) error {
	r, verr := o.ride(ctx, rideID)
	switch {
	case verr != nil:
	case r.Status != domain.RideCompleted:
		verr = domain.Invalid("ride_id", "Only completed rides can be reviewed")
	case r.IsReviewed:
		verr = domain.Invalid("ride_id", "This ride was already reviewed")
	default:
		verr = domain.ValidateRating(in.Rating)
	}
	return o.mutate(ctx, "review ride", "Thanks for your review!", verr, func(ctx context.Context) error {
		return o.api.ReviewRide(ctx, rideID, in)
	})
}

func (o *ItineraryOrchestrator) SetDriverService(ctx context.Context, requested bool) error {
	msg := "Driver service removed"
	if requested {
		msg = "Driver service requested"
	}
	return o.mutate(ctx, "driver service", msg, nil, func(ctx context.Context) error {
		return o.api.SetDriverService(ctx, o.id, requested)
	})
}

// ReviewHotel posts a review for a hotel the itinerary stays at.
func (o *ItineraryOrchestrator) ReviewHotel(ctx context.Context, hotelID int64, rating int, comment string) error {
	if err := o.holder.RequireRole(domain.UserCustomer); err != nil {
		o.notify.Error("Please sign in as a customer to leave reviews")
		return err
	}
	it, err := o.ensureLoaded(ctx)
	if err != nil {
		return err
	}
	verr := domain.ValidateRating(rating)
	if verr == nil && !staysAt(it, hotelID) {
		verr = domain.Invalid("hotel_id", "This hotel is not part of the itinerary")
	}
	in := domain.HotelReviewInput{
		HotelID:    hotelID,
		CustomerID: o.holder.Current().UserID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	return o.mutate(ctx, "review hotel", "Thanks for your review!", verr, func(ctx context.Context) error {
		return o.api.SubmitHotelReview(ctx, in)
	})
}

func staysAt(it domain.Itinerary, hotelID int64) bool {
	for _, r := range it.RoomItems {
		if r.Room.Hotel.ID == hotelID {
			return true
		}
	}
	return false
}

// AvailableRooms searches for rooms to add. Missing dates and party size
// default to the itinerary's own.
func (o *ItineraryOrchestrator) AvailableRooms(ctx context.Context, q domain.AvailableRoomsQuery) ([]domain.AvailableRoom, error) {
	it, err := o.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if q.StartDate.IsZero() {
		q.StartDate = it.StartDate
	}
	if q.EndDate.IsZero() {
		q.EndDate = it.EndDate
	}
	if q.Persons <= 0 {
		q.Persons = it.NumberOfPersons
	}
	rooms, err := o.api.AvailableRooms(ctx, q)
	if err != nil {
		o.notify.Error(domain.Message(err))
		return nil, err
	}
	return rooms, nil
}

func (o *ItineraryOrchestrator) RoomDetails(ctx context.Context, roomID int64) (domain.Room, error) {
	r, err := o.rooms.Room(ctx, roomID)
	if err != nil {
		o.notify.Error(domain.Message(err))
		return domain.Room{}, err
	}
	return r, nil
}
