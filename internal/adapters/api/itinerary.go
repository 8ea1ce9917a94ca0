package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"tripdesk/internal/domain"
)

type ItineraryClient struct{ c *Client }

var _ domain.ItineraryAPI = (*ItineraryClient)(nil)

func (ic *ItineraryClient) List(ctx context.Context, customerID int64) ([]domain.Itinerary, error) {
	var out []domain.Itinerary
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary",
		method: http.MethodGet, path: "/itinerary",
		query: url.Values{"customer_id": {id(customerID)}}, out: &out,
	})
}

func (ic *ItineraryClient) Create(ctx context.Context, in domain.ItineraryInput) (domain.Itinerary, error) {
	var out domain.Itinerary
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary",
		method: http.MethodPost, path: "/itinerary", body: in, out: &out,
	})
}

func (ic *ItineraryClient) Get(ctx context.Context, itineraryID int64) (domain.Itinerary, error) {
	var out domain.Itinerary
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}",
		method: http.MethodGet, path: "/itinerary/" + id(itineraryID), out: &out,
	})
}

func (ic *ItineraryClient) Update(ctx context.Context, itineraryID int64, in domain.ItineraryInput) (domain.Itinerary, error) {
	var out domain.Itinerary
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}",
		method: http.MethodPut, path: "/itinerary/" + id(itineraryID), body: in, out: &out,
	})
}

func (ic *ItineraryClient) Delete(ctx context.Context, itineraryID int64) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}",
		method: http.MethodDelete, path: "/itinerary/" + id(itineraryID),
	})
}

func (ic *ItineraryClient) UpdateStatus(ctx context.Context, itineraryID int64, status domain.ItineraryStatus) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/status",
		method: http.MethodPatch, path: "/itinerary/" + id(itineraryID) + "/status",
		body: map[string]domain.ItineraryStatus{"status": status},
	})
}

// ---- schedule items ----

func (ic *ItineraryClient) AddScheduleItem(ctx context.Context, itineraryID int64, in domain.ScheduleItemInput) (domain.ScheduleItem, error) {
	var out domain.ScheduleItem
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/schedule-items",
		method: http.MethodPost, path: "/itinerary/" + id(itineraryID) + "/schedule-items", body: in, out: &out,
	})
}

func (ic *ItineraryClient) UpdateScheduleItem(ctx context.Context, itineraryID, itemID int64, in domain.ScheduleItemInput) (domain.ScheduleItem, error) {
	var out domain.ScheduleItem
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/schedule-items/{item}",
		method: http.MethodPut, path: "/itinerary/" + id(itineraryID) + "/schedule-items/" + id(itemID), body: in, out: &out,
	})
}

func (ic *ItineraryClient) DeleteScheduleItem(ctx context.Context, itineraryID, itemID int64) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/schedule-items/{item}",
		method: http.MethodDelete, path: "/itinerary/" + id(itineraryID) + "/schedule-items/" + id(itemID),
	})
}

// ---- room items ----

func (ic *ItineraryClient) AddRoomItem(ctx context.Context, itineraryID int64, in domain.RoomItemInput) (domain.RoomItem, error) {
	var out domain.RoomItem
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/room-items",
		method: http.MethodPost, path: "/itinerary/" + id(itineraryID) + "/room-items", body: in, out: &out,
	})
}

func (ic *ItineraryClient) DeleteRoomItem(ctx context.Context, itineraryID, itemID int64) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/room-items/{item}",
		method: http.MethodDelete, path: "/itinerary/" + id(itineraryID) + "/room-items/" + id(itemID),
	})
}

// BookRoom reserves a room item; the body carries exactly the three fields.
func (ic *ItineraryClient) BookRoom(ctx context.Context, roomItemID int64, persons int, customerID int64) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/book-room",
		method: http.MethodPost, path: "/itinerary/book-room",
		body: domain.BookRoomRequest{RoomItemID: roomItemID, NumberOfPersons: persons, CustomerID: customerID},
	})
}

// ---- rides ----

func (ic *ItineraryClient) AddRide(ctx context.Context, itineraryID int64, in domain.RideInput) (domain.RideBooking, error) {
	var out domain.RideBooking
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/rides",
		method: http.MethodPost, path: "/itinerary/" + id(itineraryID) + "/rides", body: in, out: &out,
	})
}

func (ic *ItineraryClient) CancelRide(ctx context.Context, itineraryID, rideID int64) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/rides/{ride}",
		method: http.MethodDelete, path: "/itinerary/" + id(itineraryID) + "/rides/" + id(rideID),
	})
}

func (ic *ItineraryClient) ReviewRide(ctx context.Context, rideID int64, in domain.RideReviewInput) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/rides/{ride}/review",
		method: http.MethodPost, path: "/itinerary/rides/" + id(rideID) + "/review", body: in,
	})
}

func (ic *ItineraryClient) SetDriverService(ctx context.Context, itineraryID int64, requested bool) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/{id}/driver-service",
		method: http.MethodPut, path: "/itinerary/" + id(itineraryID) + "/driver-service",
		body: map[string]bool{"driver_service_requested": requested},
	})
}

// ---- lookups ----

func (ic *ItineraryClient) AvailableRooms(ctx context.Context, q domain.AvailableRoomsQuery) ([]domain.AvailableRoom, error) {
	v := url.Values{}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if !q.StartDate.IsZero() {
		v.Set("start_date", q.StartDate.String())
	}
	if !q.EndDate.IsZero() {
		v.Set("end_date", q.EndDate.String())
	}
	if q.Persons > 0 {
		v.Set("persons", strconv.Itoa(q.Persons))
	}
	var out []domain.AvailableRoom
	return out, ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/available-rooms",
		method: http.MethodGet, path: "/itinerary/available-rooms", query: v, out: &out,
	})
}

func (ic *ItineraryClient) SubmitHotelReview(ctx context.Context, in domain.HotelReviewInput) error {
	return ic.c.do(ctx, call{
		service: "itinerary", route: "/itinerary/hotel-review",
		method: http.MethodPost, path: "/itinerary/hotel-review", body: in,
	})
}
