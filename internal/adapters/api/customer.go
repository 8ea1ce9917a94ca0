package api

import (
	"context"
	"net/http"
	"net/url"

	"tripdesk/internal/domain"
)

type CustomerClient struct{ c *Client }

// Hotels lists hotels, optionally filtered by city.
func (cc *CustomerClient) Hotels(ctx context.Context, city string) ([]domain.Hotel, error) {
	var q url.Values
	if city != "" {
		q = url.Values{"city": {city}}
	}
	var out []domain.Hotel
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/hotels",
		method: http.MethodGet, path: "/customer/hotels", query: q, out: &out,
	})
}

func (cc *CustomerClient) Hotel(ctx context.Context, hotelID int64) (domain.Hotel, error) {
	var out domain.Hotel
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/hotels/{id}",
		method: http.MethodGet, path: "/customer/hotels/" + id(hotelID), out: &out,
	})
}

func (cc *CustomerClient) HotelRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	var out []domain.Room
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/hotels/{id}/rooms",
		method: http.MethodGet, path: "/customer/hotels/" + id(hotelID) + "/rooms", out: &out,
	})
}

func (cc *CustomerClient) Room(ctx context.Context, roomID int64) (domain.Room, error) {
	var out domain.Room
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/rooms/{id}",
		method: http.MethodGet, path: "/customer/rooms/" + id(roomID), out: &out,
	})
}

func (cc *CustomerClient) Bookings(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/bookings",
		method: http.MethodGet, path: "/customer/bookings",
		query: url.Values{"customer_id": {id(customerID)}}, out: &out,
	})
}

func (cc *CustomerClient) CreateBooking(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
	var out domain.Booking
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/bookings",
		method: http.MethodPost, path: "/customer/bookings", body: in, out: &out,
	})
}

func (cc *CustomerClient) CancelBooking(ctx context.Context, bookingID int64) error {
	return cc.c.do(ctx, call{
		service: "customer", route: "/customer/bookings/{id}",
		method: http.MethodDelete, path: "/customer/bookings/" + id(bookingID),
	})
}

func (cc *CustomerClient) HotelReviews(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	var out []domain.Review
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/hotels/{id}/reviews",
		method: http.MethodGet, path: "/customer/hotels/" + id(hotelID) + "/reviews", out: &out,
	})
}

func (cc *CustomerClient) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	var out domain.Review
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/reviews",
		method: http.MethodPost, path: "/customer/reviews", body: r, out: &out,
	})
}

func (cc *CustomerClient) DeleteReview(ctx context.Context, reviewID int64) error {
	return cc.c.do(ctx, call{
		service: "customer", route: "/customer/reviews/{id}",
		method: http.MethodDelete, path: "/customer/reviews/" + id(reviewID),
	})
}

func (cc *CustomerClient) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	var out domain.Profile
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/profile/{id}",
		method: http.MethodGet, path: "/customer/profile/" + id(userID), out: &out,
	})
}

func (cc *CustomerClient) UpdateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	var out domain.Profile
	return out, cc.c.do(ctx, call{
		service: "customer", route: "/customer/profile/{id}",
		method: http.MethodPut, path: "/customer/profile/" + id(p.ID), body: p, out: &out,
	})
}
