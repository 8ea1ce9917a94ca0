package api

import (
	"context"
	"net/http"

	"tripdesk/internal/domain"
)

// HotelClient backs the hotel back-office dashboard.
type HotelClient struct{ c *Client }

func (h *HotelClient) Rooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	var out []domain.Room
	return out, h.c.do(ctx, call{
		service: "hotel", route: "/hotel/{id}/rooms",
		method: http.MethodGet, path: "/hotel/" + id(hotelID) + "/rooms", out: &out,
	})
}

func (h *HotelClient) CreateRoom(ctx context.Context, hotelID int64, r domain.Room) (domain.Room, error) {
	var out domain.Room
	return out, h.c.do(ctx, call{
		service: "hotel", route: "/hotel/{id}/rooms",
		method: http.MethodPost, path: "/hotel/" + id(hotelID) + "/rooms", body: r, out: &out,
	})
}

func (h *HotelClient) UpdateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	var out domain.Room
	return out, h.c.do(ctx, call{
		service: "hotel", route: "/hotel/rooms/{id}",
		method: http.MethodPut, path: "/hotel/rooms/" + id(r.ID), body: r, out: &out,
	})
}

func (h *HotelClient) DeleteRoom(ctx context.Context, roomID int64) error {
	return h.c.do(ctx, call{
		service: "hotel", route: "/hotel/rooms/{id}",
		method: http.MethodDelete, path: "/hotel/rooms/" + id(roomID),
	})
}

func (h *HotelClient) Bookings(ctx context.Context, hotelID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	return out, h.c.do(ctx, call{
		service: "hotel", route: "/hotel/{id}/bookings",
		method: http.MethodGet, path: "/hotel/" + id(hotelID) + "/bookings", out: &out,
	})
}

func (h *HotelClient) Reviews(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	var out []domain.Review
	return out, h.c.do(ctx, call{
		service: "hotel", route: "/hotel/{id}/reviews",
		method: http.MethodGet, path: "/hotel/" + id(hotelID) + "/reviews", out: &out,
	})
}
