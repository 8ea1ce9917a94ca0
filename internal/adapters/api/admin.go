package api

import (
	"context"
	"net/http"

	"tripdesk/internal/domain"
)

type AdminClient struct{ c *Client }

func (a *AdminClient) Drivers(ctx context.Context) ([]domain.Driver, error) {
	var out []domain.Driver
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/drivers",
		method: http.MethodGet, path: "/admin/drivers", out: &out,
	})
}

func (a *AdminClient) CreateDriver(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	var out domain.Driver
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/drivers",
		method: http.MethodPost, path: "/admin/drivers", body: d, out: &out,
	})
}

func (a *AdminClient) UpdateDriver(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	var out domain.Driver
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/drivers/{id}",
		method: http.MethodPut, path: "/admin/drivers/" + id(d.ID), body: d, out: &out,
	})
}

func (a *AdminClient) DeleteDriver(ctx context.Context, driverID int64) error {
	return a.c.do(ctx, call{
		service: "admin", route: "/admin/drivers/{id}",
		method: http.MethodDelete, path: "/admin/drivers/" + id(driverID),
	})
}

func (a *AdminClient) Hotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/hotels",
		method: http.MethodGet, path: "/admin/hotels", out: &out,
	})
}

func (a *AdminClient) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	var out domain.Hotel
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/hotels",
		method: http.MethodPost, path: "/admin/hotels", body: h, out: &out,
	})
}

func (a *AdminClient) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	var out domain.Hotel
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/hotels/{id}",
		method: http.MethodPut, path: "/admin/hotels/" + id(h.ID), body: h, out: &out,
	})
}

func (a *AdminClient) DeleteHotel(ctx context.Context, hotelID int64) error {
	return a.c.do(ctx, call{
		service: "admin", route: "/admin/hotels/{id}",
		method: http.MethodDelete, path: "/admin/hotels/" + id(hotelID),
	})
}

// Metric fetches one dashboard figure.
func (a *AdminClient) Metric(ctx context.Context, name domain.MetricName) (domain.Metric, error) {
	var out domain.Metric
	err := a.c.do(ctx, call{
		service: "admin", route: "/admin/metrics/{name}",
		method: http.MethodGet, path: "/admin/metrics/" + string(name), out: &out,
	})
	if out.Name == "" {
		out.Name = name
	}
	return out, err
}

func (a *AdminClient) Rooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/rooms",
		method: http.MethodGet, path: "/admin/rooms", out: &out,
	})
}

func (a *AdminClient) Bookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	return out, a.c.do(ctx, call{
		service: "admin", route: "/admin/bookings",
		method: http.MethodGet, path: "/admin/bookings", out: &out,
	})
}
