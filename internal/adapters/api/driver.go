package api

import (
	"context"
	"net/http"

	"tripdesk/internal/domain"
)

type DriverClient struct{ c *Client }

func (d *DriverClient) AcceptedTrips(ctx context.Context, driverID int64) ([]domain.Trip, error) {
	var out []domain.Trip
	return out, d.c.do(ctx, call{
		service: "driver", route: "/driver/{id}/trips/accepted",
		method: http.MethodGet, path: "/driver/" + id(driverID) + "/trips/accepted", out: &out,
	})
}

func (d *DriverClient) PendingTrips(ctx context.Context) ([]domain.Trip, error) {
	var out []domain.Trip
	return out, d.c.do(ctx, call{
		service: "driver", route: "/driver/trips/pending",
		method: http.MethodGet, path: "/driver/trips/pending", out: &out,
	})
}

func (d *DriverClient) AcceptRide(ctx context.Context, rideID, driverID int64) error {
	return d.c.do(ctx, call{
		service: "driver", route: "/driver/rides/{id}/accept",
		method: http.MethodPost, path: "/driver/rides/" + id(rideID) + "/accept",
		body: map[string]int64{"driver_id": driverID},
	})
}

func (d *DriverClient) DeclineRide(ctx context.Context, rideID, driverID int64) error {
	return d.c.do(ctx, call{
		service: "driver", route: "/driver/rides/{id}/decline",
		method: http.MethodPost, path: "/driver/rides/" + id(rideID) + "/decline",
		body: map[string]int64{"driver_id": driverID},
	})
}

// CompleteRide marks a confirmed ride as driven.
func (d *DriverClient) CompleteRide(ctx context.Context, rideID, driverID int64) error {
	return d.c.do(ctx, call{
		service: "driver", route: "/driver/rides/{id}/complete",
		method: http.MethodPost, path: "/driver/rides/" + id(rideID) + "/complete",
		body: map[string]int64{"driver_id": driverID},
	})
}

func (d *DriverClient) Profile(ctx context.Context, driverID int64) (domain.Driver, error) {
	var out domain.Driver
	return out, d.c.do(ctx, call{
		service: "driver", route: "/driver/profile/{id}",
		method: http.MethodGet, path: "/driver/profile/" + id(driverID), out: &out,
	})
}
