package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tripdesk/internal/adapters/observability"
	"tripdesk/internal/domain"
	"tripdesk/internal/session"
)

// MetricSlot is one admin dashboard tile. Err is set when that metric
// failed; the others still render.
type MetricSlot struct {
	Name  domain.MetricName
	Value float64
	Err   error
}

type CustomerOverview struct {
	Bookings       []domain.Booking
	Itineraries    []domain.Itinerary
	BookingsErr    error
	ItinerariesErr error
}

type DriverOverview struct {
	Accepted    []domain.Trip
	Pending     []domain.Trip
	AcceptedErr error
	PendingErr  error
}

// Dashboard loads the landing view of each role. Sections load
// concurrently and fail independently.
type Dashboard struct {
	holder      *session.Holder
	metrics     domain.MetricsAPI
	bookings    domain.BookingsAPI
	itineraries domain.ItineraryAPI
	trips       domain.TripsAPI
	notify      domain.Notifier
	limit       int
}

func NewDashboard(h *session.Holder, m domain.MetricsAPI, b domain.BookingsAPI, it domain.ItineraryAPI, t domain.TripsAPI, n domain.Notifier, limit int) *Dashboard {
	if limit <= 0 {
		limit = 4
	}
	return &Dashboard{holder: h, metrics: m, bookings: b, itineraries: it, trips: t, notify: n, limit: limit}
}

func (d *Dashboard) Admin(ctx context.Context) ([]MetricSlot, error) {
	if err := d.holder.RequireRole(domain.UserAdmin); err != nil {
		d.notify.Error("Please sign in as an admin to open this dashboard")
		return nil, err
	}
	slots := make([]MetricSlot, len(domain.DashboardMetrics))
	var g errgroup.Group
	g.SetLimit(d.limit)
	for i, name := range domain.DashboardMetrics {
		slots[i].Name = name
		g.Go(func() error {
			m, err := d.metrics.Metric(ctx, name)
			observability.ObserveDashboard("admin", string(name), err)
			if err != nil {
				log.Warn().Err(err).Str("metric", string(name)).Msg("metric load failed")
				slots[i].Err = err
				return nil
			}
			slots[i].Value = m.Value
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range slots {
		if s.Err != nil {
			d.notify.Error("Some metrics could not be loaded")
			break
		}
	}
	return slots, nil
}

func (d *Dashboard) Customer(ctx context.Context) (CustomerOverview, error) {
	if err := d.holder.RequireRole(domain.UserCustomer); err != nil {
		d.notify.Error("Please sign in as a customer to open this dashboard")
		return CustomerOverview{}, err
	}
	uid := d.holder.Current().UserID

	var out CustomerOverview
	var g errgroup.Group
	g.SetLimit(d.limit)
	g.Go(func() error {
		out.Bookings, out.BookingsErr = d.bookings.Bookings(ctx, uid)
		observability.ObserveDashboard("customer", "bookings", out.BookingsErr)
		return nil
	})
	g.Go(func() error {
		out.Itineraries, out.ItinerariesErr = d.itineraries.List(ctx, uid)
		observability.ObserveDashboard("customer", "itineraries", out.ItinerariesErr)
		return nil
	})
	_ = g.Wait()

	if out.BookingsErr != nil {
		d.notify.Error(domain.Message(out.BookingsErr))
	}
	if out.ItinerariesErr != nil {
		d.notify.Error(domain.Message(out.ItinerariesErr))
	}
	return out, nil
}

func (d *Dashboard) Driver(ctx context.Context) (DriverOverview, error) {
	if err := d.holder.RequireRole(domain.UserDriver); err != nil {
		d.notify.Error("Please sign in as a driver to open this dashboard")
		return DriverOverview{}, err
	}
	uid := d.holder.Current().UserID

	var out DriverOverview
	var g errgroup.Group
	g.SetLimit(d.limit)
	g.Go(func() error {
		out.Accepted, out.AcceptedErr = d.trips.AcceptedTrips(ctx, uid)
		observability.ObserveDashboard("driver", "accepted", out.AcceptedErr)
		return nil
	})
	g.Go(func() error {
		out.Pending, out.PendingErr = d.trips.PendingTrips(ctx)
		observability.ObserveDashboard("driver", "pending", out.PendingErr)
		return nil
	})
	_ = g.Wait()

	if out.AcceptedErr != nil {
		d.notify.Error(domain.Message(out.AcceptedErr))
	}
	if out.PendingErr != nil {
		d.notify.Error(domain.Message(out.PendingErr))
	}
	return out, nil
}
