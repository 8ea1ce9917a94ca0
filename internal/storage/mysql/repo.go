// Package mysql stores stub-backend itineraries in MySQL.
package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	drv "github.com/go-sql-driver/mysql"

	"tripdesk/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

func valDate(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}

func dateOf(nt sql.NullTime) domain.Date {
	if !nt.Valid {
		return domain.Date{}
	}
	return domain.DateOf(nt.Time)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

// affected maps "no rows touched" to ErrNotFound.
func affected(res sql.Result, err error, kind string, id int64) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// Open connects with the options the repo relies on: DATE/DATETIME scan into
// time.Time in UTC, and RowsAffected counts matched rows so idempotent
// updates are not reported as missing.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := drv.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.ItineraryStore = (*Repo)(nil)

// Migrate creates the tables if missing. Statements run one at a time so the
// DSN does not need multiStatements.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *Repo) CreateItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	dest, _ := json.Marshal(it.Destinations)
	res, err := r.db.ExecContext(ctx, insertItinerarySQL,
		it.CustomerID,
		it.Name,
		it.NumberOfPersons,
		valDate(it.StartDate),
		valDate(it.EndDate),
		string(it.Status),
		string(dest),
		it.DriverServiceRequested,
	)
	if err != nil {
		return domain.Itinerary{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Itinerary{}, err
	}
	return r.GetItinerary(ctx, id)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanItinerary(s rowScanner) (domain.Itinerary, error) {
	var (
		it         domain.Itinerary
		start, end sql.NullTime
		status     string
		dest       sql.NullString
	)
	if err := s.Scan(&it.ID, &it.CustomerID, &it.Name, &it.NumberOfPersons, &start, &end,
		&status, &dest, &it.DriverServiceRequested); err != nil {
		return domain.Itinerary{}, err
	}
	it.StartDate, it.EndDate = dateOf(start), dateOf(end)
	it.Status = domain.ItineraryStatus(status)
	if dest.Valid && dest.String != "" {
		_ = json.Unmarshal([]byte(dest.String), &it.Destinations)
	}
	return it, nil
}

func (r *Repo) GetItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	it, err := scanItinerary(r.db.QueryRowContext(ctx, getItinerarySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Itinerary{}, notFound("itinerary", id)
	}
	if err != nil {
		return domain.Itinerary{}, err
	}
	if err := r.loadItems(ctx, &it); err != nil {
		return domain.Itinerary{}, err
	}
	return it, nil
}

func (r *Repo) loadItems(ctx context.Context, it *domain.Itinerary) error {
	var err error
	if it.ScheduleItems, err = r.scheduleItems(ctx, it.ID); err != nil {
		return err
	}
	if it.RoomItems, err = r.roomItems(ctx, it.ID); err != nil {
		return err
	}
	recs, err := r.rides(ctx, listRidesByItinerarySQL, it.ID)
	if err != nil {
		return err
	}
	it.RideBookings = make([]domain.RideBooking, 0, len(recs))
	for _, rec := range recs {
		it.RideBookings = append(it.RideBookings, rec.Ride)
	}
	return nil
}

func (r *Repo) ListItineraries(ctx context.Context, customerID int64) ([]domain.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx, listItinerariesSQL, customerID, customerID)
	if err != nil {
		return nil, err
	}
	var out []domain.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// sub-items after the cursor is closed; one connection is enough
	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) UpdateItinerary(ctx context.Context, it domain.Itinerary) error {
	dest, _ := json.Marshal(it.Destinations)
	res, err := r.db.ExecContext(ctx, updateItinerarySQL,
		it.Name,
		it.NumberOfPersons,
		valDate(it.StartDate),
		valDate(it.EndDate),
		string(it.Status),
		string(dest),
		it.DriverServiceRequested,
		it.ID,
	)
	return affected(res, err, "itinerary", it.ID)
}

func (r *Repo) DeleteItinerary(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteItinerarySQL, id)
	return affected(res, err, "itinerary", id)
}

// ---- schedule items ----

func (r *Repo) AddScheduleItem(ctx context.Context, itineraryID int64, si domain.ScheduleItem) (domain.ScheduleItem, error) {
	res, err := r.db.ExecContext(ctx, insertScheduleItemSQL, itineraryID, si.Description, si.Location, si.StartTime.UTC(), si.EndTime.UTC())
	if err != nil {
		return domain.ScheduleItem{}, err
	}
	si.ID, err = res.LastInsertId()
	return si, err
}

func (r *Repo) UpdateScheduleItem(ctx context.Context, itineraryID int64, si domain.ScheduleItem) error {
	res, err := r.db.ExecContext(ctx, updateScheduleItemSQL, si.Description, si.Location, si.StartTime.UTC(), si.EndTime.UTC(), si.ID, itineraryID)
	return affected(res, err, "schedule item", si.ID)
}

func (r *Repo) DeleteScheduleItem(ctx context.Context, itineraryID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, deleteScheduleItemSQL, itemID, itineraryID)
	return affected(res, err, "schedule item", itemID)
}

func (r *Repo) scheduleItems(ctx context.Context, itineraryID int64) ([]domain.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx, listScheduleItemsSQL, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.ScheduleItem{}
	for rows.Next() {
		var si domain.ScheduleItem
		if err := rows.Scan(&si.ID, &si.Description, &si.Location, &si.StartTime, &si.EndTime); err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// ---- room items ----

func (r *Repo) AddRoomItem(ctx context.Context, itineraryID int64, ri domain.RoomItem) (domain.RoomItem, error) {
	res, err := r.db.ExecContext(ctx, insertRoomItemSQL,
		itineraryID,
		ri.Room.ID,
		ri.Room.RoomType,
		ri.Room.BasePrice,
		ri.Room.RoomCapacity,
		ri.Room.Hotel.ID,
		ri.Room.Hotel.Name,
		ri.Room.Hotel.City,
		valDate(ri.StartDate),
		valDate(ri.EndDate),
		ri.IsPaid,
	)
	if err != nil {
		return domain.RoomItem{}, err
	}
	ri.ID, err = res.LastInsertId()
	return ri, err
}

func scanRoomItem(s rowScanner) (int64, domain.RoomItem, error) {
	var (
		ri         domain.RoomItem
		itID       int64
		start, end sql.NullTime
	)
	err := s.Scan(&ri.ID, &itID, &ri.Room.ID, &ri.Room.RoomType, &ri.Room.BasePrice, &ri.Room.RoomCapacity,
		&ri.Room.Hotel.ID, &ri.Room.Hotel.Name, &ri.Room.Hotel.City, &start, &end, &ri.IsPaid)
	ri.StartDate, ri.EndDate = dateOf(start), dateOf(end)
	return itID, ri, err
}

func (r *Repo) roomItems(ctx context.Context, itineraryID int64) ([]domain.RoomItem, error) {
	rows, err := r.db.QueryContext(ctx, listRoomItemsSQL, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.RoomItem{}
	for rows.Next() {
		_, ri, err := scanRoomItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ri)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoomItem(ctx context.Context, itemID int64) (int64, domain.RoomItem, error) {
	itID, ri, err := scanRoomItem(r.db.QueryRowContext(ctx, getRoomItemSQL, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.RoomItem{}, notFound("room item", itemID)
	}
	return itID, ri, err
}

func (r *Repo) DeleteRoomItem(ctx context.Context, itineraryID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, deleteRoomItemSQL, itemID, itineraryID)
	return affected(res, err, "room item", itemID)
}

func (r *Repo) MarkRoomItemPaid(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, markRoomItemPaidSQL, itemID)
	return affected(res, err, "room item", itemID)
}

// ---- rides ----

func (r *Repo) AddRide(ctx context.Context, itineraryID int64, rb domain.RideBooking) (domain.RideBooking, error) {
	res, err := r.db.ExecContext(ctx, insertRideSQL,
		itineraryID, rb.PickupLocation, rb.DropoffLocation, rb.PickupDateTime.UTC(), string(rb.Status), rb.Price)
	if err != nil {
		return domain.RideBooking{}, err
	}
	rb.ID, err = res.LastInsertId()
	return rb, err
}

func (r *Repo) rides(ctx context.Context, query string, args ...any) ([]domain.RideRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.RideRecord
	for rows.Next() {
		var (
			rec      domain.RideRecord
			status   string
			driverID sql.NullInt64
			pickup   time.Time
		)
		if err := rows.Scan(&rec.Ride.ID, &rec.ItineraryID, &rec.CustomerID, &rec.Ride.PickupLocation,
			&rec.Ride.DropoffLocation, &pickup, &status, &rec.Ride.Price, &driverID,
			&rec.Ride.DriverName, &rec.Ride.IsReviewed); err != nil {
			return nil, err
		}
		rec.Ride.PickupDateTime = pickup
		rec.Ride.Status = domain.RideStatus(status)
		rec.Ride.DriverID = driverID.Int64
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) ListRides(ctx context.Context) ([]domain.RideRecord, error) {
	return r.rides(ctx, listRidesSQL)
}

func (r *Repo) SetRideStatus(ctx context.Context, itineraryID, rideID int64, status domain.RideStatus) error {
	res, err := r.db.ExecContext(ctx, setRideStatusSQL, string(status), rideID, itineraryID)
	return affected(res, err, "ride", rideID)
}

func (r *Repo) AssignRide(ctx context.Context, rideID, driverID int64, driverName string) error {
	res, err := r.db.ExecContext(ctx, assignRideSQL, driverID, driverName, rideID)
	return affected(res, err, "ride", rideID)
}

func (r *Repo) MarkRideReviewed(ctx context.Context, rideID int64) error {
	res, err := r.db.ExecContext(ctx, markRideReviewedSQL, rideID)
	return affected(res, err, "ride", rideID)
}
