package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"tripdesk/internal/domain"
	"tripdesk/internal/session"
)

var errUsage = errors.New("usage")

func run(ctx context.Context, e *env, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return e.signUp(ctx, args)
	case "signin":
		return e.signIn(ctx, args)
	case "signout":
		return e.auth.SignOut(ctx)
	case "whoami":
		return e.whoami(ctx)
	case "hotels":
		return e.hotels(ctx, args)
	case "rooms":
		return e.rooms(ctx, args)
	case "book":
		return e.book(ctx, args)
	case "bookings":
		return e.bookings(ctx)
	case "itinerary":
		return e.itinerary(ctx, args)
	case "driver":
		return e.driver(ctx, args)
	case "dashboard":
		return e.dashboard(ctx)
	case "admin":
		return e.admin(ctx, args)
	case "hotel":
		return e.hotel(ctx, args)
	case "cancel-booking":
		return e.cancelBooking(ctx, args)
	case "review":
		return e.review(ctx, args)
	case "delete-review":
		return e.deleteReview(ctx, args)
	case "profile":
		return e.profile(ctx, args)
	}
	return errUsage
}

func flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// ---- account ----

func (e *env) signUp(ctx context.Context, args []string) error {
	fs := flags("signup")
	var in domain.SignUpInput
	var role string
	fs.StringVar(&in.Username, "name", "", "display name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&role, "role", string(domain.UserCustomer), "customer, driver or hotel")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	in.UserType = domain.UserType(role)
	_, err := e.auth.SignUp(ctx, in)
	return err
}

func (e *env) signIn(ctx context.Context, args []string) error {
	fs := flags("signin")
	email := fs.String("email", "", "email")
	password := fs.String("password", os.Getenv("TRIPDESK_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	_, err := e.auth.SignIn(ctx, *email, *password)
	return err
}

func (e *env) whoami(ctx context.Context) error {
	s := e.holder.Current()
	if !s.IsAuthenticated {
		fmt.Println("anonymous")
		return nil
	}
	w := table()
	fmt.Fprintf(w, "ID\t%d\n", s.UserID)
	fmt.Fprintf(w, "NAME\t%s\n", s.UserName)
	fmt.Fprintf(w, "EMAIL\t%s\n", s.Email)
	fmt.Fprintf(w, "ROLE\t%s\n", s.UserType)
	if at, ok, _ := session.ReadExpiry(ctx, e.store); ok {
		fmt.Fprintf(w, "EXPIRES\t%s\n", at.Local().Format(time.RFC1123))
	}
	return w.Flush()
}

// ---- catalog ----

func (e *env) hotels(ctx context.Context, args []string) error {
	fs := flags("hotels")
	city := fs.String("city", "", "filter by city")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	hs, err := e.client.Customer().Hotels(ctx, *city)
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	printHotels(hs)
	return nil
}

func (e *env) rooms(ctx context.Context, args []string) error {
	fs := flags("rooms")
	hotel := fs.Int64("hotel", 0, "hotel id")
	if err := fs.Parse(args); err != nil || *hotel <= 0 {
		return errUsage
	}
	rs, err := e.client.Customer().HotelRooms(ctx, *hotel)
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	printRooms(rs)
	return nil
}

func (e *env) book(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(domain.UserCustomer); err != nil {
		return err
	}
	fs := flags("book")
	var in domain.BookingInput
	var from, to string
	fs.Int64Var(&in.RoomID, "room", 0, "room id")
	fs.StringVar(&from, "from", "", "check-in date YYYY-MM-DD")
	fs.StringVar(&to, "to", "", "check-out date YYYY-MM-DD")
	fs.IntVar(&in.Guests, "guests", 1, "guests")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	var err error
	if in.StartDate, in.EndDate, err = dates(from, to); err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	in.CustomerID = e.holder.Current().UserID
	if err := in.Validate(); err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	b, err := e.client.Customer().CreateBooking(ctx, in)
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	e.notify.Success(fmt.Sprintf("Booked %s at %s", b.RoomName, b.HotelName))
	printBookings([]domain.Booking{b})
	return nil
}

func (e *env) bookings(ctx context.Context) error {
	ov, err := e.dash.Customer(ctx)
	if err != nil {
		return err
	}
	if ov.BookingsErr != nil {
		return ov.BookingsErr
	}
	printBookings(ov.Bookings)
	return nil
}

// ---- dashboards ----

func (e *env) dashboard(ctx context.Context) error {
	switch e.holder.Current().UserType {
	case domain.UserDriver:
		ov, err := e.dash.Driver(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Accepted trips")
		printTrips(ov.Accepted)
		fmt.Println("\nPending requests")
		printTrips(ov.Pending)
		return nil
	case domain.UserCustomer:
		ov, err := e.dash.Customer(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Bookings")
		printBookings(ov.Bookings)
		fmt.Println("\nItineraries")
		printItineraries(ov.Itineraries)
		return nil
	}
	slots, err := e.dash.Admin(ctx)
	if err != nil {
		return err
	}
	w := table()
	for _, s := range slots {
		if s.Err != nil {
			fmt.Fprintf(w, "%s\t-\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", s.Name, strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	return w.Flush()
}

// ---- driver ----

func (e *env) driver(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if args[0] == "trips" {
		ov, err := e.dash.Driver(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Accepted trips")
		printTrips(ov.Accepted)
		fmt.Println("\nPending requests")
		printTrips(ov.Pending)
		return nil
	}
	if args[0] == "profile" {
		return e.driverProfile(ctx)
	}

	if err := e.holder.RequireRole(domain.UserDriver); err != nil {
		return err
	}
	fs := flags("driver " + args[0])
	ride := fs.Int64("ride", 0, "ride id")
	if err := fs.Parse(args[1:]); err != nil || *ride <= 0 {
		return errUsage
	}
	me := e.holder.Current().UserID
	dc := e.client.Driver()

	var err error
	var ok string
	switch args[0] {
	case "accept":
		err, ok = dc.AcceptRide(ctx, *ride, me), "Ride accepted"
	case "decline":
		err, ok = dc.DeclineRide(ctx, *ride, me), "Ride declined"
	case "complete":
		err, ok = dc.CompleteRide(ctx, *ride, me), "Ride completed"
	default:
		return errUsage
	}
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	e.notify.Success(ok)
	return nil
}

func dates(from, to string) (domain.Date, domain.Date, error) {
	start, err := domain.ParseDate(from)
	if err != nil {
		return domain.Date{}, domain.Date{}, domain.Invalid("start_date", "Start date must be YYYY-MM-DD")
	}
	end, err := domain.ParseDate(to)
	if err != nil {
		return domain.Date{}, domain.Date{}, domain.Invalid("end_date", "End date must be YYYY-MM-DD")
	}
	return start, end, nil
}
