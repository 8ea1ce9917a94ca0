package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"tripdesk/internal/domain"
)

// every signed-in role may manage its own profile
var anyRole = []domain.UserType{domain.UserAdmin, domain.UserHotel, domain.UserCustomer, domain.UserDriver}

// fail toasts err and hands it back.
func (e *env) fail(err error) error {
	e.notify.Error(domain.Message(err))
	return err
}

// crud splits "<resource> [list|create|update|delete] flags..." into the verb and the rest.
func crud(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}

// ---- admin ----

func (e *env) admin(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(domain.UserAdmin); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsage
	}
	ac := e.client.Admin()
	switch args[0] {
	case "drivers":
		return e.adminDrivers(ctx, args[1:])
	case "hotels":
		return e.adminHotels(ctx, args[1:])
	case "rooms":
		rs, err := ac.Rooms(ctx)
		if err != nil {
			return e.fail(err)
		}
		printRooms(rs)
		return nil
	case "bookings":
		bs, err := ac.Bookings(ctx)
		if err != nil {
			return e.fail(err)
		}
		printBookings(bs)
		return nil
	}
	return errUsage
}

func driverFlags(fs *pflag.FlagSet, d *domain.Driver) {
	fs.StringVar(&d.Name, "name", d.Name, "driver name")
	fs.StringVar(&d.Email, "email", d.Email, "email")
	fs.StringVar(&d.Phone, "phone", d.Phone, "phone")
	fs.StringVar(&d.LicenseNumber, "license", d.LicenseNumber, "license number")
	fs.StringVar(&d.VehicleModel, "vehicle", d.VehicleModel, "vehicle model")
	fs.StringVar(&d.VehiclePlate, "plate", d.VehiclePlate, "vehicle plate")
	fs.BoolVar(&d.Available, "available", d.Available, "accepting rides")
}

func (e *env) adminDrivers(ctx context.Context, args []string) error {
	ac := e.client.Admin()
	verb, rest := crud(args)
	fs := flags("admin drivers " + verb)
	id := fs.Int64("id", 0, "driver id")

	switch verb {
	case "list":
		ds, err := ac.Drivers(ctx)
		if err != nil {
			return e.fail(err)
		}
		printDrivers(ds)
		return nil

	case "create":
		var d domain.Driver
		driverFlags(fs, &d)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := d.Validate(); err != nil {
			return e.fail(err)
		}
		out, err := ac.CreateDriver(ctx, d)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success(fmt.Sprintf("Driver %s added", out.Name))
		printDrivers([]domain.Driver{out})
		return nil

	case "update":
		// flags left unset keep the stored values
		if err := fs.Parse(idOnly(rest)); err != nil || *id <= 0 {
			return errUsage
		}
		ds, err := ac.Drivers(ctx)
		if err != nil {
			return e.fail(err)
		}
		d, ok := find(ds, func(d domain.Driver) bool { return d.ID == *id })
		if !ok {
			return e.fail(domain.Invalid("id", fmt.Sprintf("Driver %d not found", *id)))
		}
		fs = flags("admin drivers update")
		fs.Int64("id", *id, "driver id")
		driverFlags(fs, &d)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := d.Validate(); err != nil {
			return e.fail(err)
		}
		out, err := ac.UpdateDriver(ctx, d)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success(fmt.Sprintf("Driver %s updated", out.Name))
		return nil

	case "delete":
		if err := fs.Parse(rest); err != nil || *id <= 0 {
			return errUsage
		}
		if err := ac.DeleteDriver(ctx, *id); err != nil {
			return e.fail(err)
		}
		e.notify.Success("Driver removed")
		return nil
	}
	return errUsage
}

func hotelFlags(fs *pflag.FlagSet, h *domain.Hotel) {
	fs.StringVar(&h.Name, "name", h.Name, "hotel name")
	fs.StringVar(&h.City, "city", h.City, "city")
	fs.StringVar(&h.Address, "address", h.Address, "street address")
	fs.StringVar(&h.Description, "description", h.Description, "description")
	fs.IntVar(&h.Stars, "stars", h.Stars, "stars")
	fs.StringSliceVar(&h.Amenities, "amenity", h.Amenities, "amenity, repeatable")
}

func (e *env) adminHotels(ctx context.Context, args []string) error {
	ac := e.client.Admin()
	verb, rest := crud(args)
	fs := flags("admin hotels " + verb)
	id := fs.Int64("id", 0, "hotel id")

	switch verb {
	case "list":
		hs, err := ac.Hotels(ctx)
		if err != nil {
			return e.fail(err)
		}
		printHotels(hs)
		return nil

	case "create":
		var h domain.Hotel
		hotelFlags(fs, &h)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := h.Validate(); err != nil {
			return e.fail(err)
		}
		out, err := ac.CreateHotel(ctx, h)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success(fmt.Sprintf("Hotel %s added", out.Name))
		printHotels([]domain.Hotel{out})
		return nil

	case "update":
		if err := fs.Parse(idOnly(rest)); err != nil || *id <= 0 {
			return errUsage
		}
		hs, err := ac.Hotels(ctx)
		if err != nil {
			return e.fail(err)
		}
		h, ok := find(hs, func(h domain.Hotel) bool { return h.ID == *id })
		if !ok {
			return e.fail(domain.Invalid("id", fmt.Sprintf("Hotel %d not found", *id)))
		}
		fs = flags("admin hotels update")
		fs.Int64("id", *id, "hotel id")
		hotelFlags(fs, &h)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := h.Validate(); err != nil {
			return e.fail(err)
		}
		out, err := ac.UpdateHotel(ctx, h)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success(fmt.Sprintf("Hotel %s updated", out.Name))
		return nil

	case "delete":
		if err := fs.Parse(rest); err != nil || *id <= 0 {
			return errUsage
		}
		if err := ac.DeleteHotel(ctx, *id); err != nil {
			return e.fail(err)
		}
		e.notify.Success("Hotel removed")
		return nil
	}
	return errUsage
}

// ---- hotel back office ----

func roomFlags(fs *pflag.FlagSet, r *domain.Room) {
	fs.StringVar(&r.RoomType, "type", r.RoomType, "room type")
	fs.Float64Var(&r.BasePrice, "price", r.BasePrice, "nightly base price")
	fs.IntVar(&r.RoomCapacity, "capacity", r.RoomCapacity, "guests")
	fs.StringVar(&r.Description, "description", r.Description, "description")
}

func (e *env) hotel(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(domain.UserHotel, domain.UserAdmin); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsage
	}
	hc := e.client.Hotel()

	if args[0] != "rooms" {
		fs := flags("hotel " + args[0])
		hotelID := fs.Int64("hotel", 0, "hotel id")
		if err := fs.Parse(args[1:]); err != nil || *hotelID <= 0 {
			return errUsage
		}
		switch args[0] {
		case "bookings":
			bs, err := hc.Bookings(ctx, *hotelID)
			if err != nil {
				return e.fail(err)
			}
			printBookings(bs)
			return nil
		case "reviews":
			rs, err := hc.Reviews(ctx, *hotelID)
			if err != nil {
				return e.fail(err)
			}
			printReviews(rs)
			return nil
		}
		return errUsage
	}

	verb, rest := crud(args[1:])
	fs := flags("hotel rooms " + verb)
	hotelID := fs.Int64("hotel", 0, "hotel id")
	id := fs.Int64("id", 0, "room id")

	switch verb {
	case "list":
		if err := fs.Parse(rest); err != nil || *hotelID <= 0 {
			return errUsage
		}
		rs, err := hc.Rooms(ctx, *hotelID)
		if err != nil {
			return e.fail(err)
		}
		printRooms(rs)
		return nil

	case "create":
		var r domain.Room
		roomFlags(fs, &r)
		if err := fs.Parse(rest); err != nil || *hotelID <= 0 {
			return errUsage
		}
		r.HotelID = *hotelID
		if err := r.Validate(); err != nil {
			return e.fail(err)
		}
		out, err := hc.CreateRoom(ctx, *hotelID, r)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success(fmt.Sprintf("Room %s added", out.RoomType))
		printRooms([]domain.Room{out})
		return nil

	case "update":
		if err := fs.Parse(idOnly(rest, "--hotel")); err != nil || *hotelID <= 0 || *id <= 0 {
			return errUsage
		}
		rs, err := hc.Rooms(ctx, *hotelID)
		if err != nil {
			return e.fail(err)
		}
		r, ok := find(rs, func(r domain.Room) bool { return r.ID == *id })
		if !ok {
			return e.fail(domain.Invalid("id", fmt.Sprintf("Room %d not found", *id)))
		}
		fs = flags("hotel rooms update")
		fs.Int64("hotel", *hotelID, "hotel id")
		fs.Int64("id", *id, "room id")
		roomFlags(fs, &r)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := r.Validate(); err != nil {
			return e.fail(err)
		}
		out, err := hc.UpdateRoom(ctx, r)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success(fmt.Sprintf("Room %s updated", out.RoomType))
		return nil

	case "delete":
		if err := fs.Parse(rest); err != nil || *id <= 0 {
			return errUsage
		}
		if err := hc.DeleteRoom(ctx, *id); err != nil {
			return e.fail(err)
		}
		e.notify.Success("Room removed")
		return nil
	}
	return errUsage
}

// ---- customer account ----

func (e *env) cancelBooking(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(domain.UserCustomer); err != nil {
		return err
	}
	fs := flags("cancel-booking")
	id := fs.Int64("id", 0, "booking id")
	if err := fs.Parse(args); err != nil || *id <= 0 {
		return errUsage
	}
	if err := e.client.Customer().CancelBooking(ctx, *id); err != nil {
		return e.fail(err)
	}
	e.notify.Success("Booking cancelled")
	return nil
}

func (e *env) review(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(domain.UserCustomer); err != nil {
		return err
	}
	fs := flags("review")
	var r domain.Review
	fs.Int64Var(&r.HotelID, "hotel", 0, "hotel id")
	fs.IntVar(&r.Rating, "rating", 0, "1 to 5")
	fs.StringVar(&r.Comment, "comment", "", "comment")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	s := e.holder.Current()
	r.CustomerID, r.Author = s.UserID, s.UserName
	if err := r.Validate(); err != nil {
		return e.fail(err)
	}
	out, err := e.client.Customer().CreateReview(ctx, r)
	if err != nil {
		return e.fail(err)
	}
	e.notify.Success("Thanks for your review")
	printReviews([]domain.Review{out})
	return nil
}

func (e *env) deleteReview(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(domain.UserCustomer); err != nil {
		return err
	}
	fs := flags("delete-review")
	id := fs.Int64("id", 0, "review id")
	if err := fs.Parse(args); err != nil || *id <= 0 {
		return errUsage
	}
	if err := e.client.Customer().DeleteReview(ctx, *id); err != nil {
		return e.fail(err)
	}
	e.notify.Success("Review removed")
	return nil
}

func (e *env) profile(ctx context.Context, args []string) error {
	if err := e.holder.RequireRole(anyRole...); err != nil {
		return err
	}
	verb := "show"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		verb, args = args[0], args[1:]
	}
	cc := e.client.Customer()
	p, err := cc.Profile(ctx, e.holder.Current().UserID)
	if err != nil {
		return e.fail(err)
	}
	switch verb {
	case "show":
		printProfile(p)
		return nil
	case "update":
		fs := flags("profile update")
		fs.StringVar(&p.Username, "name", p.Username, "display name")
		fs.StringVar(&p.Email, "email", p.Email, "email")
		fs.StringVar(&p.Phone, "phone", p.Phone, "phone")
		fs.StringVar(&p.Address, "address", p.Address, "address")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		out, err := cc.UpdateProfile(ctx, p)
		if err != nil {
			return e.fail(err)
		}
		e.notify.Success("Profile saved")
		printProfile(out)
		return nil
	}
	return errUsage
}

func (e *env) driverProfile(ctx context.Context) error {
	if err := e.holder.RequireRole(domain.UserDriver); err != nil {
		return err
	}
	d, err := e.client.Driver().Profile(ctx, e.holder.Current().UserID)
	if err != nil {
		return e.fail(err)
	}
	printDrivers([]domain.Driver{d})
	return nil
}

// idOnly keeps the --id flag (plus any named keys) so the record can be
// fetched before the remaining flags are applied over it.
func idOnly(args []string, keys ...string) []string {
	keep := map[string]bool{"--id": true}
	for _, k := range keys {
		keep[k] = true
	}
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		name := a
		if j := strings.IndexByte(a, '='); j >= 0 {
			name = a[:j]
		}
		if !keep[name] {
			continue
		}
		out = append(out, a)
		if name == a && i+1 < len(args) {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

func find[T any](xs []T, match func(T) bool) (T, bool) {
	for _, x := range xs {
		if match(x) {
			return x, true
		}
	}
	var zero T
	return zero, false
}
