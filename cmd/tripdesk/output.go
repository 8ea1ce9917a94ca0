package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"tripdesk/internal/app"
	"tripdesk/internal/domain"
	"tripdesk/internal/pricing"
)

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printHotels(hs []domain.Hotel) {
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tCITY\tRATING")
	for _, h := range hs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\n", h.ID, h.Name, h.City, h.Rating)
	}
	_ = w.Flush()
}

func printRooms(rs []domain.Room) {
	w := table()
	fmt.Fprintln(w, "ID\tHOTEL\tTYPE\tCAPACITY\tPRICE")
	for _, r := range rs {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%.2f\n", r.ID, r.HotelID, r.RoomType, r.RoomCapacity, r.BasePrice)
	}
	_ = w.Flush()
}

func printAvailable(rs []domain.AvailableRoom) {
	w := table()
	fmt.Fprintln(w, "ROOM\tHOTEL\tCITY\tTYPE\tCAPACITY\tPRICE\tFREE")
	for _, r := range rs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.2f\t%t\n",
			r.ID, r.Hotel.Name, r.Hotel.City, r.RoomType, r.RoomCapacity, r.BasePrice, r.Available)
	}
	_ = w.Flush()
}

func printBookings(bs []domain.Booking) {
	w := table()
	fmt.Fprintln(w, "ID\tHOTEL\tROOM\tFROM\tTO\tSTATUS\tTOTAL")
	for _, b := range bs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			b.ID, b.HotelName, b.RoomName, b.StartDate, b.EndDate, b.Status, b.TotalPrice)
	}
	_ = w.Flush()
}

func printDrivers(ds []domain.Driver) {
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tVEHICLE\tAVAILABLE")
	for _, d := range ds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s %s\t%t\n", d.ID, d.Name, d.Email, d.Phone, d.VehicleModel, d.VehiclePlate, d.Available)
	}
	_ = w.Flush()
}

func printReviews(rs []domain.Review) {
	w := table()
	fmt.Fprintln(w, "ID\tHOTEL\tAUTHOR\tRATING\tCOMMENT")
	for _, r := range rs {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n", r.ID, r.HotelID, r.Author, r.Rating, r.Comment)
	}
	_ = w.Flush()
}

func printProfile(p domain.Profile) {
	w := table()
	fmt.Fprintf(w, "ID\t%d\n", p.ID)
	fmt.Fprintf(w, "NAME\t%s\n", p.Username)
	fmt.Fprintf(w, "EMAIL\t%s\n", p.Email)
	fmt.Fprintf(w, "PHONE\t%s\n", p.Phone)
	fmt.Fprintf(w, "ROLE\t%s\n", p.UserType)
	if p.Address != "" {
		fmt.Fprintf(w, "ADDRESS\t%s\n", p.Address)
	}
	_ = w.Flush()
}

func printTrips(ts []domain.Trip) {
	w := table()
	fmt.Fprintln(w, "RIDE\tCUSTOMER\tFROM\tTO\tPICKUP\tSTATUS\tPRICE")
	for _, t := range ts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			t.ID, t.CustomerName, t.PickupLocation, t.DropoffLocation, t.PickupDateTime, t.Status, t.Price)
	}
	_ = w.Flush()
}

func printItineraries(its []domain.Itinerary) {
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tFROM\tTO\tPERSONS\tSTATUS")
	for _, it := range its {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", it.ID, it.Name, it.StartDate, it.EndDate, it.NumberOfPersons, it.Status)
	}
	_ = w.Flush()
}

func printItinerary(it domain.Itinerary, sum pricing.Breakdown) {
	fmt.Printf("%s (#%d)  %s to %s  %d persons  %s\n", it.Name, it.ID, it.StartDate, it.EndDate, it.NumberOfPersons, it.Status)
	if len(it.Destinations) > 0 {
		fmt.Printf("Destinations: %s\n", strings.Join(it.Destinations, ", "))
	}

	w := table()
	fmt.Fprintln(w, "\nROOM ITEM\tHOTEL\tROOM\tFROM\tTO\tPRICE\tPAID")
	for _, r := range it.RoomItems {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%t\n",
			r.ID, r.Room.Hotel.Name, r.Room.RoomType, r.StartDate, r.EndDate, pricing.PriceOf(r), r.IsPaid)
	}
	fmt.Fprintln(w, "\nACTIVITY\tWHAT\tWHERE\tSTART\tEND\t\t")
	for _, s := range it.ScheduleItems {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\t\n",
			s.ID, s.Description, s.Location, s.StartTime.Local().Format(clock), s.EndTime.Local().Format(clock))
	}
	fmt.Fprintln(w, "\nRIDE\tFROM\tTO\tPICKUP\tSTATUS\tPRICE\tDRIVER")
	for _, r := range it.RideBookings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			r.ID, r.PickupLocation, r.DropoffLocation, r.PickupDateTime.Local().Format(clock), r.Status, r.Price, r.DriverName)
	}
	_ = w.Flush()

	fmt.Printf("\nRooms %.2f  Rides %.2f  Driver %.2f  Total %.2f  Unpaid %.2f\n",
		sum.Rooms, sum.Rides, sum.DriverService, sum.Total, sum.Unpaid)
}

// prompter reads one card per room item from stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter() *prompter {
	return &prompter{in: bufio.NewReader(os.Stdin), out: os.Stderr}
}

func (p *prompter) Collect(ctx context.Context, pp app.PaymentPrompt) (domain.Card, error) {
	fmt.Fprintf(p.out, "\nPayment %d of %d: %s, %s (%s to %s)  %.2f\n",
		pp.Index+1, pp.Total, pp.Item.Room.Hotel.Name, pp.Item.Room.RoomType, pp.Item.StartDate, pp.Item.EndDate, pp.Amount)
	var c domain.Card
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Cardholder", &c.Holder},
		{"Card number", &c.Number},
		{"Expiry (MM/YY)", &c.Expiry},
		{"CVC", &c.CVC},
	} {
		if err := ctx.Err(); err != nil {
			return domain.Card{}, err
		}
		fmt.Fprintf(p.out, "%s: ", f.label)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			// EOF closes the form
			return domain.Card{}, fmt.Errorf("payment form closed: %w", err)
		}
		*f.dst = strings.TrimSpace(line)
	}
	return c, nil
}

// fixedCard pays every item with the card given on the command line.
type fixedCard domain.Card

func (c fixedCard) Collect(context.Context, app.PaymentPrompt) (domain.Card, error) {
	return domain.Card(c), nil
}
