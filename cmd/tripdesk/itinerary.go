package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"tripdesk/internal/app"
	"tripdesk/internal/domain"
)

const clock = "2006-01-02 15:04"

func (e *env) itinerary(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := e.holder.RequireRole(domain.UserCustomer, domain.UserAdmin); err != nil {
		return err
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		return e.listItineraries(ctx)
	case "create":
		return e.createItinerary(ctx, args)
	}

	fs := flags("itinerary " + sub)
	id := fs.Int64("id", 0, "itinerary id")
	act, ok := itineraryActions[sub]
	if !ok {
		return errUsage
	}
	bind := act(fs)
	if err := fs.Parse(args); err != nil || *id <= 0 {
		return errUsage
	}

	o := e.orchestrator(*id)
	if err := o.Load(ctx); err != nil {
		return err
	}
	return bind(ctx, e, o)
}

// an action declares its flags and returns the step that runs once they are parsed
type action func(fs *pflag.FlagSet) func(ctx context.Context, e *env, o *app.ItineraryOrchestrator) error

var itineraryActions = map[string]action{
	"show": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		return func(_ context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			printItinerary(o.Itinerary(), o.Summary())
			return nil
		}
	},
	"delete": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.Delete(ctx)
		}
	},
	"update": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		name := fs.String("name", "", "new name")
		persons := fs.Int("persons", 0, "number of persons")
		from := fs.String("from", "", "start date YYYY-MM-DD")
		to := fs.String("to", "", "end date YYYY-MM-DD")
		return func(ctx context.Context, e *env, o *app.ItineraryOrchestrator) error {
			cur := o.Itinerary()
			in := domain.ItineraryInput{Name: cur.Name, NumberOfPersons: cur.NumberOfPersons, StartDate: cur.StartDate, EndDate: cur.EndDate}
			if *name != "" {
				in.Name = *name
			}
			if *persons > 0 {
				in.NumberOfPersons = *persons
			}
			if *from != "" || *to != "" {
				s, en, err := dates(or(*from, cur.StartDate.String()), or(*to, cur.EndDate.String()))
				if err != nil {
					e.notify.Error(domain.Message(err))
					return err
				}
				in.StartDate, in.EndDate = s, en
			}
			return o.UpdateDetails(ctx, in)
		}
	},
	"add-activity": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		desc := fs.String("desc", "", "what")
		loc := fs.String("location", "", "where")
		start := fs.String("start", "", "start, "+clock)
		end := fs.String("end", "", "end, "+clock)
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			in := domain.ScheduleItemInput{Description: *desc, Location: *loc}
			in.StartTime, _ = time.ParseInLocation(clock, *start, time.Local)
			in.EndTime, _ = time.ParseInLocation(clock, *end, time.Local)
			return o.AddActivity(ctx, in)
		}
	},
	"remove-activity": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		item := fs.Int64("item", 0, "schedule item id")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.RemoveActivity(ctx, *item)
		}
	},
	"add-room": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		room := fs.Int64("room", 0, "room id")
		from := fs.String("from", "", "check-in YYYY-MM-DD (defaults to the itinerary start)")
		to := fs.String("to", "", "check-out YYYY-MM-DD (defaults to the itinerary end)")
		return func(ctx context.Context, e *env, o *app.ItineraryOrchestrator) error {
			it := o.Itinerary()
			s, en, err := dates(or(*from, it.StartDate.String()), or(*to, it.EndDate.String()))
			if err != nil {
				e.notify.Error(domain.Message(err))
				return err
			}
			return o.AddRoom(ctx, domain.RoomItemInput{RoomID: *room, StartDate: s, EndDate: en})
		}
	},
	"remove-room": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		item := fs.Int64("item", 0, "room item id")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.RemoveRoom(ctx, *item)
		}
	},
	"book-room": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		item := fs.Int64("item", 0, "room item id")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.BookRoom(ctx, *item)
		}
	},
	"add-ride": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		pickup := fs.String("pickup", "", "pickup location")
		dropoff := fs.String("dropoff", "", "drop-off location")
		at := fs.String("at", "", "pickup time, "+clock)
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			in := domain.RideInput{PickupLocation: *pickup, DropoffLocation: *dropoff}
			in.PickupDateTime, _ = time.ParseInLocation(clock, *at, time.Local)
			return o.AddRide(ctx, in)
		}
	},
	"cancel-ride": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		ride := fs.Int64("ride", 0, "ride id")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.CancelRide(ctx, *ride)
		}
	},
	"review-ride": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		ride := fs.Int64("ride", 0, "ride id")
		rating := fs.Int("rating", 0, "1 to 5")
		comment := fs.String("comment", "", "comment")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.ReviewRide(ctx, *ride, domain.RideReviewInput{Rating: *rating, Comment: *comment})
		}
	},
	"driver-service": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		on := fs.Bool("on", true, "request a driver for the whole trip")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.SetDriverService(ctx, *on)
		}
	},
	"review-hotel": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		hotel := fs.Int64("hotel", 0, "hotel id")
		rating := fs.Int("rating", 0, "1 to 5")
		comment := fs.String("comment", "", "comment")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			return o.ReviewHotel(ctx, *hotel, *rating, *comment)
		}
	},
	"available": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		city := fs.String("city", "", "city")
		from := fs.String("from", "", "YYYY-MM-DD")
		to := fs.String("to", "", "YYYY-MM-DD")
		persons := fs.Int("persons", 0, "party size")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			q := domain.AvailableRoomsQuery{City: *city, Persons: *persons}
			q.StartDate, _ = domain.ParseDate(*from)
			q.EndDate, _ = domain.ParseDate(*to)
			rooms, err := o.AvailableRooms(ctx, q)
			if err != nil {
				return err
			}
			printAvailable(rooms)
			return nil
		}
	},
	"room": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		room := fs.Int64("room", 0, "room id")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			r, err := o.RoomDetails(ctx, *room)
			if err != nil {
				return err
			}
			printRooms([]domain.Room{r})
			return nil
		}
	},
	"accept": func(fs *pflag.FlagSet) func(context.Context, *env, *app.ItineraryOrchestrator) error {
		var card domain.Card
		fs.StringVar(&card.Holder, "card-holder", "", "cardholder name")
		fs.StringVar(&card.Number, "card-number", "", "card number")
		fs.StringVar(&card.Expiry, "card-expiry", "", "MM/YY")
		fs.StringVar(&card.CVC, "card-cvc", "", "security code")
		return func(ctx context.Context, _ *env, o *app.ItineraryOrchestrator) error {
			var pc app.PaymentCollector = newPrompter()
			if card.Number != "" {
				pc = fixedCard(card)
			}
			return o.Accept(ctx, pc)
		}
	},
}

func (e *env) listItineraries(ctx context.Context) error {
	its, err := e.client.Itinerary().List(ctx, e.holder.Current().UserID)
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	printItineraries(its)
	return nil
}

func (e *env) createItinerary(ctx context.Context, args []string) error {
	fs := flags("itinerary create")
	var in domain.ItineraryInput
	var from, to string
	fs.StringVar(&in.Name, "name", "", "trip name")
	fs.IntVar(&in.NumberOfPersons, "persons", 1, "number of persons")
	fs.StringVar(&from, "from", "", "start date YYYY-MM-DD")
	fs.StringVar(&to, "to", "", "end date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	var err error
	if in.StartDate, in.EndDate, err = dates(from, to); err == nil {
		err = in.Validate()
	}
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	in.CustomerID = e.holder.Current().UserID
	it, err := e.client.Itinerary().Create(ctx, in)
	if err != nil {
		e.notify.Error(domain.Message(err))
		return err
	}
	e.notify.Success(fmt.Sprintf("Itinerary %q created", it.Name))
	fmt.Println(it.ID)
	return nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
