package app_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"tripdesk/internal/app"
	"tripdesk/internal/domain"
)

type scriptedCards struct {
	card    domain.Card
	failAt  int
	prompts []app.PaymentPrompt
}

func (c *scriptedCards) Collect(ctx context.Context, p app.PaymentPrompt) (domain.Card, error) {
	c.prompts = append(c.prompts, p)
	if p.Index == c.failAt {
		return domain.Card{}, context.Canceled
	}
	return c.card, nil
}

func validCard() domain.Card {
	return domain.Card{Holder: "Ana Silva", Number: "4242424242424242", Expiry: "12/99", CVC: "123"}
}

func TestAccept_PromptsPerUnpaidItemThenOneStatusUpdate(t *testing.T) {
	f := &fakeItineraries{it: sampleItinerary()}
	f.it.RoomItems[1].IsPaid = true
	f.it.RoomItems = append(f.it.RoomItems, domain.RoomItem{ID: 13, Room: domain.RoomRef{BasePrice: 80},
		StartDate: domain.NewDate(2026, 5, 1), EndDate: domain.NewDate(2026, 5, 2)})
	o, _ := newOrchestrator(t, f, domain.UserCustomer)

	pc := &scriptedCards{card: validCard(), failAt: -1}
	if err := o.Accept(context.Background(), pc); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if len(pc.prompts) != 2 || pc.prompts[0].Item.ID != 11 || pc.prompts[1].Item.ID != 13 {
		t.Fatalf("prompts=%+v", pc.prompts)
	}
	if pc.prompts[0].Amount != 200 || pc.prompts[1].Amount != 80 || pc.prompts[1].Total != 2 {
		t.Fatalf("amounts=%+v", pc.prompts)
	}
	if !slices.Equal(f.statuses, []domain.ItineraryStatus{domain.ItineraryAccepted}) {
		t.Fatalf("statuses=%v", f.statuses)
	}
	if got := f.callNames(); !slices.Equal(got, []string{"Get", "UpdateStatus", "Get"}) {
		t.Fatalf("calls=%v", got)
	}
	if o.Itinerary().Status != domain.ItineraryAccepted {
		t.Fatalf("status=%s", o.Itinerary().Status)
	}
	if o.PaymentProgress().Active {
		t.Fatal("payment still active")
	}
}

func TestAccept_AbandonRefetchesAndSkipsStatus(t *testing.T) {
	f := &fakeItineraries{it: sampleItinerary()}
	o, toasts := newOrchestrator(t, f, domain.UserCustomer)

	pc := &scriptedCards{card: validCard(), failAt: 1}
	err := o.Accept(context.Background(), pc)
	if !errors.Is(err, app.ErrPaymentAbandoned) {
		t.Fatalf("want abandoned, got %v", err)
	}
	if len(f.statuses) != 0 {
		t.Fatalf("status updated: %v", f.statuses)
	}
	// first item was marked paid locally; the re-fetch must drop that
	for _, r := range o.Itinerary().RoomItems {
		if r.IsPaid {
			t.Fatalf("room %d still marked paid", r.ID)
		}
	}
	if f.gets != 2 {
		t.Fatalf("gets=%d", f.gets)
	}
	if !slices.Contains(toasts.Errors, "Payment cancelled") {
		t.Fatalf("toasts=%+v", toasts)
	}
}

func TestAccept_EarlierSnapshotsStayUnpaid(t *testing.T) {
	f := &fakeItineraries{it: sampleItinerary()}
	o, _ := newOrchestrator(t, f, domain.UserCustomer)
	snap := o.Itinerary()

	err := o.Accept(context.Background(), &scriptedCards{card: validCard(), failAt: 1})
	if !errors.Is(err, app.ErrPaymentAbandoned) {
		t.Fatalf("want abandoned, got %v", err)
	}
	for _, r := range snap.RoomItems {
		if r.IsPaid {
			t.Fatalf("snapshot taken before accept shows room %d paid", r.ID)
		}
	}

	// mutating a returned copy never reaches the orchestrator
	cur := o.Itinerary()
	cur.RoomItems[0].IsPaid = true
	cur.RideBookings[0].Status = domain.RideCancelled
	if again := o.Itinerary(); again.RoomItems[0].IsPaid || again.RideBookings[0].Status == domain.RideCancelled {
		t.Fatal("returned itinerary aliases orchestrator state")
	}
}

func TestAccept_InvalidCardAbandons(t *testing.T) {
	f := &fakeItineraries{it: sampleItinerary()}
	o, toasts := newOrchestrator(t, f, domain.UserCustomer)

	bad := validCard()
	bad.Number = "4242424242424241"
	err := o.Accept(context.Background(), &scriptedCards{card: bad, failAt: -1})
	if !errors.Is(err, domain.ErrValidation) || !errors.Is(err, app.ErrPaymentAbandoned) {
		t.Fatalf("got %v", err)
	}
	if !slices.Contains(toasts.Errors, "Card number is invalid") {
		t.Fatalf("toasts=%+v", toasts)
	}
}

func TestAccept_Preconditions(t *testing.T) {
	f := &fakeItineraries{it: sampleItinerary()}
	f.it.Status = domain.ItineraryAccepted
	o, _ := newOrchestrator(t, f, domain.UserCustomer)
	if err := o.Accept(context.Background(), &scriptedCards{failAt: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("accepted twice: %v", err)
	}

	f2 := &fakeItineraries{it: sampleItinerary()}
	f2.it.RoomItems = nil
	o2, _ := newOrchestrator(t, f2, domain.UserCustomer)
	if err := o2.Accept(context.Background(), &scriptedCards{failAt: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("accept without rooms: %v", err)
	}
}
