package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/adapters/observability"
	"tripdesk/internal/domain"
	"tripdesk/internal/pricing"
)

var ErrPaymentAbandoned = errors.New("payment abandoned")

// PaymentPrompt describes the room item a card is being collected for.
type PaymentPrompt struct {
	Index  int // zero-based
	Total  int
	Item   domain.RoomItem
	Amount float64
}

// PaymentCollector shows the payment form. Returning an error abandons the
// whole acceptance.
type PaymentCollector interface {
	Collect(ctx context.Context, p PaymentPrompt) (domain.Card, error)
}

type PaymentProgress struct {
	Active  bool
	Current int
	Total   int
	Paid    []int64
}

func (o *ItineraryOrchestrator) PaymentProgress() PaymentProgress {
	o.mu.Lock()
	defer o.mu.Unlock()
	p := o.payment
	p.Paid = append([]int64(nil), p.Paid...)
	return p
}

// Accept walks the unpaid room items in order, collecting one card per
// item, then marks the itinerary accepted with a single status update.
// Cards are only checked locally. Abandoning re-fetches the itinerary so
// no local paid flag survives.
func (o *ItineraryOrchestrator) Accept(ctx context.Context, pc PaymentCollector) error {
	it, err := o.ensureLoaded(ctx)
	if err != nil {
		return err
	}
	switch {
	case it.Status == domain.ItineraryAccepted:
		err = domain.Invalid("status", "Itinerary is already accepted")
	case it.Status == domain.ItineraryCompleted:
		err = domain.Invalid("status", "Completed itineraries cannot be accepted")
	case len(it.RoomItems) == 0:
		err = domain.Invalid("room_items", "Add at least one room before accepting")
	}
	if err != nil {
		o.notify.Error(domain.Message(err))
		return err
	}

	unpaid := it.UnpaidRoomItems()
	o.mu.Lock()
	o.payment = PaymentProgress{Active: len(unpaid) > 0, Total: len(unpaid)}
	o.mu.Unlock()

	for i, item := range unpaid {
		o.mu.Lock()
		o.payment.Current = i
		o.mu.Unlock()

		card, err := pc.Collect(ctx, PaymentPrompt{Index: i, Total: len(unpaid), Item: item, Amount: pricing.PriceOf(item)})
		if err == nil {
			err = card.Validate(time.Now())
		}
		if err != nil {
			return o.abandon(ctx, err)
		}
		o.markPaid(item.ID)
		observability.ObservePayment("captured")
		log.Info().Int64("room_item_id", item.ID).Str("card", "*"+card.Last4()).Msg("mock payment captured")
		o.notify.Success(fmt.Sprintf("Payment %d of %d received for %s", i+1, len(unpaid), item.Room.Hotel.Name))
	}

	o.mu.Lock()
	o.payment = PaymentProgress{}
	o.mu.Unlock()

	return o.mutate(ctx, "accept itinerary", "Itinerary accepted", nil, func(ctx context.Context) error {
		if err := o.api.UpdateStatus(ctx, o.id, domain.ItineraryAccepted); err != nil {
			return err
		}
		observability.ObservePayment("accepted")
		return nil
	})
}

func (o *ItineraryOrchestrator) markPaid(itemID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// copy on write: earlier snapshots keep their own items
	o.it.RoomItems = append([]domain.RoomItem(nil), o.it.RoomItems...)
	for i := range o.it.RoomItems {
		if o.it.RoomItems[i].ID == itemID {
			o.it.RoomItems[i].IsPaid = true
		}
	}
	o.payment.Paid = append(o.payment.Paid, itemID)
}

func (o *ItineraryOrchestrator) abandon(ctx context.Context, cause error) error {
	o.mu.Lock()
	o.payment = PaymentProgress{}
	o.mu.Unlock()
	observability.ObservePayment("abandoned")

	if errors.Is(cause, domain.ErrValidation) {
		o.notify.Error(domain.Message(cause))
	} else {
		o.notify.Error("Payment cancelled")
	}
	if err := o.refresh(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Int64("itinerary_id", o.id).Msg("reload after abandoned payment failed")
	}
	return fmt.Errorf("%w: %w", ErrPaymentAbandoned, cause)
}
