package domain

import (
	"strconv"
	"strings"
	"time"
)

// Card is what the payment form collects. It never leaves the client.
type Card struct {
	Holder string
	Number string
	Expiry string // MM/YY
	CVC    string
}

func (c Card) digits() string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, c.Number)
}

func (c Card) Last4() string {
	d := c.digits()
	if len(d) < 4 {
		return d
	}
	return d[len(d)-4:]
}

func (c Card) Validate(now time.Time) error {
	if strings.TrimSpace(c.Holder) == "" {
		return Invalid("card_holder", "Cardholder name is required")
	}
	num := c.digits()
	if len(num) < 12 || len(num) > 19 || !allDigits(num) || !luhn(num) {
		return Invalid("card_number", "Card number is invalid")
	}
	if len(c.CVC) < 3 || len(c.CVC) > 4 || !allDigits(c.CVC) {
		return Invalid("cvc", "CVC is invalid")
	}
	mm, yy, ok := strings.Cut(strings.TrimSpace(c.Expiry), "/")
	month, err1 := strconv.Atoi(mm)
	year, err2 := strconv.Atoi(yy)
	if !ok || err1 != nil || err2 != nil || month < 1 || month > 12 {
		return Invalid("expiry", "Expiry must be MM/YY")
	}
	if year < 100 {
		year += 2000
	}
	// valid through the last day of the expiry month
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(end) {
		return Invalid("expiry", "Card has expired")
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func luhn(num string) bool {
	sum := 0
	double := false
	for i := len(num) - 1; i >= 0; i-- {
		d := int(num[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
