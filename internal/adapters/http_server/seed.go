package httpserver

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"tripdesk/internal/domain"
	"tripdesk/internal/storage/memory"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "tripdesk123"

// Seed loads a small demo catalog: three hotels with rooms and one account
// per role.
func Seed(ctx context.Context, c *memory.Catalog) error {
	hotels := []struct {
		h     domain.Hotel
		rooms []domain.Room
	}{
		{
			domain.Hotel{Name: "Casa Azul", City: "Lisbon", Address: "Rua das Flores 12", Stars: 4, Amenities: []string{"wifi", "breakfast"}},
			[]domain.Room{
				{RoomType: "Double", BasePrice: 95, RoomCapacity: 2},
				{RoomType: "Family Suite", BasePrice: 180, RoomCapacity: 4},
			},
		},
		{
			domain.Hotel{Name: "Alfama View", City: "Lisbon", Address: "Largo do Chafariz 3", Stars: 3, Amenities: []string{"wifi"}},
			[]domain.Room{
				{RoomType: "Single", BasePrice: 60, RoomCapacity: 1},
				{RoomType: "Twin", BasePrice: 85, RoomCapacity: 2},
			},
		},
		{
			domain.Hotel{Name: "Ribeira Lodge", City: "Porto", Address: "Cais da Ribeira 40", Stars: 4, Amenities: []string{"wifi", "parking"}},
			[]domain.Room{
				{RoomType: "Double", BasePrice: 110, RoomCapacity: 2},
				{RoomType: "Triple", BasePrice: 140, RoomCapacity: 3},
			},
		},
	}

	var firstHotel int64
	for _, x := range hotels {
		h, err := c.CreateHotel(ctx, x.h)
		if err != nil {
			return err
		}
		if firstHotel == 0 {
			firstHotel = h.ID
		}
		for _, r := range x.rooms {
			r.HotelID = h.ID
			if _, err := c.CreateRoom(ctx, r); err != nil {
				return err
			}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users := []memory.User{
		{Profile: domain.Profile{Username: "admin", Email: "admin@tripdesk.dev", UserType: domain.UserAdmin}},
		{Profile: domain.Profile{Username: "ana", Email: "ana@tripdesk.dev", Phone: "+351 910 000 001", UserType: domain.UserCustomer}},
		{Profile: domain.Profile{Username: "rui", Email: "rui@tripdesk.dev", Phone: "+351 910 000 002", UserType: domain.UserDriver}},
		{Profile: domain.Profile{Username: "casa-azul", Email: "casa@tripdesk.dev", UserType: domain.UserHotel}, HotelID: firstHotel},
	}
	for _, u := range users {
		u.PasswordHash = hash
		if _, err := c.CreateUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
