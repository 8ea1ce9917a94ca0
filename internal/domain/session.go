package domain

import (
	"fmt"
	"strings"
)

type UserType string

const (
	UserAdmin    UserType = "admin"
	UserHotel    UserType = "hotel"
	UserCustomer UserType = "customer"
	UserDriver   UserType = "driver"
)

func ParseUserType(s string) (UserType, error) {
	switch t := UserType(strings.ToLower(strings.TrimSpace(s))); t {
	case UserAdmin, UserHotel, UserCustomer, UserDriver:
		return t, nil
	}
	return "", Invalid("user_type", fmt.Sprintf("unknown user type %q", s))
}

// Session is the signed-in identity the client acts as.
type Session struct {
	UserID          int64    `json:"user_id"`
	UserName        string   `json:"user_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	UserType        UserType `json:"user_type"`
	IsAuthenticated bool     `json:"is_authenticated"`
}

func AnonymousSession() Session { return Session{} }

// SignInResult is the body returned by POST /auth/signin.
type SignInResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	UserType string `json:"userType"`
}

type SignUpInput struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
	UserType UserType `json:"user_type"`
}

func (in SignUpInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return Invalid("username", "Username is required")
	case !strings.Contains(in.Email, "@"):
		return Invalid("email", "A valid email is required")
	case len(in.Password) < 6:
		return Invalid("password", "Password must be at least 6 characters")
	}
	if _, err := ParseUserType(string(in.UserType)); err != nil {
		return err
	}
	return nil
}

type Profile struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	UserType UserType `json:"user_type"`
	Address  string   `json:"address,omitempty"`
}
