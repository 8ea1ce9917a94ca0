package api

import (
	"context"
	"net/http"

	"tripdesk/internal/domain"
)

type AuthClient struct{ c *Client }

func (a *AuthClient) SignUp(ctx context.Context, in domain.SignUpInput) (domain.Profile, error) {
	var out domain.Profile
	return out, a.c.do(ctx, call{
		service: "auth", route: "/auth/signup",
		method: http.MethodPost, path: "/auth/signup",
		body: in, out: &out,
	})
}

// SignIn posts the credentials; on success the backend sets the session cookie.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (domain.SignInResult, error) {
	var out domain.SignInResult
	body := map[string]string{"email": email, "password": password}
	return out, a.c.do(ctx, call{
		service: "auth", route: "/auth/signin",
		method: http.MethodPost, path: "/auth/signin",
		body: body, out: &out,
	})
}

func (a *AuthClient) SignOut(ctx context.Context) error {
	return a.c.do(ctx, call{
		service: "auth", route: "/auth/signout",
		method: http.MethodGet, path: "/auth/signout",
	})
}
