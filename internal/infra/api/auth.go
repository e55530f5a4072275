package api

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a token. A 401 here means bad credentials,
// so it is never answered with a refresh.
func (c *Client) SignIn(ctx context.Context, email, password string) (*entity.AuthResult, error) {
	return c.authenticate(ctx, "user/login", credentials{Email: email, Password: password})
}

// SignUp creates an account and signs it in.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*entity.AuthResult, error) {
	return c.authenticate(ctx, "user/sign-up", credentials{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body credentials) (*entity.AuthResult, error) {
	var payload authResponse
	if err := c.do(ctx, http.MethodPost, path, body, &payload, withoutRefresh()); err != nil {
		return nil, err
	}
	if payload.token() == "" {
		return nil, errors.Errorf("%s response carried no access token", path)
	}
	if err := c.tokens.Save(ctx, payload.token()); err != nil {
		return nil, errors.Wrap(err, "save token")
	}

	return payload.toEntity(), nil
}

// Profile returns the identity behind the current token.
func (c *Client) Profile(ctx context.Context) (*entity.Identity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "user/profile", nil, &raw); err != nil {
		return nil, err
	}

	// Some deployments wrap the user as {user: ...} or {data: ...}.
	var wrapped struct {
		User *userDTO `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User.toEntity(), nil
	}

	var user userDTO
	ok, err := decodeObject(raw, &user)
	if err != nil {
		return nil, errors.Wrap(err, "decode profile")
	}
	if !ok {
		return nil, errors.New("profile response carried no user")
	}

	return user.toEntity(), nil
}

// RefreshToken forces a refresh. It joins a refresh already in flight.
func (c *Client) RefreshToken(ctx context.Context) (*entity.AuthResult, error) {
	v, err, _ := c.refreshGroup.Do(refreshKey, func() (any, error) {
		return c.exchangeRefresh(ctx)
	})
	if err != nil {
		return nil, err
	}

	result := v.(*refreshed)
	if result.result == nil {
		return &entity.AuthResult{AccessToken: result.token}, nil
	}

	return result.result.toEntity(), nil
}

// SignOut invalidates the server-side session. Local state is the caller's concern.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/signout", nil, nil, withoutRefresh())
}

// VerifyEmail confirms an account with the emailed one-time code.
func (c *Client) VerifyEmail(ctx context.Context, email, otp string) error {
	body := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{Email: email, OTP: otp}

	return c.do(ctx, http.MethodPost, "user/verify-user-mail", body, nil)
}

// RequestNewOTP asks the store to email a fresh one-time code.
func (c *Client) RequestNewOTP(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}

	return c.do(ctx, http.MethodPost, "user/request-new-otp", body, nil)
}
