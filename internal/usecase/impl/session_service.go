// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var credentialMessages = validationMessages{
	"Name":     "please enter your name",
	"Email":    "please enter a valid email address",
	"Password": "please enter your password",
}

// SessionServiceParams holds dependencies for the session service, injected by Fx.
type SessionServiceParams struct {
	fx.In

	API       service.AuthAPI
	Tokens    service.TokenStore
	Inspector service.TokenInspector
	Logger    *slog.Logger
}

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	api       service.AuthAPI
	tokens    service.TokenStore
	inspector service.TokenInspector
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time

	mu       sync.RWMutex
	identity *entity.Identity

	listenersMu sync.Mutex
	listeners   []func(ctx context.Context, identity *entity.Identity)
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		api:       params.API,
		tokens:    params.Tokens,
		inspector: params.Inspector,
		logger:    params.Logger,
		validate:  newValidator(),
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sessionService) Initialize(ctx context.Context) error {
	// 1. No persisted token means signed out
	token, err := srv.tokens.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load persisted token")
	}
	if token == "" {
		srv.setIdentity(ctx, nil)

		return nil
	}

	// 2. Fetch the profile without the client's own refresh-and-replay, so
	// the one refresh below stays the only one
	noRefresh := deliverycontext.WithoutTokenRefresh(ctx)
	if srv.tokenExpired(token) {
		srv.log(ctx).Debug("Persisted token has expired, skipping profile fetch")
	} else {
		identity, err := srv.api.Profile(noRefresh)
		if err == nil {
			srv.setIdentity(ctx, identity)

			return nil
		}
		srv.log(ctx).Debug("Profile fetch failed, refreshing token", slog.Any("error", err))
	}

	// 3. Exactly one refresh attempt
	result, err := srv.api.RefreshToken(ctx)
	if err != nil {
		srv.log(ctx).Info("Token refresh failed, signing out", slog.Any("error", err))

		return srv.clear(ctx)
	}

	identity := result.Identity
	if identity == nil {
		identity, err = srv.api.Profile(noRefresh)
		if err != nil {
			srv.log(ctx).Info("Profile fetch failed after refresh, signing out", slog.Any("error", err))

			return srv.clear(ctx)
		}
	}
	srv.setIdentity(ctx, identity)

	return nil
}

// tokenExpired reads the token's exp claim. Unreadable tokens are left for
// the store to judge.
func (srv *sessionService) tokenExpired(token string) bool {
	if srv.inspector == nil {
		return false
	}
	claims, err := srv.inspector.Inspect(token)
	if err != nil {
		return false
	}

	return claims.Expired(srv.now())
}

func (srv *sessionService) SignIn(ctx context.Context, input *usecase.SignInInput) (*entity.Identity, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(srv.validate, input, credentialMessages); err != nil {
		return nil, err
	}

	result, err := srv.api.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign in")
	}

	return srv.establish(ctx, result)
}

func (srv *sessionService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*entity.Identity, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(srv.validate, input, credentialMessages); err != nil {
		return nil, err
	}

	result, err := srv.api.SignUp(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign up")
	}

	return srv.establish(ctx, result)
}

// establish sets the identity from an auth exchange whose token the API
// client has already persisted.
func (srv *sessionService) establish(ctx context.Context, result *entity.AuthResult) (*entity.Identity, error) {
	identity := result.Identity
	if identity == nil {
		var err error
		identity, err = srv.api.Profile(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to fetch profile")
		}
	}
	srv.setIdentity(ctx, identity)
	srv.log(ctx).Info("Signed in", slog.String("user_id", identity.ID))

	return cloneIdentity(identity), nil
}

func (srv *sessionService) SignOut(ctx context.Context) error {
	// 1. Best effort at the store; a 401 here must not trigger a refresh
	if err := srv.api.SignOut(deliverycontext.WithoutTokenRefresh(ctx)); err != nil {
		srv.log(ctx).Warn("Remote sign-out failed, clearing local session anyway", slog.Any("error", err))
	}

	// 2. Local state is cleared unconditionally
	return srv.clear(ctx)
}

func (srv *sessionService) Expire(ctx context.Context) {
	srv.log(ctx).Info("Session expired")
	srv.setIdentity(ctx, nil)
}

func (srv *sessionService) clear(ctx context.Context) error {
	err := srv.tokens.Clear(ctx)
	srv.setIdentity(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to clear persisted token")
	}

	return nil
}

func (srv *sessionService) VerifyEmail(ctx context.Context, email, otp string) error {
	email, otp = strings.TrimSpace(email), strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("please enter your email and the code you received"))
	}

	return errors.Wrap(srv.api.VerifyEmail(ctx, email, otp), "failed to verify email")
}

func (srv *sessionService) RequestNewOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("please enter your email address"))
	}

	return errors.Wrap(srv.api.RequestNewOTP(ctx, email), "failed to request a new code")
}

func (srv *sessionService) Current() *entity.Identity {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return cloneIdentity(srv.identity)
}

func (srv *sessionService) IsAuthenticated() bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.identity != nil
}

func (srv *sessionService) OnChange(fn func(ctx context.Context, identity *entity.Identity)) {
	srv.listenersMu.Lock()
	defer srv.listenersMu.Unlock()

	srv.listeners = append(srv.listeners, fn)
}

// setIdentity replaces the identity and notifies listeners when the signed-in
// customer changed. Listeners run outside the state lock.
func (srv *sessionService) setIdentity(ctx context.Context, identity *entity.Identity) {
	srv.mu.Lock()
	prev := srv.identity
	srv.identity = cloneIdentity(identity)
	srv.mu.Unlock()

	if sameCustomer(prev, identity) {
		return
	}

	srv.listenersMu.Lock()
	listeners := append([]func(context.Context, *entity.Identity){}, srv.listeners...)
	srv.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(ctx, cloneIdentity(identity))
	}
}

func sameCustomer(a, b *entity.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.ID == b.ID
}

func cloneIdentity(identity *entity.Identity) *entity.Identity {
	if identity == nil {
		return nil
	}
	clone := *identity

	return &clone
}
