package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountServiceParams holds dependencies for the account service, injected by Fx.
type AccountServiceParams struct {
	fx.In

	API     service.DeliveryAPI
	Session usecase.SessionUsecase
	Logger  *slog.Logger
}

// accountService implements the AccountUsecase interface.
type accountService struct {
	api     service.DeliveryAPI
	session usecase.SessionUsecase
	logger  *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		api:     params.API,
		session: params.Session,
		logger:  params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *accountService) GetDeliveryInfo(ctx context.Context) (*entity.DeliveryInfo, error) {
	if !srv.session.IsAuthenticated() {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	info, err := srv.api.GetDeliveryInfo(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delivery details")
	}

	return info, nil
}

func (srv *accountService) SaveDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error {
	// 1. Look up what is saved, which decides between create and update
	existing, err := srv.GetDeliveryInfo(ctx)
	if err != nil {
		return err
	}

	// 2. Create or update
	if existing == nil {
		err = srv.api.SaveDeliveryInfo(ctx, info)
	} else {
		err = srv.api.UpdateDeliveryInfo(ctx, info)
	}
	if err != nil {
		return errors.Wrap(err, "failed to save delivery details")
	}
	srv.log(ctx).Info("Delivery details saved", slog.Bool("updated", existing != nil))

	return nil
}

func (srv *accountService) PrefillCheckoutForm(ctx context.Context) (entity.CheckoutForm, error) {
	identity := srv.session.Current()
	if identity == nil {
		return entity.CheckoutForm{}, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	info, err := srv.GetDeliveryInfo(ctx)
	if err != nil {
		return entity.CheckoutForm{}, err
	}

	form := entity.CheckoutForm{Email: identity.Email}
	if info != nil {
		form = entity.CheckoutForm{
			FirstName: info.FirstName,
			LastName:  info.LastName,
			Address:   info.Address,
			City:      info.City,
			ZipCode:   info.ZipCode,
			Mobile:    info.Mobile,
			Email:     info.Email,
		}
		if form.Email == "" {
			form.Email = identity.Email
		}
	} else if first, last, ok := strings.Cut(strings.TrimSpace(identity.Name), " "); ok {
		form.FirstName, form.LastName = first, strings.TrimSpace(last)
	} else {
		form.FirstName = first
	}

	return form.Normalize(), nil
}
