package session

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"schoolhub/core"
	"schoolhub/restapi"
)

// Service is the single source of truth for "who is logged in". It validates
// form input, talks to the backend and produces fully populated sessions;
// persistence of the result is the web layer's concern.
type Service struct {
	api        *restapi.Client
	validate   *validator.Validate
	translator ut.Translator
}

func NewService(api *restapi.Client, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{api: api, validate: validate, translator: translator}
}

// Login authenticates the credentials against the backend. On any failure the
// returned Session is zero: there is no intermediate state between Anonymous
// and Authenticated.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	creds.Username = core.CleanString(creds.Username, true /* lower */)
	if err := core.TranslateErrors(svc.validate.Struct(creds), svc.translator); err != nil {
		return Session{}, err
	}

	info, err := svc.api.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return Session{}, errors.Wrap(err, "authenticating")
	}
	return fromUserInfo(info), nil
}

// Register creates a new account. It performs no state transition; the caller
// lands back on the login screen.
func (svc *Service) Register(ctx context.Context, reg Registration) error {
	reg.Username = core.CleanString(reg.Username, true /* lower */)
	reg.Email = core.CleanString(reg.Email, true /* lower */)
	if err := core.TranslateErrors(svc.validate.Struct(reg), svc.translator); err != nil {
		return err
	}

	nu := restapi.NewUser{
		Username: reg.Username,
		Password: reg.Password,
		Role:     reg.Role,
		Email:    reg.Email,
		IsActive: true,
	}
	return errors.Wrap(svc.api.CreateUser(ctx, "", nu), "registering user")
}

// Renew trades the refresh token for a fresh access token, keeping the cached
// profile.
func (svc *Service) Renew(ctx context.Context, sess Session) (Session, error) {
	if sess.RefreshToken == "" {
		return Session{}, errors.New("no refresh token held")
	}
	token, err := svc.api.RefreshToken(ctx, sess.RefreshToken)
	if err != nil {
		return Session{}, errors.Wrap(err, "refreshing token")
	}
	sess.Token = token
	return sess, nil
}

// Administrative passthroughs. Each call is authenticated with the session
// that issued it; failures surface to the caller for notification.

func (svc *Service) Users(ctx context.Context, token string) ([]restapi.User, error) {
	users, err := svc.api.Users(ctx, token)
	return users, errors.Wrap(err, "fetching users")
}

func (svc *Service) UpdateUser(ctx context.Context, token string, id int, patch restapi.UserPatch) error {
	return errors.Wrap(svc.api.UpdateUser(ctx, token, id, patch), "updating user")
}

func (svc *Service) DeleteUser(ctx context.Context, token string, id int) error {
	return errors.Wrap(svc.api.DeleteUser(ctx, token, id), "deleting user")
}
