package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/domain/user"
	"github.com/tastebook/v1/internal/infrastructure/session"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

// fallbackUsername is used when the provider profile carries no name
const fallbackUsername = "Unnamed cook"

// UserAccounts resolves a provider identity to a local account
type UserAccounts interface {
	FindOrCreate(ctx context.Context, name, email string) (*user.User, error)
}

// Flow runs the login and logout sequences against the provider and
// mutates the session accordingly. Callers persist the session afterward,
// on success or failure.
type Flow struct {
	client   *Client
	accounts UserAccounts
	logger   *zap.Logger
}

// NewFlow creates a login flow
func NewFlow(client *Client, accounts UserAccounts, logger *zap.Logger) *Flow {
	return &Flow{
		client:   client,
		accounts: accounts,
		logger:   logger,
	}
}

// Connect validates a login callback and establishes the session identity.
//
// The checks run in a fixed order: anti-forgery state, code exchange,
// token introspection, subject match, audience match, then the
// already-connected short circuit. Each failure maps to its own error
// code so handlers can return the right status.
func (f *Flow) Connect(ctx context.Context, sess *session.Session, state, code string) (*user.User, error) {
	if state == "" || state != sess.State {
		return nil, apperrors.NewInvalidStateError()
	}

	creds, err := f.client.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.NewCodeExchangeFailedError(err)
	}

	info, err := f.client.TokenInfo(ctx, creds.AccessToken)
	if err != nil {
		return nil, apperrors.NewProviderError(err.Error())
	}
	if info.Error != "" {
		return nil, apperrors.NewProviderError(info.Error)
	}

	if info.UserID != creds.Subject {
		return nil, apperrors.NewSubjectMismatchError()
	}

	if info.IssuedTo != f.client.ClientID() {
		return nil, apperrors.NewAudienceMismatchError()
	}

	if sess.AccessToken != "" && sess.Subject == creds.Subject {
		return nil, apperrors.NewAlreadyConnectedError()
	}

	sess.AccessToken = creds.AccessToken
	sess.Subject = creds.Subject

	profile, err := f.client.UserInfo(ctx, creds.AccessToken)
	if err != nil {
		return nil, apperrors.NewProviderError(err.Error())
	}

	username := profile.Name
	if username == "" {
		username = fallbackUsername
	}

	u, err := f.accounts.FindOrCreate(ctx, username, profile.Email)
	if err != nil {
		return nil, err
	}

	sess.Email = u.Email
	sess.Username = username
	sess.UserID = u.ID
	sess.State = ""

	f.logger.Info("User connected",
		zap.String("email", u.Email),
		zap.Uint("user_id", u.ID),
	)

	return u, nil
}

// Disconnect revokes the session's access token and clears its identity.
// Revocation is best effort: a provider failure still logs the user out
// locally.
func (f *Flow) Disconnect(ctx context.Context, sess *session.Session) error {
	if sess.AccessToken == "" {
		return apperrors.NewNotLoggedInError()
	}

	if err := f.client.Revoke(ctx, sess.AccessToken); err != nil {
		f.logger.Warn("Token revocation failed", zap.Error(err))
	}

	email := sess.Email
	sess.ClearAuth()

	f.logger.Info("User disconnected", zap.String("email", email))
	return nil
}
