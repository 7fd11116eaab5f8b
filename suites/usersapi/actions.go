package usersapi

import (
	"context"
	"fmt"

	"github.com/qaforge/apiharness/request"
)

// AccountActions exposes business-level operations that chain several raw
// API calls. It holds a Client resolved from the container, never one it
// constructed itself.
type AccountActions struct {
	client *Client
}

func NewAccountActions(client *Client) *AccountActions {
	return &AccountActions{client: client}
}

// SignUp passes the create-user envelope straight through to the caller, so
// negative-path tests can assert on error statuses.
func (a *AccountActions) SignUp(ctx context.Context, params CreateUserParams) (*request.Envelope[User], error) {
	return a.client.CreateUser(ctx, params)
}

// Account is the derived shape returned by OpenAccount.
type Account struct {
	User    User
	Session Session
}

// OpenAccount creates a user, logs in as them, and fetches the resulting
// profile. Any non-2xx status along the chain is an error here, because the
// operation as a whole did not produce an account.
func (a *AccountActions) OpenAccount(ctx context.Context, params CreateUserParams) (*Account, error) {
	created, err := a.client.CreateUser(ctx, params)
	if err != nil {
		return nil, err
	}
	if !created.OK() {
		return nil, fmt.Errorf("create user returned status %d", created.StatusCode)
	}

	session, err := a.client.Login(ctx, Credentials{Email: params.Email, Password: params.Password})
	if err != nil {
		return nil, err
	}
	if !session.OK() || session.Data == nil {
		return nil, fmt.Errorf("login returned status %d", session.StatusCode)
	}

	profile, err := a.client.GetUser(ctx, session.Data.UserID, session.Data.AccessToken)
	if err != nil {
		return nil, err
	}
	if !profile.OK() || profile.Data == nil {
		return nil, fmt.Errorf("get user returned status %d", profile.StatusCode)
	}

	return &Account{User: *profile.Data, Session: *session.Data}, nil
}
