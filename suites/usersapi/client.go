// Package usersapi is the shipped demonstration suite. It shows the
// layering discipline suite authors are expected to follow: a client
// exposes one typed method per API operation and depends only on the
// request dispatcher; an action composes clients into business-level
// operations; test cases acquire both through the container, never by
// direct construction.
package usersapi

import (
	"context"

	"github.com/qaforge/apiharness/request"
)

// Container tokens for this suite's services.
const (
	ClientToken         = "usersapi.client"
	AccountActionsToken = "usersapi.account-actions"
)

type User struct {
	ID    string `json:"user_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateUserParams struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// Client wraps the users API's raw operations. Each method issues exactly
// one request and returns its envelope untouched.
type Client struct {
	dispatcher *request.Dispatcher
}

func NewClient(dispatcher *request.Dispatcher) *Client {
	return &Client{dispatcher: dispatcher}
}

func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*request.Envelope[User], error) {
	b := c.dispatcher.NewRequest().
		WithMethod("POST").
		WithResource("/users").
		WithPayload(params)
	return request.Send[User](ctx, b)
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*request.Envelope[Session], error) {
	b := c.dispatcher.NewRequest().
		WithMethod("POST").
		WithResource("/auth/login").
		WithPayload(creds)
	return request.Send[Session](ctx, b)
}

func (c *Client) GetUser(ctx context.Context, userID string, accessToken string) (*request.Envelope[User], error) {
	b := c.dispatcher.NewRequest().
		WithMethod("GET").
		WithResource("/users/" + userID).
		WithHeader("Authorization", "Bearer "+accessToken)
	return request.Send[User](ctx, b)
}

func (c *Client) DeleteUser(ctx context.Context, userID string, accessToken string) (*request.Envelope[struct{}], error) {
	b := c.dispatcher.NewRequest().
		WithMethod("DELETE").
		WithResource("/users/" + userID).
		WithHeader("Authorization", "Bearer "+accessToken)
	return request.Send[struct{}](ctx, b)
}
