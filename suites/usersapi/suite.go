package usersapi

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/container"
	"github.com/qaforge/apiharness/request"
	"github.com/qaforge/apiharness/suite"
)

// Register wires this suite's services into a worker's container. The
// client is a singleton (stateless, safe to share across the worker's
// cases); the action is transient so each case gets a fresh instance.
func Register(c *container.Container, env config.Environment) error {
	suite.RegisterCoreServices(c, env, nil)

	c.RegisterSingleton(ClientToken, func(r container.Resolver) (interface{}, error) {
		d, err := container.ResolveAs[*request.Dispatcher](r, suite.DispatcherToken)
		if err != nil {
			return nil, err
		}
		return NewClient(d), nil
	})

	c.RegisterTransient(AccountActionsToken, func(r container.Resolver) (interface{}, error) {
		client, err := container.ResolveAs[*Client](r, ClientToken)
		if err != nil {
			return nil, err
		}
		return NewAccountActions(client), nil
	})

	return nil
}

// Suite declares the test cases. Identifiers follow the TEST-n convention
// used for selective execution and report cross-referencing.
func Suite() *suite.Suite {
	s := suite.New("users-api", Register)

	s.Add("TEST-101", "create user returns the new profile", func(t *suite.T) {
		client := suite.Resolve[*Client](t, ClientToken)

		envelope, err := client.CreateUser(context.Background(), CreateUserParams{
			Email:    "ada@example.com",
			Name:     "Ada",
			Password: "correct horse",
		})
		require.NoError(t, err)
		assert.Equal(t, 201, envelope.StatusCode)
		require.NotNil(t, envelope.Data)
		assert.NotEmpty(t, envelope.Data.ID)
		assert.Equal(t, "ada@example.com", envelope.Data.Email)
	})

	s.Add("TEST-102", "fetching a missing user returns 404", func(t *suite.T) {
		client := suite.Resolve[*Client](t, ClientToken)

		envelope, err := client.GetUser(context.Background(), "no-such-user", "")
		require.NoError(t, err)
		assert.Equal(t, 404, envelope.StatusCode)
		assert.Nil(t, envelope.Data)
	})

	s.Add("TEST-103", "login rejects a bad password", func(t *suite.T) {
		actions := suite.Resolve[*AccountActions](t, AccountActionsToken)

		envelope, err := actions.SignUp(context.Background(), CreateUserParams{
			Email:    "grace@example.com",
			Name:     "Grace",
			Password: "hopper",
		})
		require.NoError(t, err)
		require.Equal(t, 201, envelope.StatusCode)

		client := suite.Resolve[*Client](t, ClientToken)
		login, err := client.Login(context.Background(), Credentials{
			Email:    "grace@example.com",
			Password: "wrong",
		})
		require.NoError(t, err)
		assert.Equal(t, 401, login.StatusCode)
		assert.Equal(t, "invalid credentials", login.BodyValue().GetByKey("error").StringValue())
	})

	s.Add("TEST-104", "a new account can fetch its own profile", func(t *suite.T) {
		actions := suite.Resolve[*AccountActions](t, AccountActionsToken)

		account, err := actions.OpenAccount(context.Background(), CreateUserParams{
			Email:    "lin@example.com",
			Name:     "Lin",
			Password: "s3cret",
		})
		require.NoError(t, err)
		assert.Equal(t, "lin@example.com", account.User.Email)
		assert.NotEmpty(t, account.Session.AccessToken)
	})

	s.Add("TEST-105", "users can be removed", func(t *suite.T) {
		t.RequireCapability("user-delete")

		actions := suite.Resolve[*AccountActions](t, AccountActionsToken)
		account, err := actions.OpenAccount(context.Background(), CreateUserParams{
			Email:    "tmp@example.com",
			Name:     "Temp",
			Password: "temp",
		})
		require.NoError(t, err)

		client := suite.Resolve[*Client](t, ClientToken)
		deleted, err := client.DeleteUser(context.Background(), account.User.ID, account.Session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, 204, deleted.StatusCode)
	})

	return s
}
