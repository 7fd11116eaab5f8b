package suite

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/container"
	"github.com/qaforge/apiharness/framework"
	"github.com/qaforge/apiharness/request"
)

func TestCasesRunSequentiallyWithinOneWorker(t *testing.T) {
	var order []string
	s := New("demo", nil)
	s.Add("TEST-1", "first", func(t *T) { order = append(order, "first") })
	s.Add("TEST-2", "second", func(t *T) { order = append(order, "second") })

	results, err := Run(s, Options{})
	require.NoError(t, err)
	assert.True(t, results.OK())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestFailuresAreCollectedNotFatal(t *testing.T) {
	s := New("demo", nil)
	s.Add("TEST-1", "fails", func(t *T) {
		t.Errorf("wrong status")
		t.FailNow()
	})
	s.Add("TEST-2", "still runs", func(t *T) {})

	results, err := Run(s, Options{})
	require.NoError(t, err)
	assert.False(t, results.OK())
	assert.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "TEST-1", results.Failures[0].TestID.Identifier)
}

func TestRegistrationFailureAbortsBeforeAnyTest(t *testing.T) {
	ran := false
	s := New("demo", func(c *container.Container, env config.Environment) error {
		return assert.AnError
	})
	s.Add("TEST-1", "never runs", func(t *T) { ran = true })

	_, err := Run(s, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `suite "demo" registration failed`)
	assert.False(t, ran)
}

func TestEachWorkerGetsItsOwnContainer(t *testing.T) {
	var lock sync.Mutex
	containers := map[*container.Container]bool{}

	s := New("demo", func(c *container.Container, env config.Environment) error {
		c.RegisterSingleton("marker", func(container.Resolver) (interface{}, error) {
			return &struct{}{}, nil
		})
		return nil
	})
	for i := 0; i < 4; i++ {
		s.Add("TEST-1", "records container", func(t *T) {
			lock.Lock()
			containers[t.Container()] = true
			lock.Unlock()
		})
	}

	results, err := Run(s, Options{Workers: 2})
	require.NoError(t, err)
	assert.True(t, results.OK())
	assert.Len(t, results.Tests, 4)
	assert.Len(t, containers, 2)
}

func TestFilterSelectsCasesByIdentifier(t *testing.T) {
	var ran []string
	s := New("demo", nil)
	s.Add("TEST-1", "one", func(t *T) { ran = append(ran, "one") })
	s.Add("TEST-2", "two", func(t *T) { ran = append(ran, "two") })

	results, err := Run(s, Options{Filter: framework.IdentifierFilter([]string{"TEST-2"})})
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, ran)
	assert.Len(t, results.Skipped, 1)
}

func TestRequireCapabilitySkipsWithoutHarness(t *testing.T) {
	s := New("demo", nil)
	s.Add("TEST-1", "needs webhooks", func(t *T) {
		t.RequireCapability("webhooks")
		t.Errorf("should not get here")
	})

	results, err := Run(s, Options{})
	require.NoError(t, err)
	assert.True(t, results.OK())
	require.Len(t, results.Skipped, 1)
	assert.Contains(t, results.Skipped[0].SkipReason, "webhooks")
}

func TestRegisterCoreServicesWiresTheDispatcher(t *testing.T) {
	env := config.Environment{
		Name:    "qa",
		BaseURL: "http://qa.internal/api/",
		Headers: map[string]string{"X-Api-Key": "k"},
	}
	c := container.New()
	RegisterCoreServices(c, env, nil)

	d, err := container.Resolve[*request.Dispatcher](c, DispatcherToken)
	require.NoError(t, err)
	assert.Equal(t, "http://qa.internal/api", d.BaseURL())

	again, err := container.Resolve[*request.Dispatcher](c, DispatcherToken)
	require.NoError(t, err)
	assert.Same(t, d, again)
}

func TestResolveFailsTheTestOnMissingToken(t *testing.T) {
	s := New("demo", nil)
	s.Add("TEST-1", "resolves missing token", func(t *T) {
		_ = Resolve[*request.Dispatcher](t, "not-registered")
		t.Errorf("should not get here")
	})

	results, err := Run(s, Options{})
	require.NoError(t, err)
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "not-registered")
}
