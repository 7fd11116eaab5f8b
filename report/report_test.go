package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/framework"
)

func sampleResults() framework.Results {
	passed := framework.TestResult{
		TestID:   framework.TestID{Identifier: "TEST-1", Path: []string{"login succeeds"}},
		Duration: 120 * time.Millisecond,
	}
	failed := framework.TestResult{
		TestID:   framework.TestID{Identifier: "TEST-2", Path: []string{"login rejects bad password"}},
		Errors:   []error{errors.New("expected 401, got 200")},
		Duration: 80 * time.Millisecond,
	}
	skipped := framework.TestResult{
		TestID:     framework.TestID{Identifier: "TEST-3", Path: []string{"bulk create"}},
		Skipped:    true,
		SkipReason: "capability not supported",
	}
	return framework.Results{
		Tests:    []framework.TestResult{passed, failed},
		Failures: []framework.TestResult{failed},
		Skipped:  []framework.TestResult{skipped},
	}
}

func sampleReport() Report {
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return Build("users-api", "qa", sampleResults(), started, started.Add(3*time.Second))
}

func TestBuildCountsOutcomes(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	assert.False(t, r.OK())
	require.Len(t, r.Tests, 3)

	assert.Equal(t, "passed", r.Tests[0].Outcome)
	assert.Equal(t, int64(120), r.Tests[0].DurationMS)
	assert.Equal(t, "failed", r.Tests[1].Outcome)
	assert.Equal(t, []string{"expected 401, got 200"}, r.Tests[1].Errors)
	assert.Equal(t, "skipped", r.Tests[2].Outcome)
	assert.Equal(t, "capability not supported", r.Tests[2].SkipReason)
}

func TestSummaryIncludesCountsAndStatus(t *testing.T) {
	r := sampleReport()
	summary := r.Summary()
	assert.Contains(t, summary, "users-api")
	assert.Contains(t, summary, "[qa]")
	assert.Contains(t, summary, "FAILED")
	assert.Contains(t, summary, "1 passed, 1 failed, 1 skipped")
}

func TestWriteFileCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, sampleReport().WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var roundTripped Report
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, "users-api", roundTripped.Suite)
	assert.Len(t, roundTripped.Tests, 3)
}

func TestSlackNotifierPostsSummaryText(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	n := &SlackNotifier{WebhookURL: server.URL}
	require.NoError(t, n.Notify(context.Background(), sampleReport()))

	info := <-requestsCh
	assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))
	var payload map[string]string
	require.NoError(t, json.Unmarshal(info.Body, &payload))
	assert.Contains(t, payload["text"], "FAILED")
	assert.Contains(t, payload["text"], "TEST-2 login rejects bad password")
	assert.Contains(t, payload["text"], "expected 401, got 200")
}

func TestDiscordNotifierPostsContent(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	server := httptest.NewServer(handler)
	defer server.Close()

	n := &DiscordNotifier{WebhookURL: server.URL}
	require.NoError(t, n.Notify(context.Background(), sampleReport()))

	info := <-requestsCh
	var payload map[string]string
	require.NoError(t, json.Unmarshal(info.Body, &payload))
	assert.Contains(t, payload["content"], "users-api")
}

func TestNotifierReportsWebhookFailure(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(500))
	defer server.Close()

	n := &SlackNotifier{WebhookURL: server.URL}
	err := n.Notify(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNotifiersFromSettings(t *testing.T) {
	assert.Empty(t, NotifiersFromSettings(config.NotifySettings{}))

	ns := NotifiersFromSettings(config.NotifySettings{
		SlackWebhookURL:   "https://hooks.slack.example.com/x",
		DiscordWebhookURL: "https://discord.example.com/y",
	})
	require.Len(t, ns, 2)
	assert.Equal(t, "slack", ns[0].Name())
	assert.Equal(t, "discord", ns[1].Name())
}
