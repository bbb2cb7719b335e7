package notification

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupesweep/dupesweep/pkg/config"
	"github.com/dupesweep/dupesweep/pkg/logger"
)

func newTestSender(t *testing.T, cfg config.NotificationsConfig) Sender {
	t.Helper()
	return NewDiscordSender(logger.GetLogger("test"), cfg)
}

// webhookRecorder captures every message posted to the fake webhook.
type webhookRecorder struct {
	messages []DiscordMessage
	status   int
}

func (w *webhookRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var msg DiscordMessage
		if assert.NoError(t, json.Unmarshal(body, &msg)) {
			w.messages = append(w.messages, msg)
		}

		status := w.status
		if status == 0 {
			status = http.StatusNoContent
		}
		rw.WriteHeader(status)
	}
}

func TestDiscordCanSend(t *testing.T) {
	assert.False(t, newTestSender(t, config.NotificationsConfig{}).CanSend())

	assert.True(t, newTestSender(t, config.NotificationsConfig{
		Service: config.NotificationService{Discord: "https://discord.com/api/webhooks/1/a"},
	}).CanSend())
}

func TestDiscordName(t *testing.T) {
	assert.Equal(t, "discord", newTestSender(t, config.NotificationsConfig{}).Name())
}

func TestDiscordBuildField(t *testing.T) {
	sender := newTestSender(t, config.NotificationsConfig{})

	field := sender.BuildField(ActionHardlink, BuildOptions{
		Dupe:   "/data/sub/b.txt",
		Source: "/data/a.txt",
		Size:   4096,
	})

	var inline []DiscordEmbedsField
	require.NoError(t, json.Unmarshal([]byte(field.Value), &inline))
	require.Len(t, inline, 4)

	assert.Equal(t, "Type", inline[0].Name)
	assert.Equal(t, "Hardlinked", inline[0].Value)
	assert.Equal(t, "Reclaimed", inline[1].Name)
	assert.Equal(t, "4.0 KiB", inline[1].Value)
	assert.Equal(t, "Path", inline[2].Name)
	assert.Equal(t, "/data/sub/b.txt", inline[2].Value)
	assert.Equal(t, "Linked To", inline[3].Name)
	assert.Equal(t, "/data/a.txt", inline[3].Value)

	dupe := sender.BuildField(ActionDuplicate, BuildOptions{Dupe: "/x", Source: "/y", Size: 1})
	require.NoError(t, json.Unmarshal([]byte(dupe.Value), &inline))
	assert.Equal(t, "Duplicate", inline[0].Value)
}

func TestDiscordSendDetailed(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	sender := newTestSender(t, config.NotificationsConfig{
		Detailed: true,
		Service:  config.NotificationService{Discord: server.URL},
	})

	fields := []Field{
		sender.BuildField(ActionHardlink, BuildOptions{Dupe: "/data/b.txt", Source: "/data/a.txt", Size: 4096}),
		sender.BuildField(ActionHardlink, BuildOptions{Dupe: "/data/c.txt", Source: "/data/a.txt", Size: 4096}),
	}

	err := sender.Send("Scan", "Merged **2** duplicate paths", 3*time.Second, fields, false)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	embeds := rec.messages[0].Embeds
	require.Len(t, embeds, 3, "one embed per merge plus a summary")

	assert.Equal(t, "Scan", embeds[0].Title)
	assert.Len(t, embeds[0].Fields, 4)
	assert.Contains(t, embeds[0].Footer.Text, "1/2")
	assert.Contains(t, embeds[1].Footer.Text, "2/2")

	summary := embeds[2]
	assert.Equal(t, "Scan - Summary", summary.Title)
	assert.Equal(t, "Merged **2** duplicate paths", summary.Description)
}

func TestDiscordSendSummaryOnly(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	sender := newTestSender(t, config.NotificationsConfig{
		Detailed: false,
		Service:  config.NotificationService{Discord: server.URL},
	})

	fields := []Field{
		sender.BuildField(ActionHardlink, BuildOptions{Dupe: "/data/b.txt", Source: "/data/a.txt", Size: 4096}),
	}

	require.NoError(t, sender.Send("Scan", "summary text", time.Second, fields, false))

	require.Len(t, rec.messages, 1)
	require.Len(t, rec.messages[0].Embeds, 1)
	assert.Equal(t, "summary text", rec.messages[0].Embeds[0].Description)
}

func TestDiscordSendDryRunTitle(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	sender := newTestSender(t, config.NotificationsConfig{
		Service: config.NotificationService{Discord: server.URL},
	})

	require.NoError(t, sender.Send("Scan", "nothing found", time.Second, nil, true))

	require.Len(t, rec.messages, 1)
	require.Len(t, rec.messages[0].Embeds, 1)
	assert.True(t, strings.HasSuffix(rec.messages[0].Embeds[0].Title, "(Dry Run)"))
}

func TestDiscordSendSkipsEmptyRun(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	sender := newTestSender(t, config.NotificationsConfig{
		SkipEmptyRun: true,
		Service:      config.NotificationService{Discord: server.URL},
	})

	require.NoError(t, sender.Send("Scan", "nothing found", time.Second, nil, false))
	assert.Empty(t, rec.messages)
}

func TestDiscordSendBadStatus(t *testing.T) {
	rec := &webhookRecorder{status: http.StatusBadRequest}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	sender := newTestSender(t, config.NotificationsConfig{
		Service: config.NotificationService{Discord: server.URL},
	})

	err := sender.Send("Scan", "nothing found", time.Second, nil, false)
	assert.Error(t, err)
}

func TestDiscordSendBatchesEmbeds(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	sender := newTestSender(t, config.NotificationsConfig{
		Detailed: true,
		Service:  config.NotificationService{Discord: server.URL},
	})

	// 11 merge embeds plus a summary exceed the 10-embed message limit
	var fields []Field
	for i := 0; i < 11; i++ {
		fields = append(fields, sender.BuildField(ActionHardlink, BuildOptions{
			Dupe:   "/data/dupe.txt",
			Source: "/data/src.txt",
			Size:   1024,
		}))
	}

	require.NoError(t, sender.Send("Scan", "batched", 12*time.Second, fields, false))

	require.Len(t, rec.messages, 2)
	assert.Len(t, rec.messages[0].Embeds, 10)
	assert.Len(t, rec.messages[1].Embeds, 2)
}
