package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homecmd/internal/application"
	"homecmd/internal/domain"
	"homecmd/internal/infra/inbound"
	"homecmd/internal/resolve"
)

func TestAssistant_SpoolDirectoryEndToEnd(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"01.txt":  "study lamp off and study media pause\n",
		"02.json": `{"intent":"play_media","entities":{"room":[{"value":"bedroom"}],"media_action":[{"value":"volume"}],"volume_percent":[{"value":30}]}}`,
		"03.txt":  "what time is it",
		"04.md":   "lights on",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	pub := &mockPublisher{done: make(chan struct{}), expected: 3}
	notifier := &recordingNotifier{}
	a := application.NewAssistant(
		inbound.NewFileSource(dir),
		resolve.New(domain.DefaultVocabulary()),
		pub,
		notifier,
		application.Options{},
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- a.Run(ctx)
	}()

	select {
	case <-pub.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for spooled commands")
	}

	// let the poller pick up the irrelevant utterance too
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "03.txt.processed"))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-runErr, context.Canceled)

	assert.Equal(t, []published{
		{"ha/study/lamp", "OFF"},
		{"ha/study/media/pause", "ON"},
		{"ha/unknown/media/volume", "30"},
	}, pub.Published())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{
		"study lamp off",
		"study media pause ON",
		"unknown media volume 30",
	}, notifier.phrases)

	_, err := os.Stat(filepath.Join(dir, "04.md"))
	assert.NoError(t, err, "files with other extensions are left alone")
}
