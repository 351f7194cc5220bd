package singleinstance_test

import (
	"sync"
	"testing"
	"time"

	"github.com/krema-build/krema/internal/singleinstance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstAcquireBecomesPrimary(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	inst, err := singleinstance.Acquire("com.krema.test.primary", []string{"app"}, nil)
	require.NoError(t, err)
	defer inst.Release()

	assert.True(t, inst.IsPrimary())
}

func TestSecondAcquireRelaysArgsToPrimary(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var mu sync.Mutex
	var received []string

	primary, err := singleinstance.Acquire("com.krema.test.relay", []string{"app"}, func(args []string) {
		mu.Lock()
		received = args
		mu.Unlock()
	})
	require.NoError(t, err)
	require.True(t, primary.IsPrimary())
	defer primary.Release()

	secondary, err := singleinstance.Acquire("com.krema.test.relay", []string{"myapp://foo"}, nil)
	require.NoError(t, err)
	assert.False(t, secondary.IsPrimary())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1 && received[0] == "myapp://foo"
	}, 2*time.Second, 10*time.Millisecond, "primary never received relayed argv")
}

func TestExtractDeepLinkMatchesConfiguredScheme(t *testing.T) {
	url, ok := singleinstance.ExtractDeepLink([]string{"/usr/bin/myapp", "myapp://open/page"}, []string{"myapp"})
	require.True(t, ok)
	assert.Equal(t, "myapp://open/page", url)
}

func TestExtractDeepLinkNoMatch(t *testing.T) {
	_, ok := singleinstance.ExtractDeepLink([]string{"/usr/bin/myapp", "--flag"}, []string{"myapp"})
	assert.False(t, ok)
}

func TestDeepLinkQueueBuffersUntilAttached(t *testing.T) {
	queue := singleinstance.NewDeepLinkQueue("main")
	queue.Enqueue("myapp://one")
	queue.Enqueue("myapp://two")

	sink := &fakeDeepLinkSink{}
	queue.Attach(sink)

	require.Len(t, sink.calls, 2)
	assert.Equal(t, "main", sink.calls[0].label)
	assert.Equal(t, "deep-link:received", sink.calls[0].event)
}

func TestDeepLinkQueueDeliversImmediatelyOnceAttached(t *testing.T) {
	queue := singleinstance.NewDeepLinkQueue("main")
	sink := &fakeDeepLinkSink{}
	queue.Attach(sink)

	queue.Enqueue("myapp://three")

	require.Len(t, sink.calls, 1)
	payload, ok := sink.calls[0].payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "myapp://three", payload["url"])
}

type deepLinkCall struct {
	label   string
	event   string
	payload any
}

type fakeDeepLinkSink struct {
	calls []deepLinkCall
}

func (f *fakeDeepLinkSink) SendTo(label, event string, payload any) {
	f.calls = append(f.calls, deepLinkCall{label: label, event: event, payload: payload})
}
