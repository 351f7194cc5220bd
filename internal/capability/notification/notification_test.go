package notification_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	shown []notification.Options
}

func (f *fakeNotifier) Show(opts notification.Options) error {
	f.shown = append(f.shown, opts)
	return nil
}

var _ notification.Notifier = (*fakeNotifier)(nil)

func TestShowRecordsOptions(t *testing.T) {
	n := &fakeNotifier{}
	require.NoError(t, n.Show(notification.Options{Title: "Build done", Body: "Exit code 0"}))
	assert.Len(t, n.shown, 1)
	assert.Equal(t, "Build done", n.shown[0].Title)
}
