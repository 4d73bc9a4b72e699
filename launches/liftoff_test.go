package launches

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launch-notifier/model"
)

func TestParseLiftoff(t *testing.T) {
	got, err := ParseLiftoff("2026-10-18T13:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 13, 5, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	for _, bad := range []string{"", "TBD", "2026-10-18", "2026-10-18T13:05:00Z", "2026-13-01T00:00Z"} {
		_, err := ParseLiftoff(bad)
		assert.Error(t, err, bad)
	}
}

func TestInWindowBoundaries(t *testing.T) {
	liftoff := time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"liftoff equals now", liftoff, false},
		{"liftoff one hour ahead", liftoff.Add(-time.Hour), true},
		{"liftoff one hour and a second ahead", liftoff.Add(-time.Hour - time.Second), false},
		{"liftoff a second ago", liftoff.Add(time.Second), false},
		{"liftoff in thirty minutes", liftoff.Add(-30 * time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(liftoff, tt.now))
		})
	}
}

func TestImminent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	now := time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)

	assert.True(t, Imminent(model.Launch{ID: "1", T0: "2026-10-18T13:00Z"}, now, logger))
	assert.False(t, Imminent(model.Launch{ID: "2", T0: "2026-10-18T14:00Z"}, now, logger))
	assert.Empty(t, buf.String())

	assert.False(t, Imminent(model.Launch{ID: "3", T0: "soon"}, now, logger))
	assert.Contains(t, buf.String(), "can't parse liftoff time")
	assert.Contains(t, buf.String(), "launch_id=3")
}
