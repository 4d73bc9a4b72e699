package launches

import (
	"log/slog"
	"time"

	"launch-notifier/model"
)

// LiftoffLayout is the provider's t0 format. Times are always UTC.
const LiftoffLayout = "2006-01-02T15:04Z"

// Window is how far ahead of now a liftoff counts as imminent.
const Window = time.Hour

// ParseLiftoff parses a t0 value in LiftoffLayout.
func ParseLiftoff(t0 string) (time.Time, error) {
	return time.ParseInLocation(LiftoffLayout, t0, time.UTC)
}

// InWindow reports whether now < liftoff <= now+Window.
func InWindow(liftoff, now time.Time) bool {
	return liftoff.After(now) && !liftoff.After(now.Add(Window))
}

// Imminent reports whether the launch lifts off within the window. A t0 that
// does not parse is logged and counts as not imminent.
func Imminent(launch model.Launch, now time.Time, logger *slog.Logger) bool {
	liftoff, err := ParseLiftoff(launch.T0)
	if err != nil {
		logger.Warn("can't parse liftoff time",
			slog.String("launch_id", string(launch.ID)),
			slog.String("t0", launch.T0),
			slog.String("error", err.Error()))
		return false
	}
	return InWindow(liftoff, now)
}
