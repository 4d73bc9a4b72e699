// Package pipeline runs one pass of the launch alert job:
// fetch → filter → notify → persist.
//
// Every id in the fetched snapshot is collected for pruning. A launch is
// notified when its provider is SpaceX, it lifts off within the next hour and
// its id is not in the notified set. Each notified id is saved right after its
// notification goes out, so a crash mid-run does not repeat it on the next
// run. Ids the provider no longer lists are dropped from the set at the end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"launch-notifier/launches"
	"launch-notifier/model"
	"launch-notifier/notify"
	"launch-notifier/store"
)

// Provider is the only launch provider alerts are sent for.
const Provider = "SpaceX"

// Source returns the current launch snapshot.
type Source interface {
	Fetch(ctx context.Context) ([]model.Launch, error)
}

type Result struct {
	Fetched  int
	Notified int
	Pruned   int
}

type Pipeline struct {
	source   Source
	notifier notify.Notifier
	store    store.Store
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Pipeline)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(source Source, notifier notify.Notifier, st store.Store, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		source:   source,
		notifier: notifier,
		store:    st,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs a single pass. A failed fetch is logged and leaves the store
// untouched; Run then returns a zero Result and no error. Notifier and store
// errors are returned.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	logger := p.logger.With(slog.String("run_id", uuid.NewString()))
	var res Result

	snapshot, err := p.source.Fetch(ctx)
	if err != nil {
		var statusErr *launches.StatusError
		if errors.As(err, &statusErr) {
			logger.Error("failed to retrieve launches",
				slog.Int("status", statusErr.Code), slog.String("reason", statusErr.Reason()))
		} else {
			logger.Error("failed to retrieve launches", slog.String("error", err.Error()))
		}
		return res, nil
	}
	res.Fetched = len(snapshot)

	now := p.now().UTC()
	ids := make([]string, 0, len(snapshot))
	for _, launch := range snapshot {
		ids = append(ids, string(launch.ID))

		if launch.Provider.Name != Provider || !launches.Imminent(launch, now, logger) {
			continue
		}

		notified, err := p.store.Load(ctx)
		if err != nil {
			return res, fmt.Errorf("load notified launches: %w", err)
		}
		if notified.Has(string(launch.ID)) {
			logger.Debug("launch already notified", slog.String("launch_id", string(launch.ID)))
			continue
		}

		if err := p.notifier.Notify(ctx, NotificationFor(launch)); err != nil {
			return res, fmt.Errorf("notify launch %s: %w", launch.ID, err)
		}
		if err := p.record(ctx, string(launch.ID)); err != nil {
			return res, err
		}
		res.Notified++
		logger.Info("notification sent",
			slog.String("launch_id", string(launch.ID)), slog.String("name", launch.Name))
	}

	pruned, err := p.prune(ctx, ids)
	if err != nil {
		return res, err
	}
	res.Pruned = pruned

	logger.Info("run finished",
		slog.Int("fetched", res.Fetched), slog.Int("notified", res.Notified), slog.Int("pruned", res.Pruned))
	return res, nil
}

// NotificationFor builds the alert for a launch.
func NotificationFor(launch model.Launch) *model.Notification {
	return &model.Notification{
		Title:   fmt.Sprintf("SpaceX Launch Alert: %s", launch.Name),
		Message: fmt.Sprintf("%s - %s", launch.Description, launch.QuickText),
		Tags:    []string{"rocket"},
	}
}

func (p *Pipeline) record(ctx context.Context, id string) error {
	notified, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load notified launches: %w", err)
	}
	if err := p.store.Save(ctx, notified.Add(id)); err != nil {
		return fmt.Errorf("save notified launch %s: %w", id, err)
	}
	return nil
}

func (p *Pipeline) prune(ctx context.Context, snapshot []string) (int, error) {
	notified, err := p.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load notified launches: %w", err)
	}
	retained := notified.Retain(snapshot)
	if err := p.store.Save(ctx, retained); err != nil {
		return 0, fmt.Errorf("save notified launches: %w", err)
	}
	return len(notified) - len(retained), nil
}
