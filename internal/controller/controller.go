package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"

	"ctd/internal/backend"
	"ctd/internal/bus"
	"ctd/internal/journal/interfaces"
	"ctd/internal/models"
	"ctd/internal/providers"
	"ctd/internal/structures"
	"ctd/internal/timerstore"
)

const tickInterval = time.Second

var (
	ErrActionInFlight = errors.New("another timer action is in flight")
	ErrNoActiveCase   = errors.New("no active case")
	ErrMissingCaseID  = errors.New("case id is required")
)

type ControllerInterface interface {
	View() View
	Subscribe(fn func(View)) func()
	Refresh()
	Start(ctx context.Context, caseID string) (string, error)
	Stop(ctx context.Context, caseID string) (string, error)
	Dismiss() error
	Finalize(ctx context.Context) error
	Close()
}

// Controller reconciles the persisted timer record with the backend's case
// snapshot and derives the presentation state. Several instances may be
// mounted over the same store and bus; none of them owns a lock on the
// record, they all converge through SignalTimerChanged.
//
// The server snapshot always wins over the local record. A record whose
// case has no open entry settles into Paused without ever being shown as
// running; a record whose case is gone clears the store entirely.
type Controller struct {
	store   timerstore.StoreInterface
	bus     bus.BusInterface
	client  backend.ClientInterface
	journal interfaces.JournalInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	fetchTimeout time.Duration
	now          func() time.Time
	gen          atomic.Uint64

	mu        sync.Mutex
	state     State
	record    *models.ActiveTimerRecord
	snapshot  *models.CaseSnapshot
	inFlight  bool
	tickStop  chan struct{}
	observers map[int]func(View)
	obsNext   int
	unsub     func()
}

func NewActiveTimerController(
	conf *structures.Config,
	store timerstore.StoreInterface,
	b bus.BusInterface,
	client backend.ClientInterface,
	jrnl interfaces.JournalInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) ControllerInterface {
	c := &Controller{
		store:        store,
		bus:          b,
		client:       client,
		journal:      jrnl,
		logger:       logger,
		metrics:      metrics,
		fetchTimeout: conf.Timer.FetchTimeout,
		now:          time.Now,
		state:        StateIdle,
		observers:    make(map[int]func(View)),
	}
	c.unsub = b.Subscribe(bus.SignalTimerChanged, c.Refresh)
	c.Refresh()
	return c
}

// Subscribe registers an observer of the derived view and returns the
// unsubscribe function. Observers must be unsubscribed before unmount.
func (c *Controller) Subscribe(fn func(View)) func() {
	c.mu.Lock()
	id := c.obsNext
	c.obsNext++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	v := View{State: c.state, ActionInFlight: c.inFlight}
	if c.record != nil {
		v.CaseID = c.record.CaseID
		v.StartedAt = c.record.StartedAt
	}
	if c.snapshot != nil {
		v.EstimatedMinutes = c.snapshot.TimeTotals.EstimatedMinutes
		v.RealizedMinutes = c.snapshot.TimeTotals.RealizedMinutes
		v.RemainingMinutes = c.snapshot.RemainingMinutes()
		v.OverBudget = c.snapshot.OverBudget()
	}
	// elapsed only ticks while running; it is frozen out of the view when
	// paused
	if c.state == StateRunning && c.record != nil {
		elapsed := int(c.now().Sub(c.record.StartedAt).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		v.ElapsedSeconds = elapsed
	}
	v.CanStart = c.state == StatePaused && !c.inFlight &&
		(c.snapshot == nil || c.snapshot.StartAllowed())
	v.CanStop = c.state == StateRunning && !c.inFlight
	return v
}

// Refresh re-reads the persisted record and reconciles against the
// backend. It runs on mount, after every SignalTimerChanged, and after
// every committed action.
func (c *Controller) Refresh() {
	record := c.store.Load()

	c.mu.Lock()
	if record == nil {
		c.record = nil
		c.snapshot = nil
		c.state = StateIdle
		c.stopTickerLocked()
		c.gen.Inc() // invalidate any in-flight fetch
		c.mu.Unlock()
		c.publish()
		return
	}

	if c.record == nil || c.record.CaseID != record.CaseID {
		// a different case is now persisted, the old snapshot is useless
		c.snapshot = nil
	}
	c.record = record
	c.state = StateResolving
	c.stopTickerLocked()
	gen := c.gen.Inc()
	c.mu.Unlock()
	c.publish()

	go c.fetchSnapshot(gen, record.CaseID)
}

func (c *Controller) fetchSnapshot(gen uint64, caseID string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	start := time.Now()
	snapshot, err := c.client.FetchCase(ctx, caseID)
	c.metrics.ObserveFetchDuration(time.Since(start))

	if gen != c.gen.Load() {
		// superseded by a later refresh, last issued wins
		return
	}

	if err != nil {
		var notFound *backend.NotFoundError
		if errors.As(err, &notFound) {
			c.metrics.IncFetches("not_found")
			c.logger.Infof(providers.TypeTimer, "Case %s no longer exists, clearing timer", caseID)
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Errorf(providers.TypeTimer, "Clearing timer record failed: %s", clearErr)
			}
			c.bus.Publish(bus.SignalCaseModalClose)
			c.bus.Publish(bus.SignalEditModalClose)
			return
		}

		c.metrics.IncFetches("error")
		c.logger.Warnf(providers.TypeTimer, "Snapshot fetch for case %s failed: %s", caseID, err)

		// the indicator never disappears on a transient failure: keep the
		// last known snapshot and re-derive from it
		c.mu.Lock()
		if gen == c.gen.Load() && c.snapshot != nil && c.snapshot.CaseID == caseID {
			c.deriveLocked()
		}
		c.mu.Unlock()
		c.publish()
		return
	}

	c.metrics.IncFetches("ok")

	c.mu.Lock()
	if gen != c.gen.Load() || c.record == nil || c.record.CaseID != caseID {
		c.mu.Unlock()
		return
	}
	c.snapshot = snapshot // full replacement, no partial merge
	c.deriveLocked()
	c.mu.Unlock()
	c.publish()
}

// deriveLocked settles the state from record + snapshot. A record without
// an open entry server-side goes straight to Paused; the intermediate
// stale reading is never observable.
func (c *Controller) deriveLocked() {
	if c.record == nil {
		c.state = StateIdle
		c.stopTickerLocked()
		return
	}
	if c.snapshot == nil {
		c.state = StateResolving
		c.stopTickerLocked()
		return
	}
	if c.snapshot.OpenEntry() != nil {
		c.state = StateRunning
		c.startTickerLocked()
	} else {
		c.state = StatePaused
		c.stopTickerLocked()
	}
}

// Start opens a production entry for the case. The persisted record is
// only written after the backend confirms; a failure leaves everything in
// its pre-action state.
func (c *Controller) Start(ctx context.Context, caseID string) (string, error) {
	if caseID == "" {
		return "", ErrMissingCaseID
	}
	if err := c.beginAction(); err != nil {
		return "", err
	}
	defer c.endAction()

	message, err := c.client.StartTimer(ctx, caseID)
	if err != nil {
		c.logger.Warnf(providers.TypeTimer, "Start for case %s failed: %s", caseID, err)
		return "", err
	}

	record := &models.ActiveTimerRecord{CaseID: caseID, StartedAt: c.now()}
	if err := c.store.Save(record); err != nil {
		c.logger.Errorf(providers.TypeTimer, "Persisting timer record failed: %s", err)
		return message, err
	}
	c.journal.Record(models.TransitionStart, caseID)
	c.metrics.IncTransitions(string(models.TransitionStart))
	return message, nil
}

// Stop closes the open production entry. The record is deliberately kept:
// the indicator stays visible until the user dismisses or finalizes. A
// backend "nothing open" rejection counts as success, the snapshot refresh
// settles the state into Paused either way.
func (c *Controller) Stop(ctx context.Context, caseID string) (string, error) {
	if caseID == "" {
		c.mu.Lock()
		if c.record != nil {
			caseID = c.record.CaseID
		}
		c.mu.Unlock()
	}
	if caseID == "" {
		return "", ErrNoActiveCase
	}
	if err := c.beginAction(); err != nil {
		return "", err
	}
	defer c.endAction()

	message, err := c.client.StopTimer(ctx, caseID)
	if err != nil {
		if backend.IsBusinessRejection(err) {
			c.logger.Infof(providers.TypeTimer, "Stop for case %s had no open entry: %s", caseID, err)
			c.bus.Publish(bus.SignalTimerChanged)
			return "", nil
		}
		c.logger.Warnf(providers.TypeTimer, "Stop for case %s failed: %s", caseID, err)
		return "", err
	}

	c.journal.Record(models.TransitionStop, caseID)
	c.metrics.IncTransitions(string(models.TransitionStop))
	c.bus.Publish(bus.SignalTimerChanged)
	return message, nil
}

// Dismiss removes the persisted record. It is the only path besides
// finalization and case deletion that does.
func (c *Controller) Dismiss() error {
	if err := c.beginAction(); err != nil {
		return err
	}
	defer c.endAction()

	c.mu.Lock()
	record := c.record
	c.mu.Unlock()
	if record == nil {
		return nil
	}

	if err := c.store.Clear(); err != nil {
		return err
	}
	c.journal.Record(models.TransitionDismiss, record.CaseID)
	c.metrics.IncTransitions(string(models.TransitionDismiss))
	return nil
}

// Finalize closes out the active case and clears the record, asking any
// open case surfaces to close.
func (c *Controller) Finalize(ctx context.Context) error {
	if err := c.beginAction(); err != nil {
		return err
	}
	defer c.endAction()

	c.mu.Lock()
	record := c.record
	c.mu.Unlock()
	if record == nil {
		return ErrNoActiveCase
	}

	if err := c.client.Finalize(ctx, record.CaseID); err != nil {
		c.logger.Warnf(providers.TypeTimer, "Finalize for case %s failed: %s", record.CaseID, err)
		return err
	}

	if err := c.store.Clear(); err != nil {
		c.logger.Errorf(providers.TypeTimer, "Clearing timer record failed: %s", err)
	}
	c.journal.Record(models.TransitionFinalize, record.CaseID)
	c.metrics.IncTransitions(string(models.TransitionFinalize))
	c.bus.Publish(bus.SignalCaseModalClose)
	c.bus.Publish(bus.SignalEditModalClose)
	return nil
}

func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
	}
	c.mu.Lock()
	c.stopTickerLocked()
	c.observers = make(map[int]func(View))
	c.mu.Unlock()
}

func (c *Controller) beginAction() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrActionInFlight
	}
	c.inFlight = true
	return nil
}

func (c *Controller) endAction() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) publish() {
	c.mu.Lock()
	view := c.viewLocked()
	observers := make([]func(View), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	c.metrics.SetTimerRunning(view.State == StateRunning)
	for _, fn := range observers {
		fn(view)
	}
}

func (c *Controller) startTickerLocked() {
	if c.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	c.tickStop = stop

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.publish()
			}
		}
	}()
}

func (c *Controller) stopTickerLocked() {
	if c.tickStop != nil {
		close(c.tickStop)
		c.tickStop = nil
	}
}
