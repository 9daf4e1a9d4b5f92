package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/skycastapp/skycast/internal/metrics"
	"github.com/skycastapp/skycast/internal/weather"
)

// Provider is the slice of the weather API the controller consumes.
type Provider interface {
	SearchPlaces(ctx context.Context, query string, limit int) ([]weather.Place, error)
	FetchCurrent(ctx context.Context, query string) (weather.CurrentObservation, error)
	FetchForecast(ctx context.Context, query string) ([]weather.ForecastSample, error)
}

// Snapshot is the complete observable state at one point in time. The
// view layer only ever sees whole snapshots; there are no partial
// updates. Model and Error can coexist: a failed refresh sets Error but
// keeps the last good model on screen.
type Snapshot struct {
	Query           string                `json:"query"`
	Suggestions     []weather.Place       `json:"suggestions"`
	ShowSuggestions bool                  `json:"show_suggestions"`
	Loading         bool                  `json:"loading"`
	Error           string                `json:"error,omitempty"`
	Model           *weather.DisplayModel `json:"model,omitempty"`
	Night           bool                  `json:"night"`
}

const (
	minQueryRunes          = 2
	suggestionLimit        = 5
	defaultSuggestDebounce = 500 * time.Millisecond
	defaultVoiceDebounce   = 500 * time.Millisecond
	defaultVoiceStopDelay  = time.Second
	searchTimeout          = 15 * time.Second
	suggestionTimeout      = 10 * time.Second
)

// Controller owns all shared display state. Every mutation, regardless
// of which background operation produced it, funnels through the
// controller's lock, and subscribers receive snapshot copies.
type Controller struct {
	provider Provider

	suggestDebounce *Debouncer
	voiceDebounce   *Debouncer
	voiceStopDelay  time.Duration
	now             func() time.Time

	mu           sync.Mutex
	snap         Snapshot
	subs         map[uint64]chan Snapshot
	nextSub      uint64
	searchSeq    uint64
	searchCancel context.CancelFunc
	voice        *voiceSession
	closed       bool
}

type ControllerOption func(*controllerConfig)

type controllerConfig struct {
	suggestDebounce time.Duration
	voiceDebounce   time.Duration
	voiceStopDelay  time.Duration
	now             func() time.Time
}

// WithSuggestDebounce overrides the quiet period before suggestion
// fetches.
func WithSuggestDebounce(d time.Duration) ControllerOption {
	return func(cfg *controllerConfig) { cfg.suggestDebounce = d }
}

// WithVoiceDebounce overrides the quiet period on the transcript stream.
func WithVoiceDebounce(d time.Duration) ControllerOption {
	return func(cfg *controllerConfig) { cfg.voiceDebounce = d }
}

// WithVoiceStopDelay overrides the delay before a voice session
// auto-stops after a transcript is adopted.
func WithVoiceStopDelay(d time.Duration) ControllerOption {
	return func(cfg *controllerConfig) { cfg.voiceStopDelay = d }
}

// WithClock injects the time source, used in tests.
func WithClock(now func() time.Time) ControllerOption {
	return func(cfg *controllerConfig) { cfg.now = now }
}

func NewController(provider Provider, opts ...ControllerOption) *Controller {
	cfg := controllerConfig{
		suggestDebounce: defaultSuggestDebounce,
		voiceDebounce:   defaultVoiceDebounce,
		voiceStopDelay:  defaultVoiceStopDelay,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Controller{
		provider:        provider,
		suggestDebounce: NewDebouncer(cfg.suggestDebounce),
		voiceDebounce:   NewDebouncer(cfg.voiceDebounce),
		voiceStopDelay:  cfg.voiceStopDelay,
		now:             cfg.now,
		subs:            make(map[uint64]chan Snapshot),
	}
}

// Run drives the theme: while a model is present, the local clock and
// day/night flags are re-derived from its UTC offset once a second. It
// blocks until ctx is cancelled, then tears the controller down.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-ticker.C:
			c.refreshTheme()
		}
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a state feed. The channel immediately carries the
// current snapshot, then one per published change. Slow consumers miss
// intermediate snapshots rather than blocking the controller. The
// returned func cancels the subscription.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Snapshot, 8)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// SetQuery records a text-input change. Short queries clear the
// suggestion panel synchronously; anything else schedules a debounced
// suggestion fetch, superseding any pending one.
func (c *Controller) SetQuery(text string) {
	trimmed := strings.TrimSpace(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.snap.Query = text
	if utf8.RuneCountInString(trimmed) < minQueryRunes {
		c.suggestDebounce.Cancel()
		c.snap.Suggestions = nil
		c.snap.ShowSuggestions = false
		c.publishLocked()
		c.mu.Unlock()
		return
	}
	c.publishLocked()
	c.mu.Unlock()

	c.suggestDebounce.Schedule(func(ctx context.Context) { c.fetchSuggestions(ctx, trimmed) })
}

func (c *Controller) fetchSuggestions(ctx context.Context, query string) {
	metrics.SuggestionFetchesTotal.Inc()

	ctx, cancel := context.WithTimeout(ctx, suggestionTimeout)
	defer cancel()
	places, err := c.provider.SearchPlaces(ctx, query, suggestionLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || ctx.Err() == context.Canceled {
		return
	}
	// The query moved on while we were fetching; drop the stale result.
	if strings.TrimSpace(c.snap.Query) != query {
		return
	}
	if err != nil {
		// Non-critical path: hide the panel, no user-visible error.
		log.Printf("controller: fetch suggestions %q: %v", query, err)
		c.snap.Suggestions = nil
		c.snap.ShowSuggestions = false
		c.publishLocked()
		return
	}
	c.snap.Suggestions = places
	c.snap.ShowSuggestions = len(places) > 0
	c.publishLocked()
}

// Search fetches current conditions and the 5-day aggregate for a city
// and publishes them as one display model. A new search supersedes any
// in-flight one: the old context is cancelled and its result, should it
// still arrive, is discarded by sequence number.
func (c *Controller) Search(text string) {
	query := strings.TrimSpace(text)
	if query == "" {
		// Nothing a request could be built from; deliberately silent.
		log.Printf("controller: ignoring empty search query")
		return
	}
	c.suggestDebounce.Cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.searchCancel != nil {
		c.searchCancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	c.searchCancel = cancel
	c.searchSeq++
	seq := c.searchSeq

	c.snap.Query = text
	c.snap.Loading = true
	c.snap.Suggestions = nil
	c.snap.ShowSuggestions = false
	c.publishLocked()
	c.mu.Unlock()

	go c.runSearch(ctx, cancel, seq, query)
}

func (c *Controller) runSearch(ctx context.Context, cancel context.CancelFunc, seq uint64, query string) {
	defer cancel()
	metrics.SearchesTotal.Inc()

	var (
		wg      sync.WaitGroup
		obs     weather.CurrentObservation
		samples []weather.ForecastSample
		obsErr  error
		fcErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		obs, obsErr = c.provider.FetchCurrent(ctx, query)
	}()
	go func() {
		defer wg.Done()
		samples, fcErr = c.provider.FetchForecast(ctx, query)
	}()
	wg.Wait()

	err := obsErr
	if err == nil {
		err = fcErr
	}

	now := c.now()
	var model *weather.DisplayModel
	if err == nil {
		model = weather.ComposeDisplayModel(obs, samples, now)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.searchSeq {
		return // superseded; the newer search owns the state
	}
	c.snap.Loading = false
	if err != nil {
		// Keep the previous model on screen; only the error changes.
		log.Printf("controller: search %q: %v", query, err)
		c.snap.Error = err.Error()
	} else {
		c.snap.Error = ""
		c.snap.Model = model
		c.snap.Night = weather.IsNight(model.OffsetSeconds, now)
	}
	c.publishLocked()
}

// refreshTheme re-derives the clock string and day/night flags from the
// active model's offset. The model is replaced wholesale with an updated
// copy so observers never see a half-written model.
func (c *Controller) refreshTheme() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.snap.Model == nil {
		return
	}

	localTime, period := weather.LocalClock(c.snap.Model.OffsetSeconds, now)
	daylight := period == weather.PeriodDay
	night := weather.IsNight(c.snap.Model.OffsetSeconds, now)

	if localTime == c.snap.Model.LocalTime && daylight == c.snap.Model.Daylight && night == c.snap.Night {
		return
	}

	model := *c.snap.Model
	model.LocalTime = localTime
	model.Daylight = daylight
	c.snap.Model = &model
	c.snap.Night = night
	c.publishLocked()
}

// Close cancels pending timers, in-flight searches, and any voice
// session, and ends all subscriptions. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.searchCancel != nil {
		c.searchCancel()
	}
	voice := c.voice
	c.voice = nil
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.suggestDebounce.Cancel()
	c.voiceDebounce.Cancel()
	if voice != nil {
		voice.src.Stop()
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := c.snap
	if snap.Suggestions != nil {
		snap.Suggestions = append([]weather.Place(nil), snap.Suggestions...)
	}
	return snap
}

func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
