// Simulator driving crane motion and collision checks
package sim

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"craneguard/internal/alert"
	"craneguard/internal/collision"
	"craneguard/internal/config"
	"craneguard/internal/crane"
	"craneguard/internal/scenario"
)

// Speed multiplier limits.
const (
	MinSpeedMultiplier = 0.1
	MaxSpeedMultiplier = 10.0
)

// Simulator owns the crane set and runs the collision and alert passes on
// every tick. All state is guarded by mu.
type Simulator struct {
	siteID       string
	runID        string
	cfg          *config.SiteConfig
	tickInterval time.Duration
	now          func() time.Time

	registry *crane.Registry
	engine   *collision.Engine
	alerts   *alert.Generator
	catalog  *scenario.Catalog
	metrics  *simMetrics
	sinks    *sinkSet

	speedMultiplier float64
	tickCount       int64
	running         bool
	stopRequested   bool
	activeScenario  string
	lastTick        time.Time
	lastAlerts      []alert.Message
	// evaluated is false once the crane set or an active flag changed after
	// the last tick.
	evaluated bool

	mu sync.Mutex
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithCatalog sets the scenario catalog used by ApplyScenario.
func WithCatalog(c *scenario.Catalog) Option {
	return func(s *Simulator) { s.catalog = c }
}

// WithMeter records simulator metrics on m.
func WithMeter(m metric.Meter) Option {
	return func(s *Simulator) { s.metrics = newSimMetrics(m) }
}

// WithClock overrides the wall clock used for ticks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// NewSimulator registers the configured cranes. When cfg names a scenario
// that the catalog knows, its cranes replace cfg.Cranes.
func NewSimulator(siteID string, cfg *config.SiteConfig, tickInterval time.Duration, opts ...Option) *Simulator {
	if cfg == nil {
		cfg = config.Default()
	} else {
		c := *cfg
		c.ApplyDefaults()
		cfg = &c
	}
	if tickInterval <= 0 {
		tickInterval = 100 * time.Millisecond
	}
	s := &Simulator{
		siteID:       siteID,
		runID:        uuid.NewString(),
		cfg:          cfg,
		tickInterval: tickInterval,
		now:          func() time.Time { return time.Now().UTC() },
		registry:     crane.NewRegistry(),
		alerts:       alert.NewGenerator(),
		sinks:        newSinkSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = scenario.NewCatalog()
	}
	if s.metrics == nil {
		s.metrics = newSimMetrics(nil)
	}
	s.speedMultiplier = clampSpeed(cfg.SpeedMultiplier)
	s.engine = collision.NewEngine(append(collision.FromConfig(cfg), collision.WithClock(s.now))...)
	for name, color := range cfg.Colors {
		l, err := collision.ParseLevel(name)
		if err != nil {
			slog.Warn("ignoring color for unknown level", "level", name)
			continue
		}
		s.alerts.SetColor(l, color)
	}

	cranes := cfg.Cranes
	if cfg.Scenario != "" {
		if sc, ok := s.catalog.Get(cfg.Scenario); ok {
			cranes = sc.Cranes
			s.activeScenario = sc.ID
		} else {
			slog.Warn("unknown scenario in site config", "scenario", cfg.Scenario)
		}
	}
	for _, c := range cranes {
		cr, err := s.registry.Add(c)
		if err != nil {
			slog.Warn("skipping crane", "crane_id", c.ID, "err", err)
			continue
		}
		s.alerts.SetName(cr.ID, cr.Name)
	}
	s.lastTick = s.now()
	return s
}

func clampSpeed(x float64) float64 {
	if x < MinSpeedMultiplier || math.IsNaN(x) {
		return MinSpeedMultiplier
	}
	if x > MaxSpeedMultiplier {
		return MaxSpeedMultiplier
	}
	return x
}

// SiteID returns the site identifier.
func (s *Simulator) SiteID() string { return s.siteID }

// RunID returns the id generated for this simulator instance.
func (s *Simulator) RunID() string { return s.runID }

// AddCrane registers a new crane. It fails with crane.ErrExists for a
// duplicate id.
func (s *Simulator) AddCrane(c config.Crane) (crane.Crane, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cr, err := s.registry.Add(c)
	if err != nil {
		return crane.Crane{}, err
	}
	s.alerts.SetName(cr.ID, cr.Name)
	s.evaluated = false
	return *cr, nil
}

// RemoveCrane unregisters a crane and reports whether it existed.
func (s *Simulator) RemoveCrane(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registry.Remove(id) {
		return false
	}
	s.alerts.RemoveName(id)
	s.evaluated = false
	return true
}

// Crane returns a copy of the crane with the given id.
func (s *Simulator) Crane(id string) (crane.Crane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.registry.Get(id)
	if !ok {
		return crane.Crane{}, false
	}
	return *c, true
}

// Cranes returns copies of all cranes in registration order.
func (s *Simulator) Cranes() []crane.Crane {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.registry.All()
	out := make([]crane.Crane, 0, len(all))
	for _, c := range all {
		out = append(out, *c)
	}
	return out
}

func (s *Simulator) withCrane(id string, fn func(*crane.Crane)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.registry.Get(id)
	if !ok {
		return false
	}
	fn(c)
	return true
}

// SetSlewSpeed sets the slew speed in degrees per second.
func (s *Simulator) SetSlewSpeed(id string, v float64) bool {
	return s.withCrane(id, func(c *crane.Crane) { c.SetSlewSpeed(v) })
}

// SetLuffingSpeed sets the luffing speed in degrees per second.
func (s *Simulator) SetLuffingSpeed(id string, v float64) bool {
	return s.withCrane(id, func(c *crane.Crane) { c.SetLuffingSpeed(v) })
}

// SetSlewAngle moves the boom to deg, normalized into [0, 360).
func (s *Simulator) SetSlewAngle(id string, deg float64) bool {
	return s.withCrane(id, func(c *crane.Crane) { c.SetSlewAngle(deg) })
}

// SetLuffingAngle moves the boom to deg, clamped to the luffing range.
func (s *Simulator) SetLuffingAngle(id string, deg float64) bool {
	return s.withCrane(id, func(c *crane.Crane) { c.SetLuffingAngle(deg) })
}

// SetActive includes or excludes a crane from the pair checks.
func (s *Simulator) SetActive(id string, active bool) bool {
	return s.withCrane(id, func(c *crane.Crane) {
		if c.Active() != active {
			s.evaluated = false
		}
		c.SetActive(active)
	})
}

// StopAll zeroes the speeds of every crane.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.registry.All() {
		c.Stop()
	}
}

// ApplyScenario replaces the crane set with a catalog scenario. Unknown ids
// return false and leave the site untouched.
func (s *Simulator) ApplyScenario(id string) bool {
	sc, ok := s.catalog.Get(id)
	if !ok {
		return false
	}
	return s.ReplaceAll(sc.Cranes, sc.ID) == nil
}

// ReplaceAll swaps the whole crane set, clears the engine history and the
// tick count and records scenarioID as active.
func (s *Simulator) ReplaceAll(cranes []config.Crane, scenarioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registry.Replace(cranes); err != nil {
		return err
	}
	s.engine.Reset()
	s.alerts.SetNames(s.registry.Names())
	s.tickCount = 0
	s.activeScenario = scenarioID
	s.lastAlerts = nil
	s.evaluated = false
	return nil
}

// Scenarios lists the scenarios that ApplyScenario accepts.
func (s *Simulator) Scenarios() []scenario.Summary {
	return s.catalog.List()
}

// ActiveScenario returns the id of the last applied scenario.
func (s *Simulator) ActiveScenario() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeScenario
}

// SetSpeedMultiplier clamps x to [MinSpeedMultiplier, MaxSpeedMultiplier]
// and returns the applied value.
func (s *Simulator) SetSpeedMultiplier(x float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speedMultiplier = clampSpeed(x)
	return s.speedMultiplier
}

// SpeedMultiplier returns the current time scale.
func (s *Simulator) SpeedMultiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speedMultiplier
}

// Running reports whether Run is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TickCount returns the number of ticks since start or the last scenario.
func (s *Simulator) TickCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount
}

// Subscribe registers a sink for every future snapshot and returns its id.
// By default a sink whose write fails is unsubscribed.
func (s *Simulator) Subscribe(sink SnapshotSink, opts ...SubscribeOption) string {
	return s.sinks.add(sink, opts...)
}

// Unsubscribe removes a sink and reports whether it was registered.
func (s *Simulator) Unsubscribe(id string) bool {
	return s.sinks.remove(id)
}

// Snapshot returns the current site state. If the crane set changed since
// the last tick the pairs are re-evaluated without touching the event log.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.registry.All()
	if s.evaluated {
		return buildSnapshot(all, s.engine.LastResults(), s.lastAlerts, s.engine.Status(all), s.engine.Transitions(), s.metaLocked())
	}
	results := s.engine.Evaluate(all)
	msgs := s.alerts.Process(results)
	st := collision.Summarize(all, results, s.engine.Events(), s.cfg.EventLog.Recent)
	return buildSnapshot(all, results, msgs, st, nil, s.metaLocked())
}

// LastResults returns the results of the last tick.
func (s *Simulator) LastResults() []collision.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.LastResults()
}

// Status summarizes the results of the last tick.
func (s *Simulator) Status() collision.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Status(s.registry.All())
}

func (s *Simulator) metaLocked() SimulationState {
	return SimulationState{
		IsRunning:       s.running,
		TickCount:       s.tickCount,
		SpeedMultiplier: s.speedMultiplier,
		ActiveScenario:  s.activeScenario,
		SiteID:          s.siteID,
		RunID:           s.runID,
		Timestamp:       s.now(),
	}
}

// Subscribers returns the number of registered sinks.
func (s *Simulator) Subscribers() int {
	return s.sinks.len()
}
