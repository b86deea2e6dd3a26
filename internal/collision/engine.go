// Package collision evaluates every pair of active cranes each tick,
// classifies the risk and records level transitions.
package collision

import (
	"math"
	"time"

	"craneguard/internal/config"
	"craneguard/internal/crane"
	"craneguard/internal/geometry"
)

// PairKey identifies an unordered crane pair.
type PairKey struct {
	A, B string
}

// KeyOf returns the key of the pair (a, b) regardless of order.
func KeyOf(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Result is the outcome of checking one pair of cranes.
type Result struct {
	CraneA          string
	CraneB          string
	Level           Level
	CurrentDistance float64
	TipDistance     float64
	Overlap         bool
	// TimeToCollision is nil when no forecast sample came within the
	// safety margin.
	TimeToCollision      *float64
	MinPredictedDistance float64
	MinPredictedTime     float64
	Timestamp            time.Time
}

// Key returns the unordered pair key of r.
func (r Result) Key() PairKey { return KeyOf(r.CraneA, r.CraneB) }

// Involves reports whether id is one of the pair.
func (r Result) Involves(id string) bool { return r.CraneA == id || r.CraneB == id }

// Event records a level change of one pair between two checks.
type Event struct {
	CraneA    string
	CraneB    string
	From      Level
	To        Level
	Distance  float64
	Timestamp time.Time
}

// Engine runs pairwise checks and keeps the previous results and a bounded
// transition log. It is not safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	prediction Prediction
	maxEvents  int
	recent     int
	now        func() time.Time

	last        []Result
	transitions []Event
	events      []Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds sets the level thresholds.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithPrediction sets the forecast horizon, step and safety margin.
func WithPrediction(p Prediction) Option {
	return func(e *Engine) { e.prediction = p }
}

// WithEventLog bounds the transition log to size entries and the status
// summary to the last recent entries.
func WithEventLog(size, recent int) Option {
	return func(e *Engine) {
		e.maxEvents = size
		e.recent = recent
	}
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// FromConfig returns the options matching a site configuration.
func FromConfig(cfg *config.SiteConfig) []Option {
	return []Option{
		WithThresholds(ThresholdsFromConfig(cfg.Alerts)),
		WithPrediction(PredictionFromConfig(cfg.Prediction)),
		WithEventLog(cfg.EventLog.Size, cfg.EventLog.Recent),
	}
}

// NewEngine returns an engine using the stock site settings unless
// overridden by opts.
func NewEngine(opts ...Option) *Engine {
	def := config.Default()
	e := &Engine{now: func() time.Time { return time.Now().UTC() }}
	for _, o := range FromConfig(def) {
		o(e)
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Thresholds returns the configured level thresholds.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// CheckPair evaluates one pair at the current poses.
func (e *Engine) CheckPair(a, b *crane.Crane) Result {
	return e.checkPair(a, b, e.now())
}

func (e *Engine) checkPair(a, b *crane.Crane, ts time.Time) Result {
	tipA, tipB := a.Tip(), b.Tip()
	tipDist := geometry.Distance3D(tipA, tipB)
	res := Result{
		CraneA:               a.ID,
		CraneB:               b.ID,
		Level:                Normal,
		CurrentDistance:      tipDist,
		TipDistance:          tipDist,
		MinPredictedDistance: tipDist,
		Timestamp:            ts,
	}

	if !geometry.RadiiOverlap(a.Base(), a.WorkingRadius(), b.Base(), b.WorkingRadius()) {
		return res
	}
	res.Overlap = true
	res.CurrentDistance = a.Segment().Distance(b.Segment())

	if a.Moving(MotionThreshold) || b.Moving(MotionThreshold) {
		res.MinPredictedDistance, res.MinPredictedTime, res.TimeToCollision = e.forecast(a, b)
	}

	res.Level = e.thresholds.Classify(res.CurrentDistance, res.TimeToCollision)
	return res
}

// forecast samples future tip distances up to the horizon.
func (e *Engine) forecast(a, b *crane.Crane) (minDist, minTime float64, ttc *float64) {
	p := e.prediction
	minDist = math.Inf(1)
	if p.Step <= 0 {
		return geometry.Distance3D(a.Tip(), b.Tip()), 0, nil
	}
	samples := int(math.Floor(p.Horizon/p.Step + 1e-9))
	for i := 1; i <= samples; i++ {
		t := float64(i) * p.Step
		d := geometry.Distance3D(a.FutureTip(t), b.FutureTip(t))
		if d < minDist {
			minDist, minTime = d, t
		}
		if ttc == nil && d <= p.SafetyMargin {
			hit := t
			ttc = &hit
		}
	}
	if samples == 0 {
		minDist = geometry.Distance3D(a.Tip(), b.Tip())
	}
	return minDist, minTime, ttc
}

// Evaluate checks every pair of active cranes without touching the stored
// results or the event log.
func (e *Engine) Evaluate(cranes []*crane.Crane) []Result {
	ts := e.now()
	active := make([]*crane.Crane, 0, len(cranes))
	for _, c := range cranes {
		if c.Active() {
			active = append(active, c)
		}
	}
	results := make([]Result, 0, len(active)*(len(active)-1)/2+1)
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			results = append(results, e.checkPair(active[i], active[j], ts))
		}
	}
	return results
}

// CheckAll evaluates every pair of active cranes, logs level transitions
// against the previous call and replaces the stored results.
func (e *Engine) CheckAll(cranes []*crane.Crane) []Result {
	results := e.Evaluate(cranes)

	prev := make(map[PairKey]Level, len(e.last))
	for _, r := range e.last {
		prev[r.Key()] = r.Level
	}
	var transitions []Event
	for _, r := range results {
		old, ok := prev[r.Key()]
		if !ok || old == r.Level {
			continue
		}
		transitions = append(transitions, Event{
			CraneA:    r.CraneA,
			CraneB:    r.CraneB,
			From:      old,
			To:        r.Level,
			Distance:  r.CurrentDistance,
			Timestamp: r.Timestamp,
		})
	}
	e.appendEvents(transitions)

	e.transitions = transitions
	e.last = results
	return results
}

func (e *Engine) appendEvents(evs []Event) {
	e.events = append(e.events, evs...)
	if e.maxEvents > 0 && len(e.events) > e.maxEvents {
		e.events = append(e.events[:0], e.events[len(e.events)-e.maxEvents:]...)
	}
}

// LastResults returns a copy of the results of the last CheckAll.
func (e *Engine) LastResults() []Result {
	return append([]Result(nil), e.last...)
}

// Transitions returns the events logged by the last CheckAll.
func (e *Engine) Transitions() []Event {
	return append([]Event(nil), e.transitions...)
}

// Events returns a copy of the whole transition log, oldest first.
func (e *Engine) Events() []Event {
	return append([]Event(nil), e.events...)
}

// Reset forgets previous results and the transition log.
func (e *Engine) Reset() {
	e.last = nil
	e.transitions = nil
	e.events = nil
}
