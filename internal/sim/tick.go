package sim

import (
	"context"
	"time"

	"craneguard/internal/logging"
)

// Run ticks until the context is done or Stop is called. The stop flag and
// the context are checked before each tick; a started tick always completes.
// A Stop issued before Run makes it return without ticking.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Warn("simulator already running")
		return
	}
	s.running = true
	s.lastTick = s.now()
	s.mu.Unlock()

	log.Info("starting simulator", "site_id", s.siteID, "run_id", s.runID, "tick_interval", s.tickInterval)
	defer func() {
		s.mu.Lock()
		s.running = false
		s.stopRequested = false
		ticks := s.tickCount
		s.mu.Unlock()
		log.Info("stopping simulator", "ticks", ticks)
	}()

	for {
		if ctx.Err() != nil || s.stopping() {
			return
		}
		snap := s.tick(ctx)
		s.sinks.deliver(ctx, snap, s.metrics)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.tickInterval):
		}
	}
}

// Stop asks the loop to return after its current tick. The request is kept
// until a Run consumes it.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRequested = true
}

func (s *Simulator) stopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopRequested
}

// tick advances the cranes by the wall time since the previous tick scaled
// by the speed multiplier.
func (s *Simulator) tick(ctx context.Context) Snapshot {
	start := time.Now()
	s.mu.Lock()
	now := s.now()
	dt := now.Sub(s.lastTick).Seconds() * s.speedMultiplier
	if dt < 0 {
		dt = 0
	}
	s.lastTick = now
	snap := s.advanceLocked(dt, now)
	s.mu.Unlock()

	s.metrics.recordTick(ctx, time.Since(start), snap)
	return snap
}

// Step runs a single tick advancing dt simulated seconds. The speed
// multiplier is not applied and no sink is called.
func (s *Simulator) Step(dt float64) Snapshot {
	start := time.Now()
	s.mu.Lock()
	snap := s.advanceLocked(dt, s.now())
	s.mu.Unlock()

	s.metrics.recordTick(context.Background(), time.Since(start), snap)
	return snap
}

func (s *Simulator) advanceLocked(dt float64, now time.Time) Snapshot {
	all := s.registry.All()
	for _, c := range all {
		c.Advance(dt, now)
	}
	results := s.engine.CheckAll(all)
	s.lastAlerts = s.alerts.Process(results)
	s.tickCount++
	s.evaluated = true
	return buildSnapshot(all, results, s.lastAlerts, s.engine.Status(all), s.engine.Transitions(), s.metaLocked())
}
