package collision

import "craneguard/internal/crane"

// Status summarizes the site after a check.
type Status struct {
	TotalCranes  int
	ActiveCranes int
	TotalPairs   int
	StatusCounts map[Level]int
	HighestAlert Level
	// CraneAlerts holds the most severe level of any pair touching each
	// registered crane.
	CraneAlerts  map[string]Level
	RecentEvents []Event
}

// Status summarizes the stored results for cranes.
func (e *Engine) Status(cranes []*crane.Crane) Status {
	return Summarize(cranes, e.last, e.events, e.recent)
}

// Summarize builds a Status from explicit results and events, keeping only
// the last recent events.
func Summarize(cranes []*crane.Crane, results []Result, events []Event, recent int) Status {
	st := Status{
		TotalCranes:  len(cranes),
		TotalPairs:   len(results),
		StatusCounts: make(map[Level]int, len(Levels)),
		HighestAlert: Normal,
		CraneAlerts:  make(map[string]Level, len(cranes)),
	}
	for _, l := range Levels {
		st.StatusCounts[l] = 0
	}
	for _, c := range cranes {
		if c.Active() {
			st.ActiveCranes++
		}
		st.CraneAlerts[c.ID] = Normal
	}
	for _, r := range results {
		st.StatusCounts[r.Level]++
		st.HighestAlert = MaxLevel(st.HighestAlert, r.Level)
		for _, id := range []string{r.CraneA, r.CraneB} {
			if cur, ok := st.CraneAlerts[id]; !ok || r.Level > cur {
				st.CraneAlerts[id] = r.Level
			}
		}
	}
	if recent > 0 && len(events) > recent {
		events = events[len(events)-recent:]
	}
	if recent > 0 {
		st.RecentEvents = append([]Event(nil), events...)
	}
	return st
}
