package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneguard/internal/collision"
)

func ttc(v float64) *float64 { return &v }

func newNamedGenerator() *Generator {
	g := NewGenerator()
	g.SetNames(map[string]string{"TC-1": "Crane 1", "TC-2": "Crane 2"})
	return g
}

func TestNormalProducesNothing(t *testing.T) {
	g := newNamedGenerator()
	_, ok := g.Generate(collision.Result{CraneA: "TC-1", CraneB: "TC-2", Level: collision.Normal})
	assert.False(t, ok)
	assert.Empty(t, g.Process([]collision.Result{{Level: collision.Normal}, {Level: collision.Normal}}))
}

func TestMessages(t *testing.T) {
	ts := time.Unix(1700000000, 0).UTC()
	tests := []struct {
		name  string
		res   collision.Result
		text  string
		voice string
		color string
	}{
		{
			name:  "danger",
			res:   collision.Result{CraneA: "TC-1", CraneB: "TC-2", Level: collision.Danger, CurrentDistance: 3.24, TimeToCollision: ttc(2)},
			text:  "Crane 1 <-> Crane 2: distance 3.2m - STOP IMMEDIATELY (DANGER)",
			voice: "Danger! Crane 1 and Crane 2 collision risk. Stop now. Distance 3 meters.",
			color: "#EF4444",
		},
		{
			name:  "warning with ttc",
			res:   collision.Result{CraneA: "TC-1", CraneB: "TC-2", Level: collision.Warning, CurrentDistance: 8, TimeToCollision: ttc(4.5)},
			text:  "Crane 1 <-> Crane 2: distance 8.0m - collision expected in 4.5s (WARNING)",
			voice: "Warning. Crane 2 approaching. Collision in 5 seconds. Distance 8 meters.",
			color: "#F97316",
		},
		{
			name:  "warning without ttc",
			res:   collision.Result{CraneA: "TC-1", CraneB: "TC-2", Level: collision.Warning, CurrentDistance: 9.6},
			text:  "Crane 1 <-> Crane 2: distance 9.6m (WARNING)",
			voice: "Warning. Watch Crane 2. Distance 10 meters.",
			color: "#F97316",
		},
		{
			name:  "caution with ttc and unknown name",
			res:   collision.Result{CraneA: "TC-1", CraneB: "TC-9", Level: collision.Caution, CurrentDistance: 42, TimeToCollision: ttc(27)},
			text:  "Crane 1 <-> TC-9: distance 42.0m - collision expected in 27.0s (CAUTION)",
			voice: "Caution. Watch TC-9. Distance 42 meters.",
			color: "#EAB308",
		},
	}
	g := newNamedGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.res.Timestamp = ts
			m, ok := g.Generate(tt.res)
			require.True(t, ok)
			assert.Equal(t, tt.text, m.Text)
			assert.Equal(t, tt.voice, m.Voice)
			assert.Equal(t, tt.color, m.Color)
			assert.Equal(t, tt.res.Level, m.Level)
			assert.Equal(t, tt.res.CurrentDistance, m.Distance)
			assert.Equal(t, tt.res.TimeToCollision, m.TimeToCollision)
			assert.Equal(t, ts, m.Timestamp)
		})
	}
}

func TestColorFallback(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, UnknownColor, g.Color(collision.Level(7)))
	g.SetColor(collision.Danger, "#000000")
	assert.Equal(t, "#000000", g.Color(collision.Danger))
	assert.Equal(t, "#EF4444", DefaultColors[collision.Danger], "defaults are not shared")
}

func TestNameTable(t *testing.T) {
	g := NewGenerator()
	g.SetName("TC-1", "North")
	assert.Equal(t, "North", g.Name("TC-1"))
	g.RemoveName("TC-1")
	assert.Equal(t, "TC-1", g.Name("TC-1"))
}

func TestProcessAndForCrane(t *testing.T) {
	g := newNamedGenerator()
	msgs := g.Process([]collision.Result{
		{CraneA: "TC-1", CraneB: "TC-2", Level: collision.Danger, CurrentDistance: 1},
		{CraneA: "TC-1", CraneB: "TC-3", Level: collision.Normal, CurrentDistance: 90},
		{CraneA: "TC-2", CraneB: "TC-3", Level: collision.Caution, CurrentDistance: 18},
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, collision.Danger, msgs[0].Level)
	assert.Equal(t, collision.Caution, msgs[1].Level)

	assert.Len(t, ForCrane("TC-2", msgs), 2)
	assert.Len(t, ForCrane("TC-3", msgs), 1)
	assert.Empty(t, ForCrane("TC-4", msgs))
}
