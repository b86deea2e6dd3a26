// Package alert turns collision results into operator-facing messages.
package alert

import (
	"fmt"
	"math"
	"time"

	"craneguard/internal/collision"
)

// DefaultColors maps each level to its display color.
var DefaultColors = map[collision.Level]string{
	collision.Normal:  "#22C55E",
	collision.Caution: "#EAB308",
	collision.Warning: "#F97316",
	collision.Danger:  "#EF4444",
}

// UnknownColor is used for levels missing from the color table.
const UnknownColor = "#FFFFFF"

// Message is one alert for a crane pair.
type Message struct {
	CraneA          string
	CraneB          string
	Level           collision.Level
	Text            string
	Voice           string
	Color           string
	Distance        float64
	TimeToCollision *float64
	Timestamp       time.Time
}

// Involves reports whether id is one of the pair.
func (m Message) Involves(id string) bool { return m.CraneA == id || m.CraneB == id }

// Generator formats messages using a crane display-name table.
type Generator struct {
	names  map[string]string
	colors map[collision.Level]string
}

// NewGenerator returns a generator with the default colors and no names.
func NewGenerator() *Generator {
	colors := make(map[collision.Level]string, len(DefaultColors))
	for l, c := range DefaultColors {
		colors[l] = c
	}
	return &Generator{names: make(map[string]string), colors: colors}
}

// SetName registers the display name for a crane id.
func (g *Generator) SetName(id, name string) { g.names[id] = name }

// RemoveName forgets the display name for a crane id.
func (g *Generator) RemoveName(id string) { delete(g.names, id) }

// SetNames replaces the whole name table.
func (g *Generator) SetNames(names map[string]string) {
	g.names = make(map[string]string, len(names))
	for id, n := range names {
		g.names[id] = n
	}
}

// SetColor overrides the color of one level.
func (g *Generator) SetColor(l collision.Level, color string) { g.colors[l] = color }

// Name returns the display name for id, or id itself.
func (g *Generator) Name(id string) string {
	if n, ok := g.names[id]; ok && n != "" {
		return n
	}
	return id
}

// Color returns the display color of a level.
func (g *Generator) Color(l collision.Level) string {
	if c, ok := g.colors[l]; ok {
		return c
	}
	return UnknownColor
}

// Generate builds the message for r. NORMAL results yield no message.
func (g *Generator) Generate(r collision.Result) (Message, bool) {
	if r.Level <= collision.Normal {
		return Message{}, false
	}
	a, b := g.Name(r.CraneA), g.Name(r.CraneB)
	return Message{
		CraneA:          r.CraneA,
		CraneB:          r.CraneB,
		Level:           r.Level,
		Text:            displayText(a, b, r),
		Voice:           voiceText(a, b, r),
		Color:           g.Color(r.Level),
		Distance:        r.CurrentDistance,
		TimeToCollision: r.TimeToCollision,
		Timestamp:       r.Timestamp,
	}, true
}

// Process builds messages for every result above NORMAL, in order.
func (g *Generator) Process(results []collision.Result) []Message {
	var out []Message
	for _, r := range results {
		if m, ok := g.Generate(r); ok {
			out = append(out, m)
		}
	}
	return out
}

// ForCrane keeps the messages that involve crane id.
func ForCrane(id string, msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Involves(id) {
			out = append(out, m)
		}
	}
	return out
}

func displayText(a, b string, r collision.Result) string {
	if r.Level == collision.Danger {
		return fmt.Sprintf("%s <-> %s: distance %.1fm - STOP IMMEDIATELY (DANGER)", a, b, r.CurrentDistance)
	}
	if r.TimeToCollision != nil {
		return fmt.Sprintf("%s <-> %s: distance %.1fm - collision expected in %.1fs (%s)", a, b, r.CurrentDistance, *r.TimeToCollision, r.Level)
	}
	return fmt.Sprintf("%s <-> %s: distance %.1fm (%s)", a, b, r.CurrentDistance, r.Level)
}

// voiceText is phrased for speech synthesis: whole numbers, short clauses.
func voiceText(a, b string, r collision.Result) string {
	dist := int(math.Round(r.CurrentDistance))
	switch r.Level {
	case collision.Danger:
		return fmt.Sprintf("Danger! %s and %s collision risk. Stop now. Distance %d meters.", a, b, dist)
	case collision.Warning:
		if r.TimeToCollision != nil {
			return fmt.Sprintf("Warning. %s approaching. Collision in %d seconds. Distance %d meters.", b, int(math.Round(*r.TimeToCollision)), dist)
		}
		return fmt.Sprintf("Warning. Watch %s. Distance %d meters.", b, dist)
	default:
		return fmt.Sprintf("Caution. Watch %s. Distance %d meters.", b, dist)
	}
}
