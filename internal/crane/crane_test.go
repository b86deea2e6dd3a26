package crane

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneguard/internal/config"
	"craneguard/internal/geometry"
)

func boolPtr(b bool) *bool { return &b }

func testConfig(id string) config.Crane {
	return config.Crane{
		ID:                  id,
		Name:                "Crane " + id,
		BaseX:               10,
		BaseY:               20,
		MastHeight:          40,
		BoomLength:          60,
		InitialSlewAngle:    350,
		InitialLuffingAngle: 10,
		SlewSpeed:           5,
		LuffingSpeed:        2,
	}
}

func TestNewAppliesDefaultsAndLimits(t *testing.T) {
	c, err := New(config.Crane{ID: "TC-9", BoomLength: 50, InitialSlewAngle: -30, InitialLuffingAngle: 120})
	require.NoError(t, err)
	assert.Equal(t, "TC-9", c.Name)
	assert.InDelta(t, 330, c.SlewAngle(), 1e-9)
	assert.Equal(t, geometry.MaxLuffing, c.LuffingAngle())
	assert.Zero(t, c.SlewSpeed())
	assert.True(t, c.Active())
}

func TestNewRejectsInvalid(t *testing.T) {
	for _, cfg := range []config.Crane{
		{ID: "", BoomLength: 50},
		{ID: "a", BoomLength: 0},
		{ID: "b", BoomLength: -3},
		{ID: "c", BoomLength: math.NaN()},
	} {
		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrInvalidCrane, "%+v", cfg)
	}
}

func TestDerivedGeometry(t *testing.T) {
	c, err := New(testConfig("TC-1"))
	require.NoError(t, err)
	assert.InDelta(t, 60*math.Cos(10*math.Pi/180), c.WorkingRadius(), 1e-9)
	assert.Equal(t, 60.0, c.MaxWorkingRadius())
	assert.Equal(t, geometry.BoomTip(c.Base(), 40, 60, 350, 10), c.Tip())
	seg := c.Segment()
	assert.Equal(t, geometry.Point3D{X: 10, Y: 20, Z: 40}, seg.Start)
	assert.Equal(t, c.Tip(), seg.End)
}

func TestAdvance(t *testing.T) {
	c, err := New(testConfig("TC-1"))
	require.NoError(t, err)
	now := time.Unix(100, 0)
	c.Advance(4, now)
	assert.InDelta(t, 10, c.SlewAngle(), 1e-9, "slew wraps past 360")
	assert.InDelta(t, 18, c.LuffingAngle(), 1e-9)
	assert.Equal(t, now, c.LastUpdate())

	c.Advance(100, now)
	assert.Equal(t, geometry.MaxLuffing, c.LuffingAngle())

	c.SetLuffingSpeed(-50)
	c.Advance(10, now)
	assert.Equal(t, geometry.MinLuffing, c.LuffingAngle())
}

func TestAdvanceInactiveIsNoop(t *testing.T) {
	cfg := testConfig("TC-1")
	cfg.Active = boolPtr(false)
	c, err := New(cfg)
	require.NoError(t, err)
	before := *c
	c.Advance(10, time.Now())
	assert.Equal(t, before, *c)
}

func TestSettersNormalize(t *testing.T) {
	c, err := New(testConfig("TC-1"))
	require.NoError(t, err)
	c.SetSlewAngle(-450)
	assert.InDelta(t, 270, c.SlewAngle(), 1e-9)
	c.SetLuffingAngle(-5)
	assert.Equal(t, 0.0, c.LuffingAngle())
	c.SetLuffingAngle(81)
	assert.Equal(t, 80.0, c.LuffingAngle())
	c.Stop()
	assert.False(t, c.Moving(0.01))
	c.SetSlewSpeed(-0.02)
	assert.True(t, c.Moving(0.01))
}

func TestRegistryOrderAndErrors(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"b", "a", "c"} {
		_, err := r.Add(testConfig(id))
		require.NoError(t, err)
	}
	_, err := r.Add(testConfig("a"))
	assert.True(t, errors.Is(err, ErrExists))

	ids := func(cs []*Crane) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids(r.All()))

	a, _ := r.Get("a")
	a.SetActive(false)
	assert.Equal(t, []string{"b", "c"}, ids(r.Active()))

	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, ids(r.All()))
	assert.Equal(t, map[string]string{"a": "Crane a", "c": "Crane c"}, r.Names())

	_, ok := r.Get("zzz")
	assert.False(t, ok)
}

func TestRegistryReplaceIsAtomic(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add(testConfig("keep"))
	require.NoError(t, err)

	err = r.Replace([]config.Crane{testConfig("x"), testConfig("x")})
	assert.ErrorIs(t, err, ErrExists)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Replace([]config.Crane{testConfig("x"), testConfig("y")}))
	assert.Equal(t, 2, r.Len())
	_, ok := r.Get("keep")
	assert.False(t, ok)
}
