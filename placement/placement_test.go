// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package placement

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		id   int64
		want Category
	}{
		{0, Bauble},
		{1, Star},
		{2, Bell},
		{3, Gift},
		{4, Bauble},
		{41, Star},
		{-1, Gift},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryFor(tt.id), "id %d", tt.id)
	}
}

func TestSpan_DefaultTree(t *testing.T) {
	l := MustLayout(DefaultConfig())

	// Tier 2 is widest at y=300: 0.9*140 - 40 = 86 either side of 200
	spans := l.Span(300)
	require.Len(t, spans, 1)
	assert.InDelta(t, 114, spans[0].Lo, 1e-9)
	assert.InDelta(t, 286, spans[0].Hi, 1e-9)

	minY, maxY := l.Band()
	assert.InDelta(t, 40+160.0*40/90+bandInset, minY, 1e-9)
	assert.InDelta(t, 380, maxY, 1e-9)

	assert.Empty(t, l.Span(minY-1))
	assert.Empty(t, l.Span(maxY+1))
	assert.Empty(t, l.Span(450))
}

func TestSpan_DisjointTiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers = []Tier{
		{ApexY: 100, BaseY: 300, HalfWidth: 80, CenterX: 100},
		{ApexY: 100, BaseY: 300, HalfWidth: 80, CenterX: 300},
	}
	cfg.Trunk = Rect{MinX: 180, MinY: 300, MaxX: 220, MaxY: 360}
	cfg.FallbackY = 250
	cfg.CenterX = 100
	l := MustLayout(cfg)

	// half = 0.75*80 - 40 = 20
	spans := l.Span(250)
	require.Len(t, spans, 2)
	assert.Equal(t, Interval{Lo: 80, Hi: 120}, spans[0])
	assert.Equal(t, Interval{Lo: 280, Hi: 320}, spans[1])

	assert.True(t, l.Contains(300, 250))
	assert.False(t, l.Contains(200, 250))
}

func TestSettle_DisjointTiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers = []Tier{
		{ApexY: 180, BaseY: 300, HalfWidth: 80, CenterX: 100},
		{ApexY: 100, BaseY: 300, HalfWidth: 80, CenterX: 300},
	}
	cfg.Trunk = Rect{MinX: 180, MinY: 300, MaxX: 220, MaxY: 360}
	cfg.FallbackY = 255
	cfg.CenterX = 100
	l := MustLayout(cfg)

	// At y=240 only the right tier is open: 0.7*80 - 40 = 16 around 300
	spans := l.Span(240)
	require.Len(t, spans, 1)
	assert.InDelta(t, 284, spans[0].Lo, 1e-9)
	assert.InDelta(t, 316, spans[0].Hi, 1e-9)

	tests := []struct {
		name string
		in   Placement
		want Placement
	}{
		{"inside stays", Placement{ID: 1, X: 300, Y: 250}, Placement{ID: 1, X: 300, Y: 250}},
		{"gap recentered", Placement{ID: 2, X: 200, Y: 255}, Placement{ID: 2, X: 100, Y: 255, Fallback: true}},
		{"center not covered", Placement{ID: 3, X: 200, Y: 240}, Placement{ID: 3, X: 100, Y: 255, Fallback: true}},
		{"above band", Placement{ID: 4, X: 300, Y: 150}, Placement{ID: 4, X: 100, Y: 255, Fallback: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := []Placement{tt.in}
			l.settle(ps)
			assert.Equal(t, tt.want, ps[0])
			assert.True(t, l.Contains(ps[0].X, ps[0].Y))
		})
	}
}

func TestContains(t *testing.T) {
	l := MustLayout(DefaultConfig())

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 200, 300, true},
		{"inside left edge", 114.5, 300, true},
		{"left of padding", 113.5, 300, false},
		{"top tip", 200, 100, false},
		{"upper tier", 200, 150, true},
		{"trunk", 200, 450, false},
		{"below band", 200, 400, false},
		{"outside canvas", -10, 300, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Contains(tt.x, tt.y))
		})
	}
}

func TestPlace_ThreeMessages(t *testing.T) {
	cfg := DefaultConfig()
	l := MustLayout(cfg)

	placements := l.Place([]int64{1, 2, 3})
	require.Len(t, placements, 3)

	for i, p := range placements {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Equal(t, Categories[i+1], p.Category)
		assert.True(t, l.Contains(p.X, p.Y), "placement %d at (%.1f, %.1f) outside tree", p.ID, p.X, p.Y)
	}

	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			a, b := placements[i], placements[j]
			assert.Greater(t, math.Hypot(a.X-b.X, a.Y-b.Y), 0.0, "placements %d and %d coincide", a.ID, b.ID)
		}
	}
}

func TestPlace_Deterministic(t *testing.T) {
	l := MustLayout(DefaultConfig())
	ids := []int64{5, 17, 3, 99, 42, 8, 23, 61, 12, 30}

	first := l.Place(ids)
	second := l.Place(ids)
	shuffled := l.Place([]int64{42, 3, 99, 5, 30, 61, 17, 8, 12, 23})

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Place() not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, shuffled); diff != "" {
		t.Errorf("Place() depends on input order (-sorted +shuffled):\n%s", diff)
	}
}

func TestPlace_DuplicatesAndEmpty(t *testing.T) {
	l := MustLayout(DefaultConfig())

	assert.Empty(t, l.Place(nil))

	placements := l.Place([]int64{7, 7, 2, 2})
	require.Len(t, placements, 2)
	assert.Equal(t, int64(2), placements[0].ID)
	assert.Equal(t, int64(7), placements[1].ID)
}

func TestPlace_NonFallbackInvariants(t *testing.T) {
	cfg := DefaultConfig()
	l := MustLayout(cfg)

	for _, n := range []int{1, 5, 10, 20, 60, 150} {
		ids := make([]int64, n)
		for i := range ids {
			ids[i] = int64(i*7 + 1)
		}

		placements := l.Place(ids)
		require.Len(t, placements, n)

		for i, a := range placements {
			assert.True(t, l.Contains(a.X, a.Y), "n=%d id=%d outside tree", n, a.ID)
			for _, b := range placements[i+1:] {
				if a.Fallback || b.Fallback {
					continue
				}
				assert.GreaterOrEqual(t, math.Hypot(a.X-b.X, a.Y-b.Y), cfg.MinDistance,
					"n=%d ids %d and %d too close", n, a.ID, b.ID)
			}
		}
	}
}

func TestPlace_HighDensityFlagsFallback(t *testing.T) {
	l := MustLayout(DefaultConfig())

	ids := make([]int64, 200)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	placements := l.Place(ids)

	// The tree cannot hold 200 ornaments 60 units apart
	fallbacks := 0
	for _, p := range placements {
		if p.Fallback {
			fallbacks++
		}
	}
	assert.Positive(t, fallbacks)
}

func TestPercent(t *testing.T) {
	cfg := DefaultConfig()
	p := Placement{X: 100, Y: 250}

	left, top := p.Percent(cfg)
	assert.InDelta(t, 25, left, 1e-9)
	assert.InDelta(t, 50, top, 1e-9)
}

func TestNewLayout_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no tiers", func(c *Config) { c.Tiers = nil }},
		{"zero distance", func(c *Config) { c.MinDistance = 0 }},
		{"inverted tier", func(c *Config) { c.Tiers[0].BaseY = c.Tiers[0].ApexY }},
		{"narrow tier", func(c *Config) { c.Tiers[1].HalfWidth = c.Padding }},
		{"fallback outside", func(c *Config) { c.FallbackY = 10 }},
		{"zero columns", func(c *Config) { c.GridColumns = 0 }},
		{"no canvas", func(c *Config) { c.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewLayout(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	err := os.WriteFile(path, []byte("min_distance: 45\npadding: 30\nfallback_y: 280\n"), 0o644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 45.0, cfg.MinDistance)
	assert.Equal(t, 30.0, cfg.Padding)
	assert.Equal(t, 280.0, cfg.FallbackY)
	// Untouched fields keep their defaults
	assert.Equal(t, DefaultConfig().Tiers, cfg.Tiers)
	assert.Equal(t, 50, cfg.PerturbAttempts)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tiers: [oops"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("min_distance: -1\n"), 0o644))
	_, err = LoadConfig(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
