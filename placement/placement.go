// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package placement

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

// Category is the ornament drawn for a placement.
type Category string

const (
	Bauble Category = "bauble"
	Star   Category = "star"
	Bell   Category = "bell"
	Gift   Category = "gift"
)

// Categories is indexed by id mod 4.
var Categories = []Category{Bauble, Star, Bell, Gift}

// streamSalt keeps the per-id streams distinct from other PCG users seeded
// with small integers.
const streamSalt = 0x7472656531323235

// CategoryFor picks the ornament kind for an id.
func CategoryFor(id int64) Category {
	n := int64(len(Categories))
	return Categories[((id%n)+n)%n]
}

// Placement is the position of one ornament in canvas units.
type Placement struct {
	ID       int64    `json:"id" yaml:"id"`
	X        float64  `json:"x" yaml:"x"`
	Y        float64  `json:"y" yaml:"y"`
	Category Category `json:"category" yaml:"category"`
	// Fallback marks a placement that went through the last-resort clamp
	// or still overlaps a neighbour after relaxation.
	Fallback bool `json:"fallback" yaml:"fallback"`
}

// Percent converts the position to offsets relative to the canvas size.
func (p Placement) Percent(cfg Config) (left, top float64) {
	return p.X / cfg.Width * 100, p.Y / cfg.Height * 100
}

// Interval is a closed horizontal range [Lo, Hi].
type Interval struct {
	Lo, Hi float64
}

// Layout places ornaments inside a padded tree silhouette.
type Layout struct {
	cfg  Config
	minY float64
	maxY float64
}

// bandInset moves the top of the band below the first padded row of a
// tier, where the span still has zero width.
const bandInset = 1.0

// NewLayout validates cfg and precomputes the usable vertical band.
func NewLayout(cfg Config) (*Layout, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	l := &Layout{cfg: cfg, minY: math.Inf(1)}
	maxBase := math.Inf(-1)
	for _, t := range cfg.Tiers {
		// Padded span of a tier is empty until its half width exceeds the padding
		top := t.ApexY + (t.BaseY-t.ApexY)*cfg.Padding/t.HalfWidth + bandInset
		l.minY = math.Min(l.minY, top)
		maxBase = math.Max(maxBase, t.BaseY)
	}
	l.maxY = math.Min(maxBase, cfg.Trunk.MinY) - cfg.Padding
	if cfg.Trunk == (Rect{}) {
		l.maxY = maxBase - cfg.Padding
	}

	if l.minY >= l.maxY {
		return nil, fmt.Errorf("%w: padding leaves no room inside the tree", ErrInvalidConfig)
	}
	if !l.Contains(cfg.CenterX, cfg.FallbackY) {
		return nil, fmt.Errorf("%w: fallback point (%.0f, %.0f) is outside the tree", ErrInvalidConfig, cfg.CenterX, cfg.FallbackY)
	}
	return l, nil
}

// MustLayout is NewLayout for configurations known to be valid.
func MustLayout(cfg Config) *Layout {
	l, err := NewLayout(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) Config() Config {
	return l.cfg
}

// Band returns the vertical range in which placements may lie.
func (l *Layout) Band() (minY, maxY float64) {
	return l.minY, l.maxY
}

// Span returns the padded horizontal extent of the tree at height y as
// sorted, non-overlapping intervals. It is empty outside the band.
func (l *Layout) Span(y float64) []Interval {
	if y < l.minY || y > l.maxY {
		return nil
	}

	var spans []Interval
	for _, t := range l.cfg.Tiers {
		if y < t.ApexY || y > t.BaseY {
			continue
		}
		half := (y-t.ApexY)/(t.BaseY-t.ApexY)*t.HalfWidth - l.cfg.Padding
		if half <= 0 {
			continue
		}
		cx := l.cfg.tierCenter(t)
		spans = append(spans, Interval{Lo: cx - half, Hi: cx + half})
	}
	if len(spans) < 2 {
		return spans
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Lo < spans[j].Lo })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Lo <= last.Hi {
			last.Hi = math.Max(last.Hi, s.Hi)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Contains reports whether (x, y) lies inside the padded tree and outside
// the padded trunk.
func (l *Layout) Contains(x, y float64) bool {
	inside := false
	for _, s := range l.Span(y) {
		if x >= s.Lo && x <= s.Hi {
			inside = true
			break
		}
	}
	if !inside {
		return false
	}

	p := l.cfg.Padding
	tr := l.cfg.Trunk
	if tr != (Rect{}) && x > tr.MinX-p && x < tr.MaxX+p && y > tr.MinY-p && y < tr.MaxY+p {
		return false
	}
	return true
}

// Place positions one ornament per distinct id. The result is sorted by
// id and is identical for identical input sets.
func (l *Layout) Place(ids []int64) []Placement {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	placed := make([]Placement, 0, len(sorted))
	for _, id := range sorted {
		x, y, fallback := l.candidate(id, placed)
		placed = append(placed, Placement{
			ID:       id,
			X:        x,
			Y:        y,
			Category: CategoryFor(id),
			Fallback: fallback,
		})
	}

	l.relax(placed)
	l.settle(placed)
	return placed
}

func (l *Layout) stream(id int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(id), streamSalt))
}

// candidate walks the retry chain for one id: the seeded point, a grid of
// perturbations around it, a disk around the fallback point, and finally
// the fallback point itself.
func (l *Layout) candidate(id int64, placed []Placement) (x, y float64, fallback bool) {
	r := l.stream(id)
	fx, fy := r.Float64(), r.Float64()

	y = l.sampleY(fy)
	x = l.sampleX(fx, l.Span(y))
	if l.free(x, y, placed) {
		return x, y, false
	}

	cols := l.cfg.GridColumns
	rows := (l.cfg.PerturbAttempts + cols - 1) / cols
	step := l.cfg.MinDistance / 2
	for attempt := 0; attempt < l.cfg.PerturbAttempts; attempt++ {
		dx := (float64(attempt%cols) - float64(cols-1)/2) * step
		dy := (float64(attempt/cols) - float64(rows-1)/2) * step
		if l.free(x+dx, y+dy, placed) {
			return x + dx, y + dy, false
		}
	}

	for attempt := 0; attempt < l.cfg.DiskAttempts; attempt++ {
		angle := r.Float64() * 2 * math.Pi
		radius := math.Sqrt(r.Float64()) * l.cfg.DiskRadius
		cx := l.cfg.CenterX + radius*math.Cos(angle)
		cy := l.cfg.FallbackY + radius*math.Sin(angle)
		if l.free(cx, cy, placed) {
			return cx, cy, false
		}
	}

	return l.cfg.CenterX, l.cfg.FallbackY, true
}

// sampleY maps a fraction onto [minY, Height-Padding]. Samples that land
// in the trunk zone below the band are folded into the band just above it.
func (l *Layout) sampleY(f float64) float64 {
	bottom := l.cfg.Height - l.cfg.Padding
	if bottom < l.maxY {
		bottom = l.maxY
	}
	y := l.minY + f*(bottom-l.minY)
	if y <= l.maxY {
		return y
	}

	depth := (y - l.maxY) / (bottom - l.maxY)
	y = l.maxY - depth*2*l.cfg.Padding
	return math.Max(y, l.minY)
}

// sampleX maps a fraction across the total length of the spans.
func (l *Layout) sampleX(f float64, spans []Interval) float64 {
	total := 0.0
	for _, s := range spans {
		total += s.Hi - s.Lo
	}
	if total <= 0 {
		return l.cfg.CenterX
	}

	offset := f * total
	for _, s := range spans {
		width := s.Hi - s.Lo
		if offset <= width {
			return s.Lo + offset
		}
		offset -= width
	}
	return spans[len(spans)-1].Hi
}

func (l *Layout) free(x, y float64, placed []Placement) bool {
	if !l.Contains(x, y) {
		return false
	}
	for _, p := range placed {
		if math.Hypot(p.X-x, p.Y-y) < l.cfg.MinDistance {
			return false
		}
	}
	return true
}

// relax pushes every too-close pair apart along the line joining them and
// pulls moved points back inside horizontally.
func (l *Layout) relax(ps []Placement) {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			a, b := &ps[i], &ps[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			d := math.Hypot(dx, dy)
			if d >= l.cfg.MinDistance {
				continue
			}

			ux, uy := 1.0, 0.0
			if d > 0 {
				ux, uy = dx/d, dy/d
			}
			push := (l.cfg.MinDistance-d)/2 + l.cfg.RelaxMargin
			a.X -= ux * push
			a.Y -= uy * push
			b.X += ux * push
			b.Y += uy * push

			l.clampX(a)
			l.clampX(b)
		}
	}
}

func (l *Layout) clampX(p *Placement) {
	if l.Contains(p.X, p.Y) {
		return
	}
	spans := l.Span(p.Y)
	if len(spans) == 0 {
		return
	}

	best, bestDist := p.X, math.Inf(1)
	for _, s := range spans {
		cx := math.Min(math.Max(p.X, s.Lo), s.Hi)
		if d := math.Abs(cx - p.X); d < bestDist {
			best, bestDist = cx, d
		}
	}
	p.X = best
}

// settle re-centers anything relaxation left outside the tree and flags
// placements that still overlap. A point is re-centered only when the
// center line is inside the tree at its height; otherwise, as with tiers
// that do not cover CenterX, it moves to the fallback point.
func (l *Layout) settle(ps []Placement) {
	for i := range ps {
		p := &ps[i]
		if l.Contains(p.X, p.Y) {
			continue
		}
		p.Fallback = true
		if l.Contains(l.cfg.CenterX, p.Y) {
			p.X = l.cfg.CenterX
			continue
		}
		p.X, p.Y = l.cfg.CenterX, l.cfg.FallbackY
	}

	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y) < l.cfg.MinDistance {
				ps[i].Fallback = true
				ps[j].Fallback = true
			}
		}
	}
}
