// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package placement scatters guestbook ornaments over a tree silhouette.

The tree is the union of triangular tiers (each widening linearly from an
apex to a flat base) with a rectangular trunk below, all inset by a padding
margin. Each ornament is keyed by its message id; a PCG stream seeded from
the id supplies the fractions that pick its height and its position across
the tree's width at that height, so a layout is stable across reloads.

# Packing

Ids are processed in ascending order. A candidate closer than MinDistance to
an earlier ornament is retried on a grid of offsets, then inside a disk
around the fallback point, and finally clamped to the fallback point. A
relaxation pass then pushes overlapping pairs apart, and a last pass brings
any point that left the tree back inside it.

This is a heuristic. At high density the retry budgets run out and
ornaments may overlap; such placements carry Fallback = true. Every
returned placement lies inside the padded tree.

# Configuration

DefaultConfig describes a 400x500 canvas with three tiers. LoadConfig reads
overrides from YAML:

	min_distance: 50
	padding: 30
	tiers:
	  - {apex_y: 40, base_y: 200, half_width: 90}
*/
package placement
