/*
Copyright © 2026 the LDAR-Sim-Go authors.
This file is part of ldarsim.

ldarsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ldarsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ldarsim.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package kmeans implements a small, deterministic Lloyd's-algorithm
// k-means clusterer with k-means++ initialization, used to assign
// crews to geographic clusters of sites.
package kmeans

import "math/rand"

// Point is a 2-D coordinate to cluster, typically (lat, lon).
type Point struct {
	X, Y float64
}

func sqDist(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// Cluster partitions points into k clusters using Lloyd's algorithm
// seeded with a k-means++ initialization, iterating until assignments
// stop changing or maxIter is reached. It returns a label 0..k-1 per
// point, in the same order as points. rng must be seeded explicitly by
// the caller so runs are reproducible.
func Cluster(points []Point, k int, maxIter int, rng *rand.Rand) []int {
	n := len(points)
	labels := make([]int, n)
	if n == 0 || k <= 0 {
		return labels
	}
	if k >= n {
		for i := range labels {
			labels[i] = i % k
		}
		return labels
	}

	centers := seedPlusPlus(points, k, rng)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, sqDist(p, centers[0])
			for c := 1; c < k; c++ {
				if d := sqDist(p, centers[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		sums := make([]Point, k)
		counts := make([]int, k)
		for i, p := range points {
			c := labels[i]
			sums[c].X += p.X
			sums[c].Y += p.Y
			counts[c]++
		}
		for c := range centers {
			if counts[c] == 0 {
				continue // keep the previous center for an emptied cluster
			}
			centers[c] = Point{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
		}

		if !changed && iter > 0 {
			break
		}
	}
	return labels
}

// seedPlusPlus picks k initial centers using the k-means++ weighted
// sampling rule: each subsequent center is drawn with probability
// proportional to its squared distance from the nearest existing
// center.
func seedPlusPlus(points []Point, k int, rng *rand.Rand) []Point {
	centers := make([]Point, 0, k)
	centers = append(centers, points[rng.Intn(len(points))])

	dist := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			best := sqDist(p, centers[0])
			for _, c := range centers[1:] {
				if d := sqDist(p, c); d < best {
					best = d
				}
			}
			dist[i] = best
			total += best
		}
		if total == 0 {
			// All remaining points coincide with existing centers.
			centers = append(centers, points[rng.Intn(len(points))])
			continue
		}
		target := rng.Float64() * total
		var cum float64
		for i, d := range dist {
			cum += d
			if cum >= target {
				centers = append(centers, points[i])
				break
			}
		}
	}
	return centers
}
