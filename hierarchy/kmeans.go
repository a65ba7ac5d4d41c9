package hierarchy

import "math"

// k-means termination bounds. The iteration cap is a safety bound, not an
// expected stopping condition.
const (
	kmeansMaxIterations = 100
	kmeansEpsilon       = 1e-4
)

// kmeans partitions points into k clusters and returns the per-point
// cluster assignment and the final centroids. Initialization is
// deterministic (farthest-point from a fixed start), so identical input
// always yields identical output.
//
// kmeans is a stateless pure function over an owned slice of features: it
// never retains or mutates its input.
func kmeans(points [][]float64, k int) (assignments []int, centroids [][]float64) {
	n := len(points)
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}
	dims := len(points[0])

	centroids = initCentroids(points, k)
	assignments = make([]int, n)

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		// Assignment step. Ties go to the lowest cluster index.
		for i, p := range points {
			best := 0
			bestDist := distSq(p, centroids[0])
			for c := 1; c < k; c++ {
				if d := distSq(p, centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignments[i] = best
		}

		// Update step.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}

		movement := 0.0
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster on the point farthest
				// from its current centroid.
				far := farthestPoint(points, assignments, centroids)
				assignments[far] = c
				copy(sums[c], points[far])
				counts[c] = 1
			}
			for d := 0; d < dims; d++ {
				sums[c][d] /= float64(counts[c])
			}
			movement += math.Sqrt(distSq(sums[c], centroids[c]))
			centroids[c] = sums[c]
		}

		if movement < kmeansEpsilon {
			break
		}
	}

	return assignments, centroids
}

// initCentroids seeds k centroids with the farthest-point heuristic,
// starting from the point nearest the global mean. Fully deterministic.
func initCentroids(points [][]float64, k int) [][]float64 {
	dims := len(points[0])

	mean := make([]float64, dims)
	for _, p := range points {
		for d, v := range p {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= float64(len(points))
	}

	first := 0
	firstDist := distSq(points[0], mean)
	for i, p := range points[1:] {
		if d := distSq(p, mean); d < firstDist {
			firstDist = d
			first = i + 1
		}
	}

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[first]))

	for len(centroids) < k {
		best := -1
		bestDist := -1.0
		for i, p := range points {
			// Distance to the nearest chosen centroid.
			near := math.MaxFloat64
			for _, c := range centroids {
				if d := distSq(p, c); d < near {
					near = d
				}
			}
			if near > bestDist {
				bestDist = near
				best = i
			}
		}
		centroids = append(centroids, clonePoint(points[best]))
	}
	return centroids
}

// farthestPoint returns the index of the point farthest from its assigned
// centroid.
func farthestPoint(points [][]float64, assignments []int, centroids [][]float64) int {
	best := 0
	bestDist := -1.0
	for i, p := range points {
		if d := distSq(p, centroids[assignments[i]]); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func distSq(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
