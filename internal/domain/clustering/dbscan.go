package clustering

import "github.com/knguyen2000/officehourlens/pkg/vectors"

// dbscanLabels runs density-based clustering over points using cosine
// distance. A point with at least minPts neighbours within eps (itself
// included) seeds a cluster; membership spreads by transitive density
// reachability. Returns one label per point: -1 for noise, otherwise a
// zero-based cluster index in order of discovery.
func dbscanLabels(points [][]float32, eps float64, minPts int) []int {
	const (
		unvisited = -2
		noise     = -1
	)

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	nextCluster := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		neighbours := regionQuery(points, i, eps)
		if len(neighbours) < minPts {
			labels[i] = noise
			continue
		}

		cluster := nextCluster
		nextCluster++
		labels[i] = cluster

		queue := append([]int(nil), neighbours...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == noise {
				labels[j] = cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			more := regionQuery(points, j, eps)
			if len(more) >= minPts {
				queue = append(queue, more...)
			}
		}
	}
	return labels
}

// regionQuery returns the indexes within eps cosine distance of points[i],
// including i itself.
func regionQuery(points [][]float32, i int, eps float64) []int {
	var neighbours []int
	for j := range points {
		if vectors.CosineDistance(points[i], points[j]) <= eps {
			neighbours = append(neighbours, j)
		}
	}
	return neighbours
}
