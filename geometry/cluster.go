package geometry

import (
	"slices"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// Cluster is a group of nearby targets attacked together.
type Cluster struct {
	Targets []Target
}

func (c Cluster) Size() int { return len(c.Targets) }

// Centroid is the mean of the members' melee points.
func (c Cluster) Centroid() model.Point {
	var sum model.Point
	for _, t := range c.Targets {
		sum = sum.Add(t.Melee)
	}
	if len(c.Targets) == 0 {
		return sum
	}
	return sum.Scale(1 / float64(len(c.Targets)))
}

// BuildClusters merges targets whose melee points lie within mergeDistance
// of each other (transitively), orders each cluster's members by
// nearest-neighbour chaining from its first member, and orders the clusters
// the same way starting from the cluster holding the first target.
func BuildClusters(targets []Target, mergeDistance float64) []Cluster {
	n := len(targets)
	if n == 0 {
		return nil
	}
	uf := newUnionFind(n)
	limit := mergeDistance * mergeDistance
	for i := range n {
		for j := i + 1; j < n; j++ {
			if targets[i].Melee.DistanceSq(targets[j].Melee) <= limit {
				uf.union(i, j)
			}
		}
	}

	// Group by root in first-appearance order to stay deterministic.
	var roots []int
	members := map[int][]int{}
	for i := range n {
		r := uf.find(i)
		if _, seen := members[r]; !seen {
			roots = append(roots, r)
		}
		members[r] = append(members[r], i)
	}

	clusters := make([]Cluster, 0, len(roots))
	for _, r := range roots {
		idx := members[r]
		pts := make([]model.Point, len(idx))
		for k, i := range idx {
			pts[k] = targets[i].Melee
		}
		var c Cluster
		for _, k := range OrderNearestNeighbor(pts, 0) {
			c.Targets = append(c.Targets, targets[idx[k]])
		}
		clusters = append(clusters, c)
	}

	centroids := make([]model.Point, len(clusters))
	for i, c := range clusters {
		centroids[i] = c.Centroid()
	}
	ordered := make([]Cluster, 0, len(clusters))
	for _, i := range OrderNearestNeighbor(centroids, 0) {
		ordered = append(ordered, clusters[i])
	}
	return ordered
}

// Largest returns the indices of the largest and second-largest clusters by
// size, -1 when absent. Earlier clusters win ties.
func Largest(clusters []Cluster) (largest, second int) {
	largest, second = -1, -1
	for i, c := range clusters {
		switch {
		case largest < 0 || c.Size() > clusters[largest].Size():
			second = largest
			largest = i
		case second < 0 || c.Size() > clusters[second].Size():
			second = i
		}
	}
	return largest, second
}

// TargetCount sums the cluster sizes.
func TargetCount(clusters []Cluster) int {
	n := 0
	for _, c := range clusters {
		n += c.Size()
	}
	return n
}

// Flatten returns every target in cluster order.
func Flatten(clusters []Cluster) []Target {
	var out []Target
	for _, c := range clusters {
		out = slices.Concat(out, c.Targets)
	}
	return out
}
