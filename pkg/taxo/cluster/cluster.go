// Package cluster implements hierarchical agglomerative clustering
// over a condensed distance matrix, with dendrogram cutting.
package cluster

import (
	"math"
	"strings"

	"github.com/taxolab/taxo/pkg/taxo/corpus"
)

// Linkage selects the inter-cluster distance update rule.
type Linkage string

const (
	Single   Linkage = "single"
	Complete Linkage = "complete"
	Average  Linkage = "average"
	Ward     Linkage = "ward"
)

// ParseLinkage resolves a linkage name case-insensitively. The second
// return is false for unknown names.
func ParseLinkage(s string) (Linkage, bool) {
	switch strings.ToLower(s) {
	case "single":
		return Single, true
	case "complete":
		return Complete, true
	case "average":
		return Average, true
	case "ward":
		return Ward, true
	}
	return "", false
}

// AllLinkages lists every linkage name.
func AllLinkages() []Linkage {
	return []Linkage{Single, Complete, Average, Ward}
}

// Merge is one dendrogram step: clusters A and B joined at Distance
// into a cluster of Size points. Ids 0..N-1 are leaves; the m-th merge
// produces cluster id N+m.
type Merge struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// Dendrogram is the full merge history of N points: exactly N-1 merges
// for N >= 1.
type Dendrogram struct {
	Merges []Merge `json:"merges"`
	N      int     `json:"n"`
}

// HAC clusters n points given their condensed pairwise distances (see
// CondensedIndex for the layout). At each step the closest active pair
// merges; equal distances resolve to the pair holding the lowest
// original indices. Returns the merge history.
func HAC(condensed []float64, n int, linkage Linkage) *Dendrogram {
	dend := &Dendrogram{N: n}
	if n < 2 {
		return dend
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := condensed[CondensedIndex(i, j, n)]
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	active := make([]bool, n)
	sizes := make([]int, n)
	clusterID := make([]int, n)
	for i := 0; i < n; i++ {
		active[i] = true
		sizes[i] = 1
		clusterID[i] = i
	}

	dend.Merges = make([]Merge, 0, n-1)
	for m := 0; m < n-1; m++ {
		bestI, bestJ := -1, -1
		bestDist := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && dist[i][j] < bestDist {
					bestDist = dist[i][j]
					bestI, bestJ = i, j
				}
			}
		}

		newSize := sizes[bestI] + sizes[bestJ]
		dend.Merges = append(dend.Merges, Merge{
			A:        clusterID[bestI],
			B:        clusterID[bestJ],
			Distance: bestDist,
			Size:     newSize,
		})

		for k := 0; k < n; k++ {
			if !active[k] || k == bestI || k == bestJ {
				continue
			}
			ni := float64(sizes[bestI])
			nj := float64(sizes[bestJ])
			var d float64
			switch linkage {
			case Single:
				d = math.Min(dist[bestI][k], dist[bestJ][k])
			case Complete:
				d = math.Max(dist[bestI][k], dist[bestJ][k])
			case Average:
				d = (ni*dist[bestI][k] + nj*dist[bestJ][k]) / (ni + nj)
			default: // Ward via Lance-Williams
				nk := float64(sizes[k])
				total := ni + nj + nk
				d = ((ni+nk)*dist[bestI][k] + (nj+nk)*dist[bestJ][k] - nk*bestDist) / total
			}
			dist[bestI][k] = d
			dist[k][bestI] = d
		}

		active[bestJ] = false
		sizes[bestI] = newSize
		clusterID[bestI] = n + m
	}
	return dend
}

// Cut labels each original point with a cluster index 0..k-1 by
// undoing the last k-1 merges. Labels are assigned in order of first
// appearance, so point 0 always lands in label 0. k >= N returns each
// point in its own cluster.
func (d *Dendrogram) Cut(k int) []int {
	n := d.N
	if n == 0 {
		return nil
	}
	labels := make([]int, n)
	if k >= n {
		for i := range labels {
			labels[i] = i
		}
		return labels
	}

	numMerges := n - k
	if numMerges > len(d.Merges) {
		numMerges = len(d.Merges)
	}
	parent := make(map[int]int, 2*numMerges)
	for m := 0; m < numMerges; m++ {
		parent[d.Merges[m].A] = n + m
		parent[d.Merges[m].B] = n + m
	}

	labelOf := make(map[int]int, k)
	for i := 0; i < n; i++ {
		root := i
		for {
			p, ok := parent[root]
			if !ok {
				break
			}
			root = p
		}
		label, ok := labelOf[root]
		if !ok {
			label = len(labelOf)
			labelOf[root] = label
		}
		labels[i] = label
	}
	return labels
}

// CosineDistanceMatrix builds the condensed matrix of pairwise cosine
// distances (1 - similarity) between sparse TF-IDF vectors. Vectors
// with zero norm sit at distance 1 from everything.
func CosineDistanceMatrix(vectors []map[string]float64) []float64 {
	n := len(vectors)
	condensed := make([]float64, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			condensed[CondensedIndex(i, j, n)] = 1.0 - corpus.CosineSimilarity(vectors[i], vectors[j])
		}
	}
	return condensed
}

// CondensedIndex maps a pair (i, j) with i < j onto its slot in a
// condensed upper-triangular matrix of n points.
func CondensedIndex(i, j, n int) int {
	return i*n - i*(i+1)/2 + j - i - 1
}
