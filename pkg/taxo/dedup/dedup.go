// Package dedup groups duplicate records with union-find over canonical-URL
// and fuzzy-content equivalence edges.
package dedup

import "strings"

// Strategy selects which duplicate signals feed the grouping.
type Strategy string

const (
	URL      Strategy = "url"
	Fuzzy    Strategy = "fuzzy"
	Combined Strategy = "combined"
)

// ParseStrategy resolves a strategy name case-insensitively. The second
// return is false for unknown names.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case URL:
		return URL, true
	case Fuzzy:
		return Fuzzy, true
	case Combined:
		return Combined, true
	}
	return "", false
}

// AllStrategies lists every strategy name.
func AllStrategies() []Strategy {
	return []Strategy{URL, Fuzzy, Combined}
}

// Result maps record indices to duplicate groups. A group's id is the
// smallest original index among its members.
type Result struct {
	groupID []int
}

// Groups unions records into duplicate groups. urlKeys maps record index to
// canonical URL key; records sharing a key are duplicates. fuzzyPairs are
// index pairs already judged near-duplicates. Either input may be empty.
func Groups(n int, urlKeys map[int]string, fuzzyPairs [][2]int) *Result {
	uf := newUnionFind(n)

	firstByKey := make(map[string]int, len(urlKeys))
	for i := 0; i < n; i++ {
		key, ok := urlKeys[i]
		if !ok || key == "" {
			continue
		}
		if first, seen := firstByKey[key]; seen {
			uf.union(first, i)
		} else {
			firstByKey[key] = i
		}
	}
	for _, p := range fuzzyPairs {
		uf.union(p[0], p[1])
	}

	groupID := make([]int, n)
	minOf := make(map[int]int, n)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if _, ok := minOf[root]; !ok {
			minOf[root] = i
		}
		groupID[i] = minOf[root]
	}
	return &Result{groupID: groupID}
}

// Len returns the number of records grouped.
func (r *Result) Len() int { return len(r.groupID) }

// GroupID returns the duplicate group of record i: the smallest original
// index in i's group.
func (r *Result) GroupID(i int) int { return r.groupID[i] }

// IsPrimary reports whether record i is its group's representative.
func (r *Result) IsPrimary(i int) bool { return r.groupID[i] == i }

// unionFind with path halving.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}
