// Package lsh indexes MinHash signatures and SimHash fingerprints in
// banded buckets for near-neighbor candidate retrieval. Items sharing
// at least one band bucket become candidates; callers re-score
// candidates, since banding admits false positives.
package lsh

import (
	"encoding/binary"
	"sort"

	"github.com/dchest/siphash"
)

const bandHashKey = 0xCAFEBABE

// Index buckets MinHash signatures into bands of rows. bands*rows must
// not exceed the signature length; with 16 bands of 8 rows over a
// 128-entry signature the candidate threshold sits near 0.54 Jaccard.
type Index struct {
	bands   int
	rows    int
	buckets []map[uint64][]int
}

// NewIndex builds an index with the given banding shape.
func NewIndex(bands, rows int) *Index {
	return &Index{
		bands:   bands,
		rows:    rows,
		buckets: makeBuckets(bands),
	}
}

// NewDefaultIndex builds the 16x8 index matching 128-perm MinHash.
func NewDefaultIndex() *Index {
	return NewIndex(16, 8)
}

// Bands reports the band count.
func (x *Index) Bands() int {
	return x.bands
}

// Rows reports the rows hashed per band.
func (x *Index) Rows() int {
	return x.rows
}

// Insert files an item id under each band's bucket for the signature.
func (x *Index) Insert(id int, signature []uint64) {
	for band := 0; band < x.bands; band++ {
		key := hashBand(band, signature[band*x.rows:(band+1)*x.rows])
		x.buckets[band][key] = append(x.buckets[band][key], id)
	}
}

// Query returns the ids sharing at least one band bucket with the
// signature, ascending. An id previously inserted with this exact
// signature is included; callers filter self-matches.
func (x *Index) Query(signature []uint64) []int {
	seen := make(map[int]bool)
	for band := 0; band < x.bands; band++ {
		key := hashBand(band, signature[band*x.rows:(band+1)*x.rows])
		for _, id := range x.buckets[band][key] {
			seen[id] = true
		}
	}
	return sortedIDs(seen)
}

// CandidatePairs returns every deduplicated (i, j) bucket-sharing pair
// with i < j, ordered ascending.
func (x *Index) CandidatePairs() [][2]int {
	return collectPairs(x.buckets)
}

// SimHashIndex buckets 64-bit fingerprints by contiguous bit bands.
type SimHashIndex struct {
	bands       int
	bitsPerBand int
	buckets     []map[uint64][]int
}

// NewSimHashIndex builds an index splitting fingerprints into bands of
// bitsPerBand bits. bands*bitsPerBand must not exceed 64.
func NewSimHashIndex(bands, bitsPerBand int) *SimHashIndex {
	return &SimHashIndex{
		bands:       bands,
		bitsPerBand: bitsPerBand,
		buckets:     makeBuckets(bands),
	}
}

// NewDefaultSimHashIndex builds the 16x4 index covering all 64 bits.
func NewDefaultSimHashIndex() *SimHashIndex {
	return NewSimHashIndex(16, 4)
}

// Insert files an item id under each band's bit value.
func (x *SimHashIndex) Insert(id int, fingerprint uint64) {
	for band := 0; band < x.bands; band++ {
		key := extractBand(fingerprint, band, x.bitsPerBand)
		x.buckets[band][key] = append(x.buckets[band][key], id)
	}
}

// Query returns the ids sharing at least one band value, ascending.
func (x *SimHashIndex) Query(fingerprint uint64) []int {
	seen := make(map[int]bool)
	for band := 0; band < x.bands; band++ {
		key := extractBand(fingerprint, band, x.bitsPerBand)
		for _, id := range x.buckets[band][key] {
			seen[id] = true
		}
	}
	return sortedIDs(seen)
}

// CandidatePairs returns every deduplicated (i, j) bucket-sharing pair
// with i < j, ordered ascending.
func (x *SimHashIndex) CandidatePairs() [][2]int {
	return collectPairs(x.buckets)
}

func hashBand(band int, rows []uint64) uint64 {
	buf := make([]byte, 8*len(rows))
	for i, v := range rows {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return siphash.Hash(uint64(band), bandHashKey, buf)
}

func extractBand(fingerprint uint64, band, bitsPerBand int) uint64 {
	mask := uint64(1)<<bitsPerBand - 1
	return (fingerprint >> (band * bitsPerBand)) & mask
}

func makeBuckets(bands int) []map[uint64][]int {
	buckets := make([]map[uint64][]int, bands)
	for i := range buckets {
		buckets[i] = make(map[uint64][]int)
	}
	return buckets
}

func collectPairs(buckets []map[uint64][]int) [][2]int {
	seen := make(map[[2]int]bool)
	for _, bucketMap := range buckets {
		for _, items := range bucketMap {
			for i := 0; i < len(items); i++ {
				for j := i + 1; j < len(items); j++ {
					a, b := items[i], items[j]
					if a > b {
						a, b = b, a
					}
					seen[[2]int{a, b}] = true
				}
			}
		}
	}
	pairs := make([][2]int, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

func sortedIDs(seen map[int]bool) []int {
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
