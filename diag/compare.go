package diag

import (
	"fmt"
	"slices"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/signal"
)

// Mismatch describes how a reconstructed block differs from its expected image.
type Mismatch struct {
	Count      int   `json:"count"`
	FirstRow   int   `json:"first_row"`
	FirstCol   int   `json:"first_col"`
	MaxAbsDiff int64 `json:"max_abs_diff"`
}

// Equal reports whether no sample differed.
func (m Mismatch) Equal() bool {
	return m.Count == 0
}

func (m Mismatch) String() string {
	if m.Equal() {
		return "match"
	}

	return fmt.Sprintf("%d mismatches, first at (%d,%d), max abs diff %d", m.Count, m.FirstRow, m.FirstCol, m.MaxAbsDiff)
}

// Compare checks a block sample by sample against an expected image.
//
// FirstRow and FirstCol are -1 when everything matches.
//
// Returns ErrInvalidDimensions if the shapes differ.
func Compare(b Block, expected signal.Matrix[uint8]) (Mismatch, error) {
	if b.Shape != expected.Shape || len(b.Data) != len(expected.Data) {
		return Mismatch{}, fmt.Errorf("%w: block %s vs expected %s", errs.ErrInvalidDimensions, b.Shape, expected.Shape)
	}

	m := Mismatch{FirstRow: -1, FirstCol: -1}
	for i, got := range b.Data {
		diff := got - int64(expected.Data[i])
		if diff == 0 {
			continue
		}
		if m.Count == 0 {
			m.FirstRow, m.FirstCol = i/b.Shape.Width, i%b.Shape.Width
		}
		m.Count++
		m.MaxAbsDiff = max(m.MaxAbsDiff, abs(diff))
	}

	return m, nil
}

// DuplicateBlocks groups the indexes of blocks holding identical samples.
// Only groups with two or more blocks are returned, ordered by first index.
// A stuck pipeline shows up here as repeated outputs.
func DuplicateBlocks(blocks []Block) [][]int {
	byHash := make(map[uint64][]int, len(blocks))
	order := make([]uint64, 0, len(blocks))
	for i, b := range blocks {
		h := b.Fingerprint()
		if _, ok := byHash[h]; !ok {
			order = append(order, h)
		}
		byHash[h] = append(byHash[h], i)
	}

	var groups [][]int
	for _, h := range order {
		idx := byHash[h]
		if len(idx) < 2 {
			continue
		}
		// confirm against hash collisions
		first := blocks[idx[0]].Data
		group := []int{blocks[idx[0]].Index}
		for _, j := range idx[1:] {
			if slices.Equal(first, blocks[j].Data) {
				group = append(group, blocks[j].Index)
			}
		}
		if len(group) > 1 {
			groups = append(groups, group)
		}
	}

	return groups
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
