package core

import (
	"fmt"
	"math"
)

// AliasTableElement is one bucket of an alias table: the bucket returns its own index
// when u < Tau and the alias J otherwise
type AliasTableElement struct {
	Tau float64
	J   int
}

// AliasTable samples a discrete distribution in O(1) after O(n) construction (Vose's method)
type AliasTable struct {
	elements []AliasTableElement
	probs    []float64 // normalized selection probabilities
}

// NewAliasTable builds an alias table proportional to weights.
// Negative, NaN and infinite weights count as zero. When every weight is zero the table
// selects uniformly. An empty weight list yields a table whose Sample returns -1.
func NewAliasTable(weights []float64) *AliasTable {
	n := len(weights)
	table := &AliasTable{
		elements: make([]AliasTableElement, n),
		probs:    make([]float64, n),
	}
	if n == 0 {
		return table
	}

	clean := make([]float64, n)
	total := 0.0
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 1) {
			clean[i] = w
			total += w
		}
	}
	if total == 0 {
		for i := range clean {
			clean[i] = 1
		}
		total = float64(n)
	}

	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range clean {
		table.probs[i] = w / total
		scaled[i] = table.probs[i] * float64(n)
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		g := large[len(large)-1]
		large = large[:len(large)-1]

		table.elements[l] = AliasTableElement{Tau: scaled[l], J: g}
		scaled[g] = (scaled[g] + scaled[l]) - 1
		if scaled[g] < 1 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}

	for _, g := range large {
		table.elements[g] = AliasTableElement{Tau: 1, J: g}
	}
	// Leftovers here are rounding residue. A zero-weight entry must never be selected,
	// so it aliases to the most probable entry instead of keeping itself.
	for _, l := range small {
		if clean[l] == 0 {
			table.elements[l] = AliasTableElement{Tau: 0, J: table.mostProbable()}
		} else {
			table.elements[l] = AliasTableElement{Tau: 1, J: l}
		}
	}

	return table
}

func (t *AliasTable) mostProbable() int {
	best := 0
	for i, p := range t.probs {
		if p > t.probs[best] {
			best = i
		}
	}
	return best
}

// Sample picks an index from two uniform values in [0,1): one selects the bucket,
// the other decides between the bucket and its alias. Returns -1 for an empty table.
func (t *AliasTable) Sample(bucketU, u float64) int {
	n := len(t.elements)
	if n == 0 {
		return -1
	}
	b := min(int(bucketU*float64(n)), n-1)
	if u < t.elements[b].Tau {
		return b
	}
	return t.elements[b].J
}

// Probability returns the selection probability of index i
func (t *AliasTable) Probability(i int) float64 {
	if i < 0 || i >= len(t.probs) {
		return 0
	}
	return t.probs[i]
}

// Len returns the number of entries
func (t *AliasTable) Len() int {
	return len(t.elements)
}

// Elements returns a copy of the table buckets
func (t *AliasTable) Elements() []AliasTableElement {
	out := make([]AliasTableElement, len(t.elements))
	copy(out, t.elements)
	return out
}

// String returns a string representation for debugging
func (t *AliasTable) String() string {
	if len(t.elements) == 0 {
		return "AliasTable{empty}"
	}
	result := fmt.Sprintf("AliasTable{%d entries:\n", len(t.elements))
	for i, e := range t.elements {
		result += fmt.Sprintf("  [%d] p=%.1f%% tau=%.3f alias=%d\n", i, t.probs[i]*100, e.Tau, e.J)
	}
	result += "}"
	return result
}
