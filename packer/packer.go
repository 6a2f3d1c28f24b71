package packer

import (
	"errors"
	"fmt"
	"sort"
)

// ForbiddenValue marks an unoccupied slot of the check array.
const ForbiddenValue = -1

var ErrTooLarge = errors.New("packed table exceeds the index limit")

// Vector is one sparse row to pack: parallel key/value lists with keys in
// ascending order. A vector whose key list is empty occupies no table
// space and keeps base 0.
type Vector struct {
	Keys   []int
	Values []int
}

func (v *Vector) tally() int {
	if v == nil {
		return 0
	}
	return len(v.Keys)
}

func (v *Vector) width() int {
	if v == nil || len(v.Keys) == 0 {
		return 0
	}
	return v.Keys[len(v.Keys)-1] - v.Keys[0] + 1
}

// PackedTable is the displacement triple. For every vector v with base b
// and every pair (key, value) of v, Table[b+key] == value and
// Check[b+key] == key; any slot whose Check entry differs from the probed
// key is empty. High is the highest index ever written.
type PackedTable struct {
	Bases []int
	Table []int
	Check []int
	High  int
}

type Packer struct {
	maxIndex int

	table []int
	check []int
	low   int
	high  int
}

// NewPacker returns a packer that fails with ErrTooLarge as soon as a
// placement would write past maxIndex.
func NewPacker(maxIndex int) *Packer {
	return &Packer{
		maxIndex: maxIndex,
	}
}

// Pack places every non-empty vector, widest first (ties broken by higher
// tally, then by lower vector number). Base 0 is never handed out so that
// zero can mean "empty vector" to the consumer. Vectors below shareLimit
// that are identical in keys and values share a single base; vectors at or
// above shareLimit are always placed on their own.
func (p *Packer) Pack(vecs []*Vector, shareLimit int) (*PackedTable, error) {
	var order []int
	for i, v := range vecs {
		if v.tally() > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		vi, vj := vecs[order[i]], vecs[order[j]]
		if vi.width() != vj.width() {
			return vi.width() > vj.width()
		}
		return vi.tally() > vj.tally()
	})

	p.table = make([]int, 1024)
	p.check = make([]int, 1024)
	for i := range p.check {
		p.check[i] = ForbiddenValue
	}
	p.low = 0
	p.high = 0

	bases := make([]int, len(vecs))
	var placed []int
	for n, vn := range order {
		var base int
		shared := false
		if vn < shareLimit {
			for prev := n - 1; prev >= 0; prev-- {
				vp := order[prev]
				cand := vecs[vp]
				cur := vecs[vn]
				if cand.width() != cur.width() || cand.tally() != cur.tally() {
					break
				}
				if vp >= shareLimit {
					continue
				}
				if vectorEqual(cand, cur) {
					base = bases[vp]
					shared = true
					break
				}
			}
		}
		if !shared {
			var err error
			base, err = p.place(vecs[vn], placed)
			if err != nil {
				return nil, err
			}
		}
		bases[vn] = base
		placed = append(placed, base)
	}

	return &PackedTable{
		Bases: bases,
		Table: p.table[:p.high+1],
		Check: p.check[:p.high+1],
		High:  p.high,
	}, nil
}

func vectorEqual(a, b *Vector) bool {
	for i, k := range a.Keys {
		if k != b.Keys[i] || a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

func (p *Packer) place(v *Vector, placed []int) (int, error) {
	for base := p.low - v.Keys[0]; ; base++ {
		if base == 0 {
			continue
		}

		ok := true
		for _, k := range v.Keys {
			loc := base + k
			if loc > p.maxIndex {
				return 0, fmt.Errorf("%w: index %v, limit %v", ErrTooLarge, loc, p.maxIndex)
			}
			p.grow(loc)
			if p.check[loc] != ForbiddenValue {
				ok = false
				break
			}
		}
		for _, b := range placed {
			if !ok {
				break
			}
			if b == base {
				ok = false
			}
		}
		if !ok {
			continue
		}

		for i, k := range v.Keys {
			loc := base + k
			p.table[loc] = v.Values[i]
			p.check[loc] = k
			if loc > p.high {
				p.high = loc
			}
		}
		for p.grow(p.low); p.check[p.low] != ForbiddenValue; p.low++ {
			p.grow(p.low + 1)
		}
		return base, nil
	}
}

func (p *Packer) grow(loc int) {
	if loc < len(p.table) {
		return
	}
	n := len(p.table)
	for n <= loc {
		n *= 2
	}
	table := make([]int, n)
	check := make([]int, n)
	copy(table, p.table)
	copy(check, p.check)
	for i := len(p.check); i < n; i++ {
		check[i] = ForbiddenValue
	}
	p.table = table
	p.check = check
}
