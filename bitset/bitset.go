package bitset

import (
	"fmt"
	"math/bits"
)

const wordSize = 64

// Matrix is a 2-D bitmap of rows × cols bits. Each row occupies a
// contiguous, word-aligned run of the backing slice, so row-wise OR and
// copy operate on whole words.
type Matrix struct {
	rows     int
	cols     int
	rowWords int
	words    []uint64
}

func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix dimensions must be >=1; rows: %v, cols: %v", rows, cols)
	}

	rowWords := (cols + wordSize - 1) / wordSize
	return &Matrix{
		rows:     rows,
		cols:     cols,
		rowWords: rowWords,
		words:    make([]uint64, rows*rowWords),
	}, nil
}

func (m *Matrix) Rows() int {
	return m.rows
}

func (m *Matrix) Cols() int {
	return m.cols
}

func (m *Matrix) Set(row, col int) {
	m.words[row*m.rowWords+col/wordSize] |= 1 << (col % wordSize)
}

func (m *Matrix) Test(row, col int) bool {
	return m.words[row*m.rowWords+col/wordSize]&(1<<(col%wordSize)) != 0
}

// MergeRow ORs a row of src into a row of m. The matrices must have the
// same column count; m and src may be the same matrix.
func (m *Matrix) MergeRow(dst int, src *Matrix, srcRow int) error {
	if src.cols != m.cols {
		return fmt.Errorf("column counts differ: %v and %v", m.cols, src.cols)
	}
	d := m.words[dst*m.rowWords : (dst+1)*m.rowWords]
	s := src.words[srcRow*src.rowWords : (srcRow+1)*src.rowWords]
	for i, w := range s {
		d[i] |= w
	}
	return nil
}

// CopyRow overwrites a row of m with a row of src.
func (m *Matrix) CopyRow(dst int, src *Matrix, srcRow int) error {
	if src.cols != m.cols {
		return fmt.Errorf("column counts differ: %v and %v", m.cols, src.cols)
	}
	copy(m.words[dst*m.rowWords:(dst+1)*m.rowWords], src.words[srcRow*src.rowWords:(srcRow+1)*src.rowWords])
	return nil
}

func (m *Matrix) ClearRow(row int) {
	d := m.words[row*m.rowWords : (row+1)*m.rowWords]
	for i := range d {
		d[i] = 0
	}
}

func (m *Matrix) RowEqual(a, b int) bool {
	ra := m.words[a*m.rowWords : (a+1)*m.rowWords]
	rb := m.words[b*m.rowWords : (b+1)*m.rowWords]
	for i, w := range ra {
		if w != rb[i] {
			return false
		}
	}
	return true
}

// ForEachSet calls f for every set bit of a row in ascending column order.
// f must not modify the row being iterated.
func (m *Matrix) ForEachSet(row int, f func(col int)) {
	base := row * m.rowWords
	for i := 0; i < m.rowWords; i++ {
		w := m.words[base+i]
		for w != 0 {
			f(i*wordSize + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}

// TransitiveClosure computes the transitive closure of a square relation
// in place by Warshall's method: for every column i, every row j that
// contains i absorbs row i. No change detection, no early exit.
func (m *Matrix) TransitiveClosure() error {
	if m.rows != m.cols {
		return fmt.Errorf("relation must be square; rows: %v, cols: %v", m.rows, m.cols)
	}
	for i := 0; i < m.cols; i++ {
		for j := 0; j < m.rows; j++ {
			if m.Test(j, i) {
				// The row-word loop is the only inner work; nothing allocates here.
				d := m.words[j*m.rowWords : (j+1)*m.rowWords]
				s := m.words[i*m.rowWords : (i+1)*m.rowWords]
				for k, w := range s {
					d[k] |= w
				}
			}
		}
	}
	return nil
}

// ReflexiveTransitiveClosure is TransitiveClosure plus the diagonal.
func (m *Matrix) ReflexiveTransitiveClosure() error {
	err := m.TransitiveClosure()
	if err != nil {
		return err
	}
	for i := 0; i < m.rows; i++ {
		m.Set(i, i)
	}
	return nil
}
