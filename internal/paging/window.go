// Package paging models the fixed-size organisation window the tracker
// views the register through. All transitions are pure.
package paging

import (
	"strconv"
	"strings"
)

// PageSize is the number of organisations requested per window.
const PageSize = 20

// Window is a 1-based inclusive range of organisation positions.
type Window struct {
	From int
	To   int
}

// First returns the window for page 1.
func First() Window {
	return Window{From: 1, To: PageSize}
}

// Page returns the window for the 1-based page n.
func Page(n int) Window {
	from := (n-1)*PageSize + 1
	return Window{From: from, To: from + PageSize - 1}
}

// Prev moves back one page, floored at position 1.
func (w Window) Prev() Window {
	from := w.From - PageSize
	if from < 1 {
		from = 1
	}
	return Window{From: from, To: from + PageSize - 1}
}

// Next moves forward one page. There is no upper clamp; callers gate it
// with HasNext.
func (w Window) Next() Window {
	from := w.From + PageSize
	return Window{From: from, To: from + PageSize - 1}
}

// HasPrev reports whether Previous is enabled.
func (w Window) HasPrev() bool {
	return w.From > 1
}

// HasNext reports whether Next is enabled for a listing of total entries.
func (w Window) HasNext(total int) bool {
	return w.To < total
}

// ShownTo is the last position actually on screen.
func (w Window) ShownTo(total int) int {
	if w.To < total {
		return w.To
	}
	return total
}

// PageCount returns ceil(total / PageSize).
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// JumpTo parses a 1-based page number and returns its window. Input that is
// not an integer in [1, PageCount(total)] is rejected with ok=false.
func JumpTo(input string, total int) (w Window, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return Window{}, false
	}
	if n < 1 || n > PageCount(total) {
		return Window{}, false
	}
	return Page(n), true
}
