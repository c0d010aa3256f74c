package views

// listWindow tracks a selection in a list taller than the screen.
// The visible rows scroll so that the selection stays inside them.
type listWindow struct {
	size   int
	offset int
	cursor int
	total  int
}

func newListWindow(size int) *listWindow {
	if size <= 0 {
		size = 10
	}
	return &listWindow{size: size}
}

// SetTotal sets the number of items, clamping the selection
func (w *listWindow) SetTotal(total int) {
	w.total = total
	w.Select(w.cursor)
}

// SetSize changes the number of visible rows
func (w *listWindow) SetSize(size int) {
	if size > 0 {
		w.size = size
	}
	w.scroll()
}

// Cursor returns the selected index
func (w *listWindow) Cursor() int {
	return w.cursor
}

// Select moves the selection to i, clamped to the list
func (w *listWindow) Select(i int) {
	w.cursor = max(0, min(i, w.total-1))
	w.scroll()
}

// Move shifts the selection by delta rows
func (w *listWindow) Move(delta int) {
	w.Select(w.cursor + delta)
}

// Page shifts the selection by a screen
func (w *listWindow) Page(dir int) {
	w.Move(dir * w.size)
}

// Visible returns the half-open range of rows on screen
func (w *listWindow) Visible() (start, end int) {
	return w.offset, min(w.offset+w.size, w.total)
}

func (w *listWindow) scroll() {
	if w.cursor < w.offset {
		w.offset = w.cursor
	}
	if w.cursor >= w.offset+w.size {
		w.offset = w.cursor - w.size + 1
	}
	w.offset = max(0, min(w.offset, w.total-w.size))
}
