// Package selection provides the shared list cursor used by dropdown-style
// pickers. It tracks only an index; it knows nothing about the items.
package selection

// NoSelection is the cursor's initial index.
const NoSelection = -1

// Cursor is a linear list cursor with circular navigation. The zero value is
// a cursor over an empty list with nothing selected. Not safe for concurrent
// use; each picker owns its own cursor.
type Cursor struct {
	index    int
	count    int
	onSelect func(index int)
}

// NewCursor creates a cursor over count items. onSelect is invoked by
// SelectCurrent with the selected index; it may be nil.
func NewCursor(count int, onSelect func(index int)) *Cursor {
	if count < 0 {
		count = 0
	}
	return &Cursor{index: NoSelection, count: count, onSelect: onSelect}
}

// Index returns the current index, or NoSelection.
func (c *Cursor) Index() int {
	if c.index < 0 || c.index >= c.count {
		return NoSelection
	}
	return c.index
}

// Selected reports whether an item is currently selected.
func (c *Cursor) Selected() bool { return c.Index() != NoSelection }

// SetCount resizes the underlying list. A selection that falls outside the
// new bounds is cleared.
func (c *Cursor) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	c.count = count
	if c.index >= count {
		c.index = NoSelection
	}
}

// Move advances the cursor by delta (+1/-1), wrapping circularly. Moving from
// the no-selection state enters the list at the first or last item. Moving
// over an empty list does nothing.
func (c *Cursor) Move(delta int) {
	if c.count == 0 {
		return
	}
	if c.index == NoSelection {
		if delta >= 0 {
			c.index = 0
		} else {
			c.index = c.count - 1
		}
		return
	}
	c.index = ((c.index+delta)%c.count + c.count) % c.count
}

// SelectCurrent invokes the selection callback for the current item. It is a
// no-op in the no-selection state.
func (c *Cursor) SelectCurrent() {
	if !c.Selected() || c.onSelect == nil {
		return
	}
	c.onSelect(c.index)
}

// Clear returns the cursor to the no-selection state.
func (c *Cursor) Clear() {
	c.index = NoSelection
}
