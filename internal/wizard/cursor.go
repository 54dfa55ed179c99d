// Package wizard implements the business setup flow: the profile
// configuration step and the per-staff credential setup that follows it.
package wizard

// Cursor walks a fixed-length sequence one position at a time. Back at the
// first position is the caller's signal to leave the sequence entirely.
type Cursor struct {
	index int
	total int
}

func NewCursor(total int) *Cursor {
	if total < 0 {
		total = 0
	}
	return &Cursor{total: total}
}

func (c *Cursor) Index() int { return c.index }
func (c *Cursor) Total() int { return c.total }

// IsLast reports whether the cursor sits on the final position.
func (c *Cursor) IsLast() bool {
	return c.total > 0 && c.index == c.total-1
}

// Next advances the cursor. It returns false from the last position; the
// sequence is finished, not wrapped.
func (c *Cursor) Next() bool {
	if c.index >= c.total-1 {
		return false
	}
	c.index++
	return true
}

// Back steps the cursor backwards. It returns false at position zero, where
// backing out means exiting.
func (c *Cursor) Back() bool {
	if c.index == 0 {
		return false
	}
	c.index--
	return true
}
