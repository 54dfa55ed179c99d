package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_WalkForwardAndBack(t *testing.T) {
	c := NewCursor(3)
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.IsLast())

	assert.True(t, c.Next())
	assert.True(t, c.Next())
	assert.True(t, c.IsLast())
	assert.False(t, c.Next(), "last position is terminal")
	assert.Equal(t, 2, c.Index())

	assert.True(t, c.Back())
	assert.True(t, c.Back())
	assert.False(t, c.Back(), "back at zero signals exit")
	assert.Equal(t, 0, c.Index())
}

func TestCursor_SingleAndEmpty(t *testing.T) {
	single := NewCursor(1)
	assert.True(t, single.IsLast())
	assert.False(t, single.Next())
	assert.False(t, single.Back())

	empty := NewCursor(0)
	assert.False(t, empty.IsLast())
	assert.False(t, empty.Next())
	assert.False(t, empty.Back())
}
