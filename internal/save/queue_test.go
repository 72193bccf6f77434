package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedQueue_PushFrontEvictsOldest(t *testing.T) {
	q := NewBoundedQueue[int](3)

	assert.Nil(t, q.PushFront(1))
	assert.Nil(t, q.PushFront(2))
	assert.Nil(t, q.PushFront(3))
	assert.Equal(t, []int{1}, q.PushFront(4))

	assert.Equal(t, []int{4, 3, 2}, q.Items())
	assert.Equal(t, 3, q.Len())
}

func TestBoundedQueue_NeverExceedsLimit(t *testing.T) {
	for limit := 1; limit <= 5; limit++ {
		q := NewBoundedQueue[int](limit)
		for i := range 20 {
			q.PushFront(i)
			require.LessOrEqual(t, q.Len(), limit)
		}
		v, ok := q.At(0)
		require.True(t, ok)
		assert.Equal(t, 19, v)
	}
}

func TestBoundedQueue_SeedTruncated(t *testing.T) {
	q := NewBoundedQueue(2, "a", "b", "c")
	assert.Equal(t, []string{"a", "b"}, q.Items())
	assert.Equal(t, 2, q.Limit())
}

func TestBoundedQueue_Remove(t *testing.T) {
	q := NewBoundedQueue(5, "a", "b", "c")

	v, ok := q.Remove(1)
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, []string{"a", "c"}, q.Items())

	_, ok = q.Remove(2)
	assert.False(t, ok)
	_, ok = q.Remove(-1)
	assert.False(t, ok)
}

func TestBoundedQueue_ItemsIsCopy(t *testing.T) {
	q := NewBoundedQueue(2, 1, 2)
	items := q.Items()
	items[0] = 99

	v, _ := q.At(0)
	assert.Equal(t, 1, v)
}

func TestBoundedQueue_MinimumLimit(t *testing.T) {
	q := NewBoundedQueue[int](0)
	q.PushFront(1)
	q.PushFront(2)
	assert.Equal(t, []int{2}, q.Items())
}
