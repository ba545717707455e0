package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSize(t *testing.T) {
	for i := 0; i <= 33; i++ {
		t.Run(fmt.Sprintf("%d items", i), func(t *testing.T) {
			size := computeSize(i)
			assert.GreaterOrEqual(t, size, minSize)
			assert.Zero(t, size&(size+1), "expecting 2^n - 1, got %b", size)
			assert.GreaterOrEqual(t, size, i)
			if size > minSize {
				assert.Less(t, size>>1, i)
			}
		})
	}
}

func TestFifo(t *testing.T) {
	q := New(1, 2)
	require.Equal(t, 2, q.Len())
	q.Append(3).Append(4).Append(5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, q.Items())

	var got []int
	for !q.IsEmpty() {
		item, ok := q.First()
		require.True(t, ok)
		got = append(got, item)
		if item == 2 {
			q.Append(6)
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)

	_, ok := q.First()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestWrapAround(t *testing.T) {
	q := New[string]()
	assert.Equal(t, minSize, q.size)
	for i := 0; i < 100; i++ {
		q.Append(fmt.Sprint(i))
		q.Append(fmt.Sprint(i) + "x")
		item, ok := q.First()
		require.True(t, ok)
		require.Equal(t, fmt.Sprint(i/2)+[]string{"", "x"}[i%2], item)
	}
	assert.Equal(t, 100, q.Len())
	assert.Len(t, q.Items(), 100)
}

func TestShrink(t *testing.T) {
	q := New(make([]int, 64)...)
	grown := q.size
	for i := 0; i < 60; i++ {
		q.First()
	}
	for q.Len() > 0 {
		q.First()
	}
	q.Append(1)
	assert.LessOrEqual(t, q.size, grown)
	item, ok := q.First()
	assert.True(t, ok)
	assert.Equal(t, 1, item)
}
