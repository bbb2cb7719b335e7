package scanner

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderKeyCoarsensIntoBuckets(t *testing.T) {
	assert.Equal(t, orderKey(256), orderKey(257))
	assert.Equal(t, orderKey(256), orderKey(511))
	assert.NotEqual(t, orderKey(511), orderKey(512))
}

func TestOrderKeyInvertsOrdering(t *testing.T) {
	// higher inodes get lower keys, so a min-heap visits them first
	assert.Less(t, orderKey(1<<20), orderKey(4096))
	assert.Less(t, orderKey(8192), orderKey(4096))
}

func TestDirQueuePopsHighestInodeFirst(t *testing.T) {
	var q dirQueue
	heap.Push(&q, pendingDir{key: orderKey(4096), path: "low"})
	heap.Push(&q, pendingDir{key: orderKey(1 << 20), path: "high"})
	heap.Push(&q, pendingDir{key: orderKey(8192), path: "mid"})

	var order []string
	for q.Len() > 0 {
		order = append(order, heap.Pop(&q).(pendingDir).path)
	}

	assert.Equal(t, []string{"high", "mid", "low"}, order)
}
