package scanner

// pendingDir is a directory waiting to be scanned, ordered by a locality key
// derived from its inode number.
type pendingDir struct {
	key  uint64
	path string
}

// orderKey coarsens the inode into buckets and inverts it, so that popping
// the queue minimum visits the highest (assumed newest, and therefore most
// sequentially laid out) inodes first.
func orderKey(inode uint64) uint64 {
	return ^(inode >> 8)
}

// dirQueue is a min-heap of pending directories implementing heap.Interface.
type dirQueue []pendingDir

func (q dirQueue) Len() int           { return len(q) }
func (q dirQueue) Less(i, j int) bool { return q[i].key < q[j].key }
func (q dirQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *dirQueue) Push(x any) {
	*q = append(*q, x.(pendingDir))
}

func (q *dirQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
