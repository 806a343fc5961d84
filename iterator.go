package u64set

// Iterator is a stateful, non-snapshotting cursor over a Set (spec.md
// §4.10). It tolerates concurrent Add/Remove/grow/Clear: the only failure
// HasNext/Next expose is running out of elements (Remove additionally
// reports an element that a concurrent mutation already removed). It is
// not safe for
// concurrent use by multiple goroutines itself; each goroutine that wants
// to iterate should call Set.Iterator for its own cursor.
type Iterator struct {
	set *Set

	started   bool
	bucketIdx int
	slotIdx   int
	curSlots  *slots

	hasLast         bool
	lastBiasedValue uint64
	lastBucketIdx   int
}

// currentSlots returns the pinned slots array of the bucket the cursor is
// positioned over, or nil if that bucket has never had an insert. A nil
// slice has length zero, so callers can treat it like any other exhausted
// array without a special case.
func (it *Iterator) currentSlots() slots {
	if it.curSlots == nil {
		return nil
	}
	return *it.curSlots
}

func (it *Iterator) snapshotBucket(idx int) {
	it.curSlots = it.set.buckets[idx].load().slotsPtr.Load()
}

// HasNext reports whether a subsequent call to Next would return a value.
// On first call it snapshots bucket 0's slots array; each call then
// advances past any slot that is empty or merely reserved (READ=0),
// crossing into later buckets (re-snapshotting each one's slots array) as
// needed, per spec.md §4.10.
func (it *Iterator) HasNext() bool {
	if !it.started {
		it.started = true
		it.bucketIdx = 0
		it.slotIdx = 0
		it.snapshotBucket(0)
	}

	for {
		if it.bucketIdx >= len(it.set.buckets) {
			return false
		}

		s := it.currentSlots()
		if it.slotIdx >= len(s) {
			it.bucketIdx++
			it.slotIdx = 0
			if it.bucketIdx >= len(it.set.buckets) {
				return false
			}
			it.snapshotBucket(it.bucketIdx)
			continue
		}

		if !published(s[it.slotIdx].Load()) {
			it.slotIdx++
			continue
		}

		return true
	}
}

// Next returns the next element, advancing the cursor one slot forward.
// It fails with IteratorExhaustedError once the set has been fully
// traversed.
func (it *Iterator) Next() (uint64, error) {
	if !it.HasNext() {
		return 0, IteratorExhaustedError
	}

	s := it.currentSlots()
	word := s[it.slotIdx].Load()
	if !published(word) {
		// A concurrent Remove cleared this slot between HasNext and here;
		// re-advance past it rather than returning a stale value.
		if !it.HasNext() {
			return 0, IteratorExhaustedError
		}
		s = it.currentSlots()
		word = s[it.slotIdx].Load()
	}

	it.hasLast = true
	it.lastBiasedValue = valueOf(word)
	it.lastBucketIdx = it.bucketIdx

	it.slotIdx++

	return unbias(word), nil
}

// Remove deletes the element last returned by Next from the set. It fails
// with NoCurrentElementError if called before any successful Next, or
// after a prior Remove with no intervening Next. It fails with
// AlreadyRemovedError if a concurrent mutation removed that element first.
func (it *Iterator) Remove() error {
	if !it.hasLast {
		return NoCurrentElementError
	}
	it.hasLast = false

	b := it.set.buckets[it.lastBucketIdx].load()
	if !b.remove(it.lastBiasedValue) {
		return AlreadyRemovedError
	}
	return nil
}
