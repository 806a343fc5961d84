package u64set

// BucketStats is a point-in-time, best-effort snapshot of a single
// bucket's load, useful for tuning the bucketCount passed to New (spec.md
// §4.6's growth-doubling means an undersized bucketCount just pushes more
// work onto per-bucket growth instead of spreading load across buckets).
type BucketStats struct {
	// Size is the bucket's approximate occupied+reserved slot count.
	Size int64
	// SlotCount is the length of the bucket's current slots array, or 0
	// if the bucket has never been written to.
	SlotCount int
	// LastGrowUnixNano is the tsc.UnixNano() timestamp of the bucket's
	// most recent grow, or 0 if it has never grown.
	LastGrowUnixNano int64
}

// Stats returns a snapshot of BucketStats for every bucket, in bucket
// order. Like Size, this is approximate under concurrent mutation.
func (s *Set) Stats() []BucketStats {
	out := make([]BucketStats, len(s.buckets))
	for i := range s.buckets {
		b := s.buckets[i].load()
		sp := b.slotsPtr.Load()
		slotCount := 0
		if sp != nil {
			slotCount = len(*sp)
		}
		out[i] = BucketStats{
			Size:             b.size.Load(),
			SlotCount:        slotCount,
			LastGrowUnixNano: b.lastGrowNanos.Load(),
		}
	}
	return out
}
