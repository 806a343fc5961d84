package u64set

// Bulk convenience operations (SPEC_FULL.md §10). Each is expressed purely
// in terms of the CORE's public Add/Remove/Contains/Iterator and is not
// itself atomic: a concurrent mutation interleaved with one of these calls
// can produce any result individually reachable from the CORE calls it
// makes, in the order it makes them.

// AddAll inserts every value in vs, stopping at the first InputDomainError.
// Values added before the error remain in the set; there is no rollback.
// added counts successful (newly-inserted) insertions, not attempts.
func (s *Set) AddAll(vs ...uint64) (added int, err error) {
	for _, v := range vs {
		ok, addErr := s.Add(v)
		if addErr != nil {
			return added, addErr
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// RemoveAll removes every value in vs that is present, returning the
// number actually removed. Values outside the 62-bit domain are simply
// skipped (Remove's InputDomainError for such a value is swallowed, since
// a value Add could never have accepted cannot be present).
func (s *Set) RemoveAll(vs ...uint64) (removed int) {
	for _, v := range vs {
		ok, err := s.Remove(v)
		if err == nil && ok {
			removed++
		}
	}
	return removed
}

// ContainsAll reports whether every value in vs is currently present,
// short-circuiting on the first miss.
func (s *Set) ContainsAll(vs ...uint64) bool {
	for _, v := range vs {
		if !s.Contains(v) {
			return false
		}
	}
	return true
}

// ToSlice collects every value visible to a fresh Iterator. Per spec.md
// §4.10 and §9, this is a live, non-snapshotting traversal: a value added
// or removed while ToSlice runs may or may not appear in the result.
func (s *Set) ToSlice() []uint64 {
	it := s.Iterator()
	out := make([]uint64, 0, s.Size())
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			break
		}
		out = append(out, v)
	}
	return out
}

// RetainAll removes every element currently in the set that is not present
// in vs, returning the number removed. It is built from ToSlice followed
// by Remove and is not atomic across the whole operation: it is possible
// for a value added concurrently, after RetainAll's internal ToSlice ran
// but before RetainAll returns, to survive even though it is absent from
// vs.
func (s *Set) RetainAll(vs []uint64) (removed int) {
	keep := make(map[uint64]struct{}, len(vs))
	for _, v := range vs {
		keep[v] = struct{}{}
	}
	for _, v := range s.ToSlice() {
		if _, ok := keep[v]; ok {
			continue
		}
		if ok, _ := s.Remove(v); ok {
			removed++
		}
	}
	return removed
}
