package u64set

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// bucketIndex is the bucket-selection hash, spec.md §4.1. It must be
// reproduced byte-exactly: given a biased, non-zero 63-bit value v and a
// bucket count bucketCount (a power of two), it folds the upper 32 bits
// down onto the lower 32 before masking to the bucket count. This is a
// deliberately cheap fold, not a quality hash — spec.md §9 documents that
// callers with sparse/pointer-like values are expected to pre-mix with
// Mix64 or MixX3 below before calling Add/Remove/Contains.
func bucketIndex(v uint64, bucketCount uint32) uint32 {
	folded := uint32(v&0xFFFFFFFF) ^ uint32(v>>32)
	return folded & (bucketCount - 1)
}

// Mix64 avalanches a logical value with xxhash before it is handed to Add,
// Remove, or Contains, so that bucketIndex's 32-bit fold sees well-spread
// bits even for sparse or pointer-aligned inputs. It is a pure convenience
// layered on top of the CORE; the CORE's own hash (bucketIndex) is never
// altered by this or any other mixer, per spec.md §4.1.
//
// Mix64 does not itself constrain its input or output to [0, 2^62) — callers
// still pass the mixed result to Add/Remove, which validate the domain.
func Mix64(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return xxhash.Sum64(buf[:])
}

// MixX3 is an alternative to Mix64 using xxh3, offered for callers that
// favor xxh3's throughput over xxhash's wider adoption. Both are valid;
// a caller should pick one and pre-mix consistently, since mixing is only a
// caller-side transform and has no bearing on the set's own invariants.
func MixX3(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return xxh3.Hash(buf[:])
}
