package u64set

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/templexxx/cpu"
	"github.com/templexxx/tsc"
)

// initialSlotLen is the length of a bucket's first slots array, allocated
// lazily on first insert. Growth always doubles from here, so every length
// a bucket ever holds is a power of two >= initialSlotLen (spec.md §3).
const initialSlotLen = 16

// slots is the flat array of atomic slot words a bucket currently owns.
// Using []atomic.Uint64 rather than []uint64 plus package-level
// atomic.LoadUint64/CompareAndSwapUint64 calls keeps every access to an
// individual slot type-checked as atomic at the call site.
type slots = []atomic.Uint64

// Bucket is a single hash bucket: an atomically-swapped flat array of
// atomic slot words, an approximate occupancy counter, and a control word
// coordinating shared (reader/writer) access against exclusive growth
// (spec.md §3, §4.2).
//
// A Bucket must not be copied after first use; it is always handled by
// pointer via Set.buckets.
type Bucket struct {
	// _padA/_padB isolate ctrl (spun on by every grow and every
	// acquire/release) from size (bumped by every Add/Remove) onto
	// separate cache lines, per SPEC_FULL.md §12.1.
	_padA [cpu.X86FalseSharingRange]byte

	slotsPtr atomic.Pointer[slots]
	ctrl     atomic.Int32

	_padB [cpu.X86FalseSharingRange]byte

	size          atomic.Int64
	lastGrowNanos atomic.Int64

	// growMu serializes grow() per bucket (spec.md §4.6, §9: "per-bucket
	// mutex or equivalent... do NOT replace it with a global lock").
	growMu sync.Mutex
}

// bucketSlot is one entry of Set.buckets: an atomically-swappable pointer
// to the current Bucket at that index, so Set.Clear can replace a bucket
// wholesale (spec.md §4.9) while Add/Remove/Contains/Iterator concurrently
// load it.
type bucketSlot struct {
	p atomic.Pointer[Bucket]
}

func (bs *bucketSlot) load() *Bucket {
	return bs.p.Load()
}

func (bs *bucketSlot) store(b *Bucket) {
	bs.p.Store(b)
}

// acquireShared is the "Acquire shared" transition of spec.md §4.2: spin
// while a grower holds exclusive (ctrl < 0), then CAS c -> c+1.
func (b *Bucket) acquireShared() {
	for {
		c := b.ctrl.Load()
		if c < 0 {
			runtime.Gosched()
			continue
		}
		if b.ctrl.CompareAndSwap(c, c+1) {
			return
		}
	}
}

// releaseShared is the "Release shared" transition: c -> c+1 if a grower
// is mid-quiesce (c < 0), else c -> c-1.
func (b *Bucket) releaseShared() {
	for {
		c := b.ctrl.Load()
		var next int32
		if c < 0 {
			next = c + 1
		} else {
			next = c - 1
		}
		if b.ctrl.CompareAndSwap(c, next) {
			return
		}
	}
}

// acquireExclusive is the "Acquire exclusive" transition: negate-and-bump
// (c -> -c-1) then spin until every pre-existing shared worker has released
// down to the -1 quiesce sentinel. Must only be called by the single
// grow() invocation currently holding growMu.
func (b *Bucket) acquireExclusive() {
	for {
		c := b.ctrl.Load()
		if c < 0 {
			// Only reachable if a prior exclusive holder failed to
			// release; growMu rules this out in correct usage.
			runtime.Gosched()
			continue
		}
		if b.ctrl.CompareAndSwap(c, -c-1) {
			break
		}
	}
	for b.ctrl.Load() != -1 {
		runtime.Gosched()
	}
}

// releaseExclusive is the "Release exclusive" transition: -1 -> 0.
func (b *Bucket) releaseExclusive() {
	if !b.ctrl.CompareAndSwap(-1, 0) {
		internalInvariantError("releaseExclusive: ctrl was not the -1 quiesce sentinel")
	}
}

// contains implements spec.md §4.3. It takes no lock: the slots pointer is
// a single snapshot load, tolerant of a concurrent grow swapping it out
// from under the scan.
func (b *Bucket) contains(biasedValue uint64) bool {
	sp := b.slotsPtr.Load()
	if sp == nil {
		return false
	}
	want := publishedEncoding(biasedValue)
	s := *sp
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Load() == want {
			return true
		}
	}
	return false
}

// add implements spec.md §4.4: the reserve/publish two-phase insert.
func (b *Bucket) add(biasedValue uint64) bool {
	for {
		b.acquireShared()

		sp := b.slotsPtr.Load()
		if sp == nil {
			b.releaseShared()
			b.grow(nil)
			continue
		}

		s := *sp
		n := b.size.Add(1)
		if n >= int64(len(s)) {
			b.releaseShared()
			b.grow(sp)
			b.size.Add(-1)
			continue
		}

		storeIndex := -1
		duplicate := false
		for i := len(s) - 1; i >= 0; i-- {
			if storeIndex == -1 && s[i].CompareAndSwap(0, biasedValue) {
				storeIndex = i
				continue
			}
			if valueOf(s[i].Load()) == biasedValue {
				duplicate = true
				break
			}
		}

		if duplicate {
			if storeIndex != -1 {
				s[storeIndex].Store(0)
			}
			b.size.Add(-1)
			b.releaseShared()
			return false
		}

		if storeIndex == -1 {
			// Array held nothing matching but also nothing empty within
			// the scan (size's load estimate under-counted); retry,
			// which will observe size >= len and trigger growth.
			b.size.Add(-1)
			b.releaseShared()
			continue
		}

		if !s[storeIndex].CompareAndSwap(biasedValue, publishedEncoding(biasedValue)) {
			internalInvariantError("publish CAS failed on a slot this goroutine exclusively reserved")
		}
		b.releaseShared()
		return true
	}
}

// remove implements spec.md §4.5.
func (b *Bucket) remove(biasedValue uint64) bool {
	b.acquireShared()
	defer b.releaseShared()

	sp := b.slotsPtr.Load()
	if sp == nil {
		return false
	}
	s := *sp
	for i := len(s) - 1; i >= 0; i-- {
		for {
			word := s[i].Load()
			if valueOf(word) != biasedValue {
				break
			}
			if s[i].CompareAndSwap(word, 0) {
				b.size.Add(-1)
				return true
			}
			// word changed under us; retry the same index.
		}
	}
	return false
}

// grow implements spec.md §4.6. Single-entry per bucket via growMu.
func (b *Bucket) grow(witness *slots) {
	b.growMu.Lock()
	defer b.growMu.Unlock()

	if b.slotsPtr.Load() != witness {
		// Another grower already acted on this witness; nothing to do.
		return
	}

	if witness == nil {
		fresh := make(slots, initialSlotLen)
		b.slotsPtr.Store(&fresh)
		return
	}

	b.acquireExclusive()
	old := *witness
	grown := make(slots, len(old)*2)
	for i := range old {
		grown[i+len(old)].Store(old[i].Load())
	}
	b.slotsPtr.Store(&grown)
	b.lastGrowNanos.Store(tsc.UnixNano())
	b.releaseExclusive()
}
