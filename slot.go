package u64set

// Slot encoding (spec.md §3, §9 "bit-stealing vs separate validity array").
//
// A slot is a single atomic 64-bit word with four states:
//
//	all zero                          -> empty, available for insert
//	biased value, readFlag unset      -> reserved: write in progress
//	biased value, readFlag set        -> published: readable
//	(reserved encoding, transiently)  -> tombstone mid-remove, immediately 0
//
// Bit 63 is the READ flag. Bit 62 is the "invariant zero" spec.md §3 calls
// out: the domain check in Set.Add/Remove keeps biased values within
// [1, 2^62], so bit 62 is zero for every stored slot except the one holding
// the largest domain value 2^62-1, whose biased form is exactly 2^62 (see
// DESIGN.md). Nothing here masks for or relies on bit 62.
const (
	readFlag uint64 = 1 << 63

	// valueMask isolates the biased value plus the invariant-zero bit 62,
	// i.e. everything but the READ flag.
	valueMask uint64 = readFlag - 1
)

// bias maps a logical value in [0, 2^62) to its biased, unpublished slot
// encoding (value+1, not yet OR'd with readFlag).
func bias(v uint64) uint64 {
	return v + 1
}

// unbias reverses bias and clears the READ flag, recovering the logical
// value from a published slot word.
func unbias(word uint64) uint64 {
	return (word &^ readFlag) - 1
}

// published reports whether a slot word is in the published (READ=1) state.
func published(word uint64) bool {
	return word&readFlag != 0
}

// valueOf strips the READ flag from a slot word, leaving the bare biased
// value (valid whether the slot is reserved or published).
func valueOf(word uint64) uint64 {
	return word &^ readFlag
}

// publishedEncoding returns the exact word a published slot holding the
// given biased value must equal.
func publishedEncoding(biasedValue uint64) uint64 {
	return biasedValue | readFlag
}

// maxDomain is the exclusive upper bound of the logical value domain
// spec.md §3 defines: unsigned integers in [0, 2^62).
const maxDomain = uint64(1) << 62

func inDomain(v uint64) bool {
	return v < maxDomain
}
