package u64set

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Scenario 3 (spec.md §8): concurrent disjoint ranges.
func TestConcurrent_DisjointRangesInsert(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	const goroutines = 16
	const perGoroutine = 256

	g, _ := errgroup.WithContext(context.Background())
	for k := 0; k < goroutines; k++ {
		k := k
		g.Go(func() error {
			base := uint64(k * perGoroutine)
			for i := uint64(0); i < perGoroutine; i++ {
				if _, err := s.Add(base + i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	const total = goroutines * perGoroutine
	require.Equal(t, uint64(total), s.Size())
	for i := uint64(0); i < total; i++ {
		require.True(t, s.Contains(i), "contains(%d)", i)
	}

	visited := s.ToSlice()
	require.Len(t, visited, total)
	seen := make(map[uint64]struct{}, total)
	for _, v := range visited {
		_, dup := seen[v]
		require.False(t, dup, "iterator visited %d twice", v)
		seen[v] = struct{}{}
	}
}

// Scenario 4 (spec.md §8): concurrent insert then concurrent remove.
func TestConcurrent_InsertThenRemove(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	const goroutines = 16
	const perGoroutine = 256

	insert := func(op func(uint64) error) error {
		g, _ := errgroup.WithContext(context.Background())
		for k := 0; k < goroutines; k++ {
			k := k
			g.Go(func() error {
				base := uint64(k * perGoroutine)
				for i := uint64(0); i < perGoroutine; i++ {
					if err := op(base + i); err != nil {
						return err
					}
				}
				return nil
			})
		}
		return g.Wait()
	}

	require.NoError(t, insert(func(v uint64) error {
		_, err := s.Add(v)
		return err
	}))
	require.Equal(t, uint64(goroutines*perGoroutine), s.Size())

	require.NoError(t, insert(func(v uint64) error {
		_, err := s.Remove(v)
		return err
	}))

	require.Equal(t, uint64(0), s.Size())
	require.True(t, s.IsEmpty())

	it := s.Iterator()
	require.False(t, it.HasNext())
}

// witnessSet is a plain sequential set used as an oracle for Scenario 5.
type witnessSet struct {
	members map[uint64]struct{}
}

func newWitnessSet() *witnessSet {
	return &witnessSet{members: make(map[uint64]struct{})}
}

func (w *witnessSet) Add(v uint64) bool {
	if _, ok := w.members[v]; ok {
		return false
	}
	w.members[v] = struct{}{}
	return true
}

func (w *witnessSet) Size() int {
	return len(w.members)
}

// Scenario 5 (spec.md §8): dense randomized with likely collisions,
// checked sequentially against a witness set.
func TestConcurrent_DenseRandomizedAgainstWitness(t *testing.T) {
	s, err := New(8)
	require.NoError(t, err)
	witness := newWitnessSet()

	rng := rand.New(rand.NewSource(1))
	const iterations = 100000
	const domain = 1024

	for i := 0; i < iterations; i++ {
		v := uint64(rng.Intn(domain))

		got, err := s.Add(v)
		require.NoError(t, err)

		want := witness.Add(v)
		require.Equal(t, want, got, "iteration %d, v=%d", i, v)
	}

	require.Equal(t, uint64(witness.Size()), s.Size())

	gotMembers := s.ToSlice()
	sort.Slice(gotMembers, func(i, j int) bool { return gotMembers[i] < gotMembers[j] })

	wantMembers := make([]uint64, 0, witness.Size())
	for v := range witness.members {
		wantMembers = append(wantMembers, v)
	}
	sort.Slice(wantMembers, func(i, j int) bool { return wantMembers[i] < wantMembers[j] })

	if diff := cmp.Diff(wantMembers, gotMembers); diff != "" {
		t.Fatalf("set membership mismatch against witness (-want +got):\n%s", diff)
	}
}
