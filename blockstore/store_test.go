// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockstore

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	famFilter Family = iota + 1
	famFilterHash
	famFilterHeader
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func blockHashAt(height int64) chainhash.Hash {
	return chainhash.HashH([]byte{byte(height), byte(height >> 8)})
}

func payloadAt(height int64) []byte {
	return []byte{byte(height), byte(height >> 8), 0xff}
}

func writeChain(t *testing.T, s *Store, n int64) {
	t.Helper()
	for h := int64(0); h < n; h++ {
		bi := BlockIndex{Height: h, Hash: blockHashAt(h)}
		err := s.Write(bi, map[Family][]byte{
			famFilter:       payloadAt(h),
			famFilterHash:   payloadAt(h),
			famFilterHeader: payloadAt(h),
		})
		if err != nil {
			t.Fatalf("Write at height %d: %v", h, err)
		}
	}
}

func TestLookupOneHitsHeightIndex(t *testing.T) {
	s := openTestStore(t)
	writeChain(t, s, 10)

	got, err := s.LookupOne(famFilter, BlockIndex{Height: 5, Hash: blockHashAt(5)})
	if err != nil {
		t.Fatalf("LookupOne: %v", err)
	}
	want := payloadAt(5)
	if string(got) != string(want) {
		t.Fatalf("got %x want %x", got, want)
	}
}

func TestLookupOneMissing(t *testing.T) {
	s := openTestStore(t)
	writeChain(t, s, 3)

	_, err := s.LookupOne(famFilter, BlockIndex{Height: 9, Hash: blockHashAt(9)})
	e, ok := err.(Error)
	if !ok || !errorKindIs(e, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func errorKindIs(e Error, kind ErrorKind) bool {
	k, ok := e.Err.(ErrorKind)
	return ok && k == kind
}

func TestLookupRangeStraightChain(t *testing.T) {
	s := openTestStore(t)
	writeChain(t, s, 20)

	stop := BlockIndex{Height: 19, Hash: blockHashAt(19)}
	results, err := s.LookupRange(famFilterHeader, 5, stop, blockHashAt)
	if err != nil {
		t.Fatalf("LookupRange: %v", err)
	}
	if len(results) != 15 {
		t.Fatalf("got %d results want 15", len(results))
	}
	for i, r := range results {
		want := payloadAt(int64(i) + 5)
		if string(r) != string(want) {
			t.Fatalf("result %d: got %x want %x", i, r, want)
		}
	}
}

// TestRewindThenLookupFallsBackToHashIndex simulates a reorg: after Rewind
// copies heights [newTip+1, oldTip] into the hash index, a height-keyed
// record written by a stale chain must still be reachable by its hash even
// though the height itself now belongs to a different block.
func TestRewindThenLookupFallsBackToHashIndex(t *testing.T) {
	s := openTestStore(t)
	writeChain(t, s, 10)

	oldTip := BlockIndex{Height: 9, Hash: blockHashAt(9)}
	newTip := BlockIndex{Height: 6, Hash: blockHashAt(6)}
	families := []Family{famFilter, famFilterHash, famFilterHeader}
	if err := s.Rewind(oldTip, newTip, families); err != nil {
		t.Fatalf("Rewind: %v", err)
	}

	// Heights 7, 8, 9 now belong to a competing chain with different hashes.
	for h := int64(7); h <= 9; h++ {
		staleHash := blockHashAt(h)
		replacement := chainhash.HashH([]byte{0xaa, byte(h)})
		err := s.Write(BlockIndex{Height: h, Hash: replacement}, map[Family][]byte{
			famFilter: []byte{0xaa, byte(h)},
		})
		if err != nil {
			t.Fatalf("Write replacement at height %d: %v", h, err)
		}

		// The stale block's filter must still be reachable by its own hash.
		got, err := s.LookupOne(famFilter, BlockIndex{Height: h, Hash: staleHash})
		if err != nil {
			t.Fatalf("LookupOne stale block at height %d: %v", h, err)
		}
		if string(got) != string(payloadAt(h)) {
			t.Fatalf("stale lookup at height %d: got %x want %x", h, got, payloadAt(h))
		}

		// And the new block's filter is reachable by height.
		got, err = s.LookupOne(famFilter, BlockIndex{Height: h, Hash: replacement})
		if err != nil {
			t.Fatalf("LookupOne replacement at height %d: %v", h, err)
		}
		if string(got) != string([]byte{0xaa, byte(h)}) {
			t.Fatalf("replacement lookup at height %d: got %x", h, got)
		}
	}
}

func TestLookupRangeAfterRewindAndRewrite(t *testing.T) {
	s := openTestStore(t)
	writeChain(t, s, 10)

	oldTip := BlockIndex{Height: 9, Hash: blockHashAt(9)}
	newTip := BlockIndex{Height: 6, Hash: blockHashAt(6)}
	if err := s.Rewind(oldTip, newTip, []Family{famFilter}); err != nil {
		t.Fatalf("Rewind: %v", err)
	}

	forkHashAt := func(height int64) chainhash.Hash {
		if height >= 7 {
			return chainhash.HashH([]byte{0xbb, byte(height)})
		}
		return blockHashAt(height)
	}
	for h := int64(7); h <= 9; h++ {
		err := s.Write(BlockIndex{Height: h, Hash: forkHashAt(h)}, map[Family][]byte{
			famFilter: []byte{0xbb, byte(h)},
		})
		if err != nil {
			t.Fatalf("Write fork block at height %d: %v", h, err)
		}
	}

	stop := BlockIndex{Height: 9, Hash: forkHashAt(9)}
	results, err := s.LookupRange(famFilter, 0, stop, forkHashAt)
	if err != nil {
		t.Fatalf("LookupRange: %v", err)
	}
	for h := int64(0); h <= 9; h++ {
		var want []byte
		if h >= 7 {
			want = []byte{0xbb, byte(h)}
		} else {
			want = payloadAt(h)
		}
		if string(results[h]) != string(want) {
			t.Fatalf("result at height %d: got %x want %x", h, results[h], want)
		}
	}
}

func TestRewindRejectsNewTipAboveCurrentTip(t *testing.T) {
	s := openTestStore(t)
	writeChain(t, s, 5)

	err := s.Rewind(BlockIndex{Height: 2}, BlockIndex{Height: 4}, []Family{famFilter})
	if _, ok := err.(Error); !ok {
		t.Fatalf("expected Error, got %v", err)
	}
}
