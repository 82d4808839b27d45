// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package updatemmr implements a disk-backed Merkle mountain range that
// supports inserting and removing leaves at arbitrary indices in addition to
// appending, tracking the Decred/Bitcoin-style UTXO set as it is mutated by
// block connection and disconnection.
package updatemmr

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/mathutil"
)

// peakHeight returns the height of the peak covering index idx in an
// accumulator holding total leaves.
func peakHeight(idx, total uint64) int {
	return mathutil.PeakHeight(idx, total)
}

// numPeaksBeforeIndex returns the number of MMR peaks at indices below idx.
func numPeaksBeforeIndex(idx uint64) int {
	return mathutil.NumPeaksBefore(idx)
}

// Leaf pairs an accumulator index with the commitment hash stored there.
type Leaf struct {
	Index uint64
	Hash  chainhash.Hash
}

// CoinHasher computes the accumulator commitment hash for a single unspent
// transaction output. The accumulator itself has no notion of scripts or
// amounts; callers inject the hashing rule appropriate to their UTXO
// representation when building a BlockDelta.
type CoinHasher func(pkScript []byte, value int64) chainhash.Hash

// BlockDelta describes the index-level effect a block connection has on the
// accumulator: the leaves it creates, in index order, and the leaves it
// spends, each carrying the hash it had immediately before being removed so
// that a later disconnect can restore it verbatim.
type BlockDelta struct {
	Appended []Leaf
	Removed  []Leaf
}

// MMR is a disk-backed append/insert/remove accumulator, kept in step with
// the active chain via BlockConnected/BlockDisconnected.
type MMR struct {
	store     *Store
	peakCache []Entry
	nextIndex uint64
}

// Open loads an MMR backed by the given store, rebuilding its peak cache
// from persisted entries.
func Open(store *Store) (*MMR, error) {
	nextIndex, err := store.readNextIndex()
	if err != nil {
		return nil, err
	}
	m := &MMR{store: store, nextIndex: nextIndex}
	if err := m.refreshPeakCache(); err != nil {
		return nil, err
	}
	return m, nil
}

// NextIndex returns the next index that would be used by Append.
func (m *MMR) NextIndex() uint64 { return m.nextIndex }

// LeafCount returns the number of currently-populated leaves.
func (m *MMR) LeafCount() uint32 {
	var count uint32
	for _, e := range m.peakCache {
		count += e.Count
	}
	return count
}

// BestBlock returns the hash of the block the accumulator was last updated
// to reflect.
func (m *MMR) BestBlock() chainhash.Hash {
	h, err := m.store.readBestBlock()
	if err != nil {
		return chainhash.Hash{}
	}
	return h
}

// hashEntry commits to a single entry.
func hashEntry(e Entry) chainhash.Hash {
	sum := sha256.Sum256(e.serialize())
	return chainhash.Hash(sum)
}

// hashEntryPair commits to two sibling entries in left-then-right order.
func hashEntryPair(left, right Entry) chainhash.Hash {
	buf := make([]byte, 0, 2*(4+chainhash.HashSize))
	buf = append(buf, left.serialize()...)
	buf = append(buf, right.serialize()...)
	sum := sha256.Sum256(buf)
	return chainhash.Hash(sum)
}

// RootHash commits to both the current accumulator size and the full set of
// peaks, so that a size change alone (even with an unchanged peak set)
// changes the root.
func (m *MMR) RootHash() chainhash.Hash {
	sizeBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(sizeBuf, m.nextIndex)
	sizeSum := sha256.Sum256(sizeBuf)

	root := Entry{Count: 0, Hash: chainhash.Hash(sizeSum)}
	for i := len(m.peakCache) - 1; i >= 0; i-- {
		peak := m.peakCache[i]
		root = Entry{Count: root.Count + peak.Count, Hash: hashEntryPair(peak, root)}
	}
	return hashEntry(root)
}

// refreshPeakCache rebuilds the in-memory peak cache from persisted entries.
func (m *MMR) refreshPeakCache() error {
	nPeaks := numPeaksBeforeIndex(m.nextIndex)
	m.peakCache = make([]Entry, nPeaks)

	peakNextIndex := m.nextIndex
	for i := 0; i < nPeaks; i++ {
		peakIndex := peakNextIndex - 1
		el, err := m.store.readEntries(peakIndex)
		if err != nil {
			return err
		}
		m.peakCache[nPeaks-i-1] = el[len(el)-1]
		peakNextIndex &= peakNextIndex - 1
	}
	return nil
}

// appendEntry appends a single new leaf entry, threading batch writes and
// peak-cache maintenance through exactly the same fold used by Append in
// the reference accumulator.
func (m *MMR) appendEntry(bt *batch, entry Entry) {
	index := m.nextIndex
	m.nextIndex++
	height := peakHeight(index, m.nextIndex)

	entries := make(EntryList, height+1)
	entries[0] = entry

	for h := 1; h <= height; h++ {
		leftPeak := m.peakCache[len(m.peakCache)-1]
		rightPeak := entries[h-1]

		entries[h] = Entry{
			Count: leftPeak.Count + rightPeak.Count,
			Hash:  hashEntryPair(leftPeak, rightPeak),
		}
		m.peakCache = m.peakCache[:len(m.peakCache)-1]
	}

	bt.writeEntries(index, entries)
	bt.writeNextIndex(m.nextIndex)

	m.peakCache = append(m.peakCache, entries[len(entries)-1])
}

// Rewind removes the most recently appended hashesCount leaves, restoring
// the accumulator to the state it held before they were appended.
func (m *MMR) Rewind(hashesCount uint64) error {
	if hashesCount > m.nextIndex {
		return makeError(ErrInvalidRewind, "cannot rewind past the start of the accumulator")
	}

	bt := m.store.newBatch()
	newNextIndex := m.nextIndex - hashesCount
	bt.writeNextIndex(newNextIndex)

	empty := newEmptyEntryList(0)
	for index := newNextIndex; index < m.nextIndex; index++ {
		bt.writeEntries(index, empty)
	}

	if err := m.store.commit(bt); err != nil {
		return err
	}
	m.nextIndex = newNextIndex
	return m.refreshPeakCache()
}

// updateParents re-folds every ancestor of index up to and including the
// peak that covers it, given the already-updated entry list at index.
// nextIndex is the next index to be independently touched by the caller's
// batch of updates (or the accumulator size if there is none); when the
// ancestor walk would next need an entry list the caller is about to touch
// anyway, this returns early to let the caller's own pass pick it up.
func (m *MMR) updateParents(bt *batch, rightEntryList EntryList, index, nextIndex uint64, height int) (uint64, error) {
	leftEntryList := make(EntryList, height+1)

	for h := 1; h <= height; h++ {
		lastIndex := index
		index |= uint64(1) << uint(h-1)

		if index == lastIndex {
			leftIndex := index &^ (uint64(1) << uint(h-1))
			el, err := m.store.readEntries(leftIndex)
			if err != nil {
				return 0, err
			}
			leftEntryList = el
		} else {
			leftIndex := lastIndex
			leftEntryList, rightEntryList = rightEntryList, leftEntryList
			bt.writeEntries(leftIndex, leftEntryList)

			if nextIndex < index {
				return index, nil
			}

			el, err := m.store.readEntries(index)
			if err != nil {
				return 0, err
			}
			rightEntryList = el
		}

		left := leftEntryList[h-1]
		right := rightEntryList[h-1]

		var parent Entry
		switch {
		case left.empty() && right.empty():
			parent = Entry{}
		case left.empty() && right.Count == 1:
			parent = right
		case left.Count == 1 && right.empty():
			parent = left
		default:
			parent = Entry{Count: left.Count + right.Count, Hash: hashEntryPair(left, right)}
		}
		rightEntryList[h] = parent
	}

	bt.writeEntries(index, rightEntryList)

	peakCacheIdx := numPeaksBeforeIndex(index+1) - 1
	m.peakCache[peakCacheIdx] = rightEntryList[len(rightEntryList)-1]

	return index, nil
}

// Remove clears the leaves at indices, leaving the accumulator's size
// unchanged; indices past the current size, and indices that are already
// clear, are ignored. It returns the number of leaves actually cleared.
func (m *MMR) Remove(indices []uint64) (int, error) {
	if len(indices) == 0 {
		return 0, nil
	}

	sorted := append([]uint64(nil), indices...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	bt := m.store.newBatch()
	updateCount := 0

	for i, index := range sorted {
		if index >= m.nextIndex {
			continue
		}

		height := peakHeight(index, m.nextIndex)
		el, err := m.store.readEntries(index)
		if err != nil {
			return 0, err
		}

		if el[0].empty() {
			continue
		}
		if el[0].Count != 1 {
			panic("updatemmr: leaf entry at height 0 has count greater than 1")
		}
		el[0] = Entry{}

		next := m.nextIndex
		if i+1 < len(sorted) {
			next = sorted[i+1]
		}
		if _, err := m.updateParents(bt, el, index, next, height); err != nil {
			return 0, err
		}
		updateCount++
	}

	if err := m.store.commit(bt); err != nil {
		return 0, err
	}
	return updateCount, nil
}

// Insert sets the leaves at the given indices, extending the accumulator
// with empty leaves as necessary to reach any index beyond the current
// size. It returns the number of leaves actually written.
func (m *MMR) Insert(leaves []Leaf) (int, error) {
	if len(leaves) == 0 {
		return 0, nil
	}

	sorted := append([]Leaf(nil), leaves...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	bt := m.store.newBatch()
	updateCount := 0

	for i, leaf := range sorted {
		if leaf.Index >= m.nextIndex {
			for m.nextIndex < leaf.Index {
				m.appendEntry(bt, Entry{})
				updateCount++
			}
			m.appendEntry(bt, Entry{Count: 1, Hash: leaf.Hash})
			updateCount++
			continue
		}

		height := peakHeight(leaf.Index, m.nextIndex)
		el, err := m.store.readEntries(leaf.Index)
		if err != nil {
			return 0, err
		}

		switch el[0].Count {
		case 0:
			el[0] = Entry{Count: 1, Hash: leaf.Hash}
		case 1:
			if el[0].Hash == leaf.Hash {
				continue
			}
			el[0].Hash = leaf.Hash
		default:
			panic("updatemmr: leaf entry at height 0 has count greater than 1")
		}

		next := m.nextIndex
		if i+1 < len(sorted) {
			next = sorted[i+1].Index
		}
		if _, err := m.updateParents(bt, el, leaf.Index, next, height); err != nil {
			return 0, err
		}
		updateCount++
	}

	if err := m.store.commit(bt); err != nil {
		return 0, err
	}
	return updateCount, nil
}

// BlockConnected applies the index-level changes of connecting a block onto
// the accumulator's recorded best block.
func (m *MMR) BlockConnected(blockHash, prevHash chainhash.Hash, delta BlockDelta) error {
	if best := m.BestBlock(); best != prevHash {
		return makeError(ErrBestBlockMismatch,
			"block does not connect to the accumulator's recorded best block")
	}

	if _, err := m.Insert(delta.Appended); err != nil {
		return err
	}

	removedIdx := make([]uint64, len(delta.Removed))
	for i, l := range delta.Removed {
		removedIdx[i] = l.Index
	}
	if _, err := m.Remove(removedIdx); err != nil {
		return err
	}

	return m.store.writeBestBlock(blockHash)
}

// BlockDisconnected reverses the index-level changes of BlockConnected,
// restoring the leaves a block spent and rewinding the leaves it appended.
func (m *MMR) BlockDisconnected(blockHash, prevHash chainhash.Hash, delta BlockDelta) error {
	if best := m.BestBlock(); best != blockHash {
		return makeError(ErrBestBlockMismatch,
			"block is not the accumulator's recorded best block")
	}

	if _, err := m.Insert(delta.Removed); err != nil {
		return err
	}

	if err := m.Rewind(uint64(len(delta.Appended))); err != nil {
		return err
	}

	return m.store.writeBestBlock(prevHash)
}
