// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package updatemmr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Storage key-set prefixes, each one byte so the accumulator's key space
// sorts into three contiguous ranges ahead of the lexicographically larger
// per-index entry keys.
const (
	prefixNextIndex byte = 'I'
	prefixBestBlock byte = 'B'
	prefixEntries   byte = 'e'
)

// entriesKey returns the storage key for the entry list at the given
// accumulator index: the entries prefix followed by the big-endian index, so
// that a range scan over the prefix visits indices in ascending order.
func entriesKey(index uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefixEntries
	binary.BigEndian.PutUint64(key[1:], index)
	return key
}

// Store is the accumulator's persistence layer, backed by a leveldb
// database instance.
type Store struct {
	ldb *leveldb.DB
}

// OpenStore opens (creating if necessary) a leveldb-backed store at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(dbPath, 0700); err != nil {
		return nil, makeError(ErrStorageFault, fmt.Sprintf(
			"failed to create update-MMR database directory: %v", err))
	}
	ldb, err := leveldb.OpenFile(dbPath, &opt.Options{Strict: opt.DefaultStrict})
	if err != nil {
		return nil, convertLdbErr(err, "failed to open update-MMR database")
	}
	return &Store{ldb: ldb}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.ldb.Close(); err != nil {
		return convertLdbErr(err, "failed to close update-MMR database")
	}
	return nil
}

// convertLdbErr wraps a leveldb error in an Error carrying desc, preserving
// it as the wrapped cause.
func convertLdbErr(ldbErr error, desc string) Error {
	return Error{
		Err:         ldbErr,
		Description: fmt.Sprintf("%s: %v", desc, ldbErr),
	}
}

func (s *Store) readNextIndex() (uint64, error) {
	v, err := s.ldb.Get([]byte{prefixNextIndex}, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, nil
		}
		return 0, convertLdbErr(err, "failed to read next index")
	}
	return binary.BigEndian.Uint64(v), nil
}

func (s *Store) readBestBlock() (chainhash.Hash, error) {
	v, err := s.ldb.Get([]byte{prefixBestBlock}, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return chainhash.Hash{}, nil
		}
		return chainhash.Hash{}, convertLdbErr(err, "failed to read best block")
	}
	var h chainhash.Hash
	copy(h[:], v)
	return h, nil
}

func (s *Store) writeBestBlock(h chainhash.Hash) error {
	if err := s.ldb.Put([]byte{prefixBestBlock}, h[:], nil); err != nil {
		return convertLdbErr(err, "failed to write best block")
	}
	return nil
}

// entryListSize returns the number of heights the entry list at index must
// have: one more than the height of the peak currently covering it.
func entryListSize(index uint64) int {
	return peakHeight(index, index+1) + 1
}

func (s *Store) readEntries(index uint64) (EntryList, error) {
	v, err := s.ldb.Get(entriesKey(index), nil)
	size := entryListSize(index)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return newEmptyEntryList(size), nil
		}
		return nil, convertLdbErr(err, "failed to read entry list")
	}
	el, err := decodeEntryList(v)
	if err != nil {
		return nil, err
	}
	if len(el) != size {
		return nil, makeError(ErrCorruptEntryList, fmt.Sprintf(
			"entry list at index %d has size %d, want %d", index, len(el), size))
	}
	return el, nil
}

// batch accumulates entry-list and next-index writes for atomic commit.
type batch struct {
	b *leveldb.Batch
}

func (s *Store) newBatch() *batch {
	return &batch{b: new(leveldb.Batch)}
}

func (bt *batch) writeEntries(index uint64, el EntryList) {
	if el.empty() {
		bt.b.Delete(entriesKey(index))
		return
	}
	bt.b.Put(entriesKey(index), el.encode())
}

func (bt *batch) writeNextIndex(index uint64) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, index)
	bt.b.Put([]byte{prefixNextIndex}, buf)
}

func (s *Store) commit(bt *batch) error {
	if err := s.ldb.Write(bt.b, nil); err != nil {
		return convertLdbErr(err, "failed to commit update-MMR batch")
	}
	return nil
}
