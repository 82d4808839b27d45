// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockstore implements a height-primary, hash-secondary indexed
// key/value store: a generic re-expression of the two-key-family scheme used
// by Bitcoin Core's BlockFilterIndex to survive chain reorganizations
// without losing data recorded against blocks that are no longer on the
// active chain.
//
// Every record is written under a Family (an opaque one-byte discriminator
// chosen by the caller, analogous to BlockFilterIndex's DB_FILTER /
// DB_FILTER_HASH / DB_FILTER_HEADER) and is addressable two ways: by the
// height it was written at (the fast path, valid as long as that height is
// still on the active chain) and by the block hash it was written against
// (the durable path, always valid). Write only ever populates the
// height-keyed half; Rewind is responsible for copying height-keyed rows
// into hash-keyed storage before the height they occupy is repurposed by a
// reorg.
package blockstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/sync/errgroup"
)

// Family identifies an independent record type sharing the store's key
// space, e.g. a filter's data, its hash, or its header. Families never
// interact with one another during lookups, but Rewind copies all of them
// together under a single atomic batch.
type Family byte

// Key-space selectors. Each stored key is family || selector || discriminator,
// so that for a fixed family the height-indexed and hash-indexed rows occupy
// disjoint, independently-iterable ranges.
const (
	selectHeight byte = 'T'
	selectHash   byte = 'S'
)

// BlockIndex identifies a block by both its height and its hash, the pair
// every lookup is ultimately validated against.
type BlockIndex struct {
	Height int64
	Hash   chainhash.Hash
}

func heightKey(family Family, height int64) []byte {
	key := make([]byte, 10)
	key[0] = byte(family)
	key[1] = selectHeight
	binary.BigEndian.PutUint64(key[2:], uint64(height))
	return key
}

func hashKey(family Family, hash chainhash.Hash) []byte {
	key := make([]byte, 2+chainhash.HashSize)
	key[0] = byte(family)
	key[1] = selectHash
	copy(key[2:], hash[:])
	return key
}

// heightKeyPrefix returns the range covering every height-keyed row for
// family, used by Rewind's forward scan.
func heightKeyPrefix(family Family) *util.Range {
	return util.BytesPrefix([]byte{byte(family), selectHeight})
}

// Store is the two-keyed persistence layer, backed by a leveldb database
// instance.
type Store struct {
	ldb *leveldb.DB
}

// OpenStore opens (creating if necessary) a leveldb-backed store at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(dbPath, 0700); err != nil {
		return nil, makeError(ErrStorageFault, fmt.Sprintf(
			"failed to create block store directory: %v", err))
	}
	ldb, err := leveldb.OpenFile(dbPath, &opt.Options{Strict: opt.DefaultStrict})
	if err != nil {
		return nil, convertLdbErr(err, "failed to open block store database")
	}
	return &Store{ldb: ldb}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.ldb.Close(); err != nil {
		return convertLdbErr(err, "failed to close block store database")
	}
	return nil
}

func convertLdbErr(ldbErr error, desc string) Error {
	return Error{Err: ldbErr, Description: fmt.Sprintf("%s: %v", desc, ldbErr)}
}

// encodeHeightValue prepends the block hash the payload was written against,
// so a later reader can tell whether the height still belongs to that block.
func encodeHeightValue(blockHash chainhash.Hash, payload []byte) []byte {
	v := make([]byte, chainhash.HashSize+len(payload))
	copy(v, blockHash[:])
	copy(v[chainhash.HashSize:], payload)
	return v
}

func decodeHeightValue(v []byte) (chainhash.Hash, []byte, error) {
	if len(v) < chainhash.HashSize {
		var zero chainhash.Hash
		return zero, nil, makeError(ErrStorageFault, "truncated height-indexed record")
	}
	var h chainhash.Hash
	copy(h[:], v[:chainhash.HashSize])
	return h, v[chainhash.HashSize:], nil
}

// Write atomically records payloads, one per family, against blockIndex.
// Every family is written under the height key only; hash-keyed durability
// is established later, by Rewind, when that height stops being current.
func (s *Store) Write(blockIndex BlockIndex, payloads map[Family][]byte) error {
	b := new(leveldb.Batch)
	for family, payload := range payloads {
		b.Put(heightKey(family, blockIndex.Height), encodeHeightValue(blockIndex.Hash, payload))
	}
	if err := s.ldb.Write(b, nil); err != nil {
		return convertLdbErr(err, "failed to write block store batch")
	}
	return nil
}

// LookupOne returns the payload for family at blockIndex. It first checks
// the height index; if the row stored there was written against a
// different block (the height has since been repurposed by a reorg), it
// falls back to the hash index.
func (s *Store) LookupOne(family Family, blockIndex BlockIndex) ([]byte, error) {
	v, err := s.ldb.Get(heightKey(family, blockIndex.Height), nil)
	if err == nil {
		storedHash, payload, derr := decodeHeightValue(v)
		if derr != nil {
			return nil, derr
		}
		if storedHash == blockIndex.Hash {
			return payload, nil
		}
	} else if !errors.Is(err, leveldb.ErrNotFound) {
		return nil, convertLdbErr(err, "failed to read height-indexed record")
	}

	hv, err := s.ldb.Get(hashKey(family, blockIndex.Hash), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, makeError(ErrNotFound, fmt.Sprintf(
				"no record for family %d at block %s", family, blockIndex.Hash))
		}
		return nil, convertLdbErr(err, "failed to read hash-indexed record")
	}
	return hv, nil
}

// LookupRange returns the payloads for family across
// [startHeight, stop.Height], inclusive, in ascending height order.
// chainBlockHashAt must return the block hash actually on the queried chain
// at a given height; any height whose stored row disagrees with it is
// re-read from the hash index.
func (s *Store) LookupRange(family Family, startHeight int64, stop BlockIndex, chainBlockHashAt func(height int64) chainhash.Hash) ([][]byte, error) {
	if startHeight < 0 || startHeight > stop.Height {
		return nil, makeError(ErrInvalidRange, fmt.Sprintf(
			"invalid range [%d, %d]", startHeight, stop.Height))
	}

	n := stop.Height - startHeight + 1
	results := make([][]byte, n)
	for height := startHeight; height <= stop.Height; height++ {
		v, err := s.ldb.Get(heightKey(family, height), nil)
		if err != nil {
			if errors.Is(err, leveldb.ErrNotFound) {
				return nil, makeError(ErrInvalidRange, fmt.Sprintf(
					"missing height-indexed entry at height %d", height))
			}
			return nil, convertLdbErr(err, "failed to read height-indexed record")
		}
		storedHash, payload, derr := decodeHeightValue(v)
		if derr != nil {
			return nil, derr
		}

		want := chainBlockHashAt(height)
		if storedHash == want {
			results[height-startHeight] = payload
			continue
		}

		hv, err := s.ldb.Get(hashKey(family, want), nil)
		if err != nil {
			if errors.Is(err, leveldb.ErrNotFound) {
				return nil, makeError(ErrNotFound, fmt.Sprintf(
					"no record for family %d at block %s (height %d)", family, want, height))
			}
			return nil, convertLdbErr(err, "failed to read hash-indexed record")
		}
		results[height-startHeight] = hv
	}
	return results, nil
}

// Rewind copies every height-indexed row in (newTip.Height, currentTip.Height]
// into the hash index, for each of families, before the caller truncates the
// height index down to newTip. The per-family copies run concurrently, since
// each only touches its own key prefix, and are committed together in a
// single atomic batch.
func (s *Store) Rewind(currentTip, newTip BlockIndex, families []Family) error {
	if newTip.Height > currentTip.Height {
		return makeError(ErrInvalidRange, fmt.Sprintf(
			"new tip height %d exceeds current tip height %d", newTip.Height, currentTip.Height))
	}

	batches := make([]*leveldb.Batch, len(families))
	var g errgroup.Group
	for i, family := range families {
		i, family := i, family
		g.Go(func() error {
			b, err := s.copyHeightRangeToHashIndex(family, newTip.Height+1, currentTip.Height)
			if err != nil {
				return err
			}
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := new(leveldb.Batch)
	for _, b := range batches {
		if err := b.Replay(merged); err != nil {
			return convertLdbErr(err, "failed to merge rewind batches")
		}
	}
	if merged.Len() == 0 {
		return nil
	}
	if err := s.ldb.Write(merged, nil); err != nil {
		return convertLdbErr(err, "failed to commit rewind batch")
	}
	return nil
}

// copyHeightRangeToHashIndex builds (without committing) the batch of
// hash-keyed puts that preserve every height-indexed row for family in
// [fromHeight, toHeight].
func (s *Store) copyHeightRangeToHashIndex(family Family, fromHeight, toHeight int64) (*leveldb.Batch, error) {
	b := new(leveldb.Batch)
	if fromHeight > toHeight {
		return b, nil
	}

	iter := s.ldb.NewIterator(heightKeyPrefix(family), nil)
	defer iter.Release()

	lo := heightKey(family, fromHeight)
	for iter.Seek(lo); iter.Valid(); iter.Next() {
		key := iter.Key()
		height := int64(binary.BigEndian.Uint64(key[2:]))
		if height > toHeight {
			break
		}
		storedHash, payload, err := decodeHeightValue(iter.Value())
		if err != nil {
			return nil, err
		}
		b.Put(hashKey(family, storedHash), payload)
	}
	if err := iter.Error(); err != nil {
		return nil, convertLdbErr(err, "failed to iterate height index during rewind")
	}
	return b, nil
}
