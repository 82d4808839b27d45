// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package updatemmr

import (
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Entry is one node of the update MMR: a running count of leaves beneath it
// and the commitment hash of that subtree. A zero Count marks a subtree that
// has never been populated, or has since been fully emptied by Remove.
type Entry struct {
	Count uint32
	Hash  chainhash.Hash
}

// empty reports whether the entry represents an unpopulated subtree.
func (e Entry) empty() bool {
	return e.Count == 0
}

// serialize encodes the entry as a fixed 36-byte record: a little-endian
// count followed by the raw hash bytes.
func (e Entry) serialize() []byte {
	buf := make([]byte, 4+chainhash.HashSize)
	binary.LittleEndian.PutUint32(buf, e.Count)
	copy(buf[4:], e.Hash[:])
	return buf
}

// EntryList holds every intermediate hash produced while folding the leaf at
// one accumulator index up through the peak that currently covers it, at
// heights [0, len(EntryList)).
type EntryList []Entry

// newEmptyEntryList returns an all-empty entry list of the given size.
func newEmptyEntryList(size int) EntryList {
	return make(EntryList, size)
}

// empty reports whether every entry in the list is empty.
func (el EntryList) empty() bool {
	for _, e := range el {
		if !e.empty() {
			return false
		}
	}
	return true
}

// encode serializes el using a run-length scheme that collapses the leading
// run of empty entries and the following run of singleton entries (count ==
// 1) down to their height boundaries plus one shared hash. Every entry in
// that middle run is a verbatim copy of a single leaf hash propagated
// upward through otherwise-empty sibling subtrees, so storing it once
// suffices.
func (el EntryList) encode() []byte {
	maxHeight := len(el)

	height := 0
	for height < maxHeight && el[height].empty() {
		height++
	}
	terminalHeight := height

	for height < maxHeight && el[height].Count == 1 {
		height++
	}
	middleHeight := height

	buf := make([]byte, 0, 3+chainhash.HashSize+(maxHeight-middleHeight)*(4+chainhash.HashSize))
	buf = append(buf, byte(terminalHeight), byte(middleHeight), byte(maxHeight))
	if terminalHeight < middleHeight {
		buf = append(buf, el[terminalHeight].Hash[:]...)
	}
	for ; height < maxHeight; height++ {
		buf = append(buf, el[height].serialize()...)
	}
	return buf
}

// decodeEntryList reverses encode, validating that every height marker is
// consistent and that the buffer is consumed exactly.
func decodeEntryList(data []byte) (EntryList, error) {
	if len(data) < 3 {
		return nil, makeError(ErrCorruptEntryList, "entry list truncated before height markers")
	}
	terminalHeight, middleHeight, maxHeight := int(data[0]), int(data[1]), int(data[2])
	if terminalHeight > middleHeight || middleHeight > maxHeight {
		return nil, makeError(ErrCorruptEntryList, fmt.Sprintf(
			"entry list has inconsistent height markers %d/%d/%d",
			terminalHeight, middleHeight, maxHeight))
	}

	pos := 3
	el := make(EntryList, maxHeight)
	height := terminalHeight

	if terminalHeight < middleHeight {
		if pos+chainhash.HashSize > len(data) {
			return nil, makeError(ErrCorruptEntryList, "entry list truncated in terminal hash")
		}
		var terminalHash chainhash.Hash
		copy(terminalHash[:], data[pos:pos+chainhash.HashSize])
		pos += chainhash.HashSize
		for ; height < middleHeight; height++ {
			el[height] = Entry{Count: 1, Hash: terminalHash}
		}
	}

	for ; height < maxHeight; height++ {
		const recordSize = 4 + chainhash.HashSize
		if pos+recordSize > len(data) {
			return nil, makeError(ErrCorruptEntryList, "entry list truncated in entry record")
		}
		count := binary.LittleEndian.Uint32(data[pos:])
		pos += 4
		var h chainhash.Hash
		copy(h[:], data[pos:pos+chainhash.HashSize])
		pos += chainhash.HashSize
		el[height] = Entry{Count: count, Hash: h}
	}

	if pos != len(data) {
		return nil, makeError(ErrCorruptEntryList, "entry list has trailing bytes")
	}
	return el, nil
}
