// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainmmr implements an in-memory Mountain-Merkle Range (MMR)
// accumulator over the active chain's block hashes, supporting commitment
// generation and membership proof construction/verification for any earlier
// block against a later root.
package chainmmr

import (
	"crypto/sha256"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/mathutil"
)

// BlockHasher returns the block hash at the given height on the chain being
// committed to. It is the sole external collaborator this package needs.
type BlockHasher func(height int64) chainhash.Hash

// MMR caches, per chain height, the sequence of intermediate peak hashes
// produced while folding that height's leaf up into the tree. This mirrors
// the "entry list at an index" concept of the disk-backed update MMR, kept
// purely in memory here because the active chain's hash vector is itself
// already held in memory by the owner.
type MMR struct {
	entries [][]chainhash.Hash // entries[height] has length peakHeight(height, height+1)+1; entries[height][0] is the leaf
}

// New returns an empty MMR with no cached heights.
func New() *MMR {
	return &MMR{}
}

// hashPair returns SHA256(a || b).
func hashPair(a, b chainhash.Hash) chainhash.Hash {
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var out chainhash.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// getEntry returns the cached intermediate hash at the given height level
// for the subtree rooted through idx.
func (m *MMR) getEntry(idx int64, level int) chainhash.Hash {
	return m.entries[idx][level]
}

// computeMMRPeak folds the leaf at headerHeight up to the peak that covers
// it within a tree whose root sits at rootHeight, optionally recording the
// leaf followed by the intermediate hash produced at every fold level and/or
// the sibling used at every level (the Merkle branch).
func (m *MMR) computeMMRPeak(headerHeight, rootHeight int64, blockHash BlockHasher,
	recordIntermediate, recordBranch bool) (peak chainhash.Hash, intermediate, branch []chainhash.Hash, err error) {
	if headerHeight > rootHeight {
		return chainhash.Hash{}, nil, nil, makeError(ErrInvalidHeight,
			"header_height must be <= root_height")
	}

	peakHeight := mathutil.PeakHeight(uint64(headerHeight), uint64(rootHeight)+1)
	if recordIntermediate {
		intermediate = make([]chainhash.Hash, 0, peakHeight+1)
	}
	if recordBranch {
		branch = make([]chainhash.Hash, 0, peakHeight)
	}

	peak = blockHash(headerHeight)
	if recordIntermediate {
		intermediate = append(intermediate, peak)
	}
	idx := headerHeight

	for bit := 0; bit < peakHeight; bit++ {
		mask := int64(1) << uint(bit)
		other := m.getEntry(idx^mask, bit)

		if idx&mask != 0 {
			peak = hashPair(other, peak)
		} else {
			peak = hashPair(peak, other)
		}

		if recordIntermediate {
			intermediate = append(intermediate, peak)
		}
		if recordBranch {
			branch = append(branch, other)
		}

		idx |= mask
	}

	return peak, intermediate, branch, nil
}

// Peaks returns the MMR peaks for a tree whose root sits at rootHeight,
// ordered from lowest height to highest.
func (m *MMR) Peaks(rootHeight int64) []chainhash.Hash {
	idx := rootHeight + 1
	peaks := make([]chainhash.Hash, 0, mathutil.NumPeaksBefore(uint64(idx)))
	for bit := 0; idx != 0; bit++ {
		mask := int64(1) << uint(bit)
		if idx&mask != 0 {
			peaks = append(peaks, m.getEntry(idx-1, bit))
			idx ^= mask
		}
	}
	return peaks
}

// Commitment folds the peaks for rootHeight left-to-right into a single
// 32-byte commitment, starting from the all-zero hash.
func (m *MMR) Commitment(rootHeight int64) chainhash.Hash {
	var commitment chainhash.Hash
	for _, peak := range m.Peaks(rootHeight) {
		commitment = hashPair(commitment, peak)
	}
	return commitment
}

// Proof returns the membership proof for the block at headerHeight against
// the commitment at rootHeight, along with that commitment.
func (m *MMR) Proof(headerHeight, rootHeight int64, blockHash BlockHasher) (proof []chainhash.Hash, rootCommitment chainhash.Hash, err error) {
	if headerHeight > rootHeight {
		return nil, chainhash.Hash{}, makeError(ErrInvalidHeight,
			"header_height must be <= root_height")
	}

	idx := rootHeight + 1
	peakHeight := mathutil.PeakHeight(uint64(headerHeight), uint64(idx))
	mask := (int64(1) << uint(peakHeight)) - 1
	nLowerPeaks := mathutil.NumPeaksBefore(uint64(idx & mask))
	nHigherPeaks := mathutil.NumPeaksBefore(uint64(idx &^ mask)) - 1

	proof = make([]chainhash.Hash, 0, peakHeight+1+nHigherPeaks)

	proofPeak, _, branch, err := m.computeMMRPeak(headerHeight, rootHeight, blockHash, false, true)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	proof = append(proof, branch...)

	peaks := m.Peaks(rootHeight)

	var commitment chainhash.Hash
	for i := 0; i < nLowerPeaks; i++ {
		commitment = hashPair(commitment, peaks[i])
	}

	proof = append(proof, commitment)
	commitment = hashPair(commitment, proofPeak)

	for i := nLowerPeaks + 1; i < len(peaks); i++ {
		proof = append(proof, peaks[i])
		commitment = hashPair(commitment, peaks[i])
	}

	return proof, commitment, nil
}

// Verify checks a membership proof produced by Proof against an
// independently obtained rootCommitment, without access to the MMR cache
// that produced it.
func Verify(headerHeight, rootHeight int64, blockHash chainhash.Hash, rootCommitment chainhash.Hash, proof []chainhash.Hash) (bool, error) {
	if headerHeight > rootHeight {
		return false, makeError(ErrInvalidHeight, "header_height must be <= root_height")
	}

	peakHeight := mathutil.PeakHeight(uint64(headerHeight), uint64(rootHeight)+1)
	if len(proof) < peakHeight+1 {
		return false, makeError(ErrShortProof, "proof shorter than required branch length")
	}

	commitment := blockHash
	i := 0
	for ; i < peakHeight; i++ {
		if headerHeight&(int64(1)<<uint(i)) != 0 {
			commitment = hashPair(proof[i], commitment)
		} else {
			commitment = hashPair(commitment, proof[i])
		}
	}

	commitment = hashPair(proof[i], commitment)
	i++

	for ; i < len(proof); i++ {
		commitment = hashPair(commitment, proof[i])
	}

	return commitment == rootCommitment, nil
}

// SetTip (re)computes and caches the entry lists for every height from
// forkHeight+1 through tipHeight, inclusive, growing the cache as needed.
// The caller is responsible for supplying forkHeight as the height of the
// last block shared with whatever entries are already cached (-1 to
// recompute from genesis).
func (m *MMR) SetTip(forkHeight, tipHeight int64, blockHash BlockHasher) error {
	if tipHeight < forkHeight {
		m.entries = m.entries[:forkHeight+1]
		return nil
	}
	if int64(len(m.entries)) < tipHeight+1 {
		grown := make([][]chainhash.Hash, tipHeight+1)
		copy(grown, m.entries)
		m.entries = grown
	}
	for height := forkHeight + 1; height <= tipHeight; height++ {
		_, intermediate, _, err := m.computeMMRPeak(height, height, blockHash, true, false)
		if err != nil {
			return err
		}
		m.entries[height] = intermediate
	}
	return nil
}
