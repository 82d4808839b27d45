// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2016-2017 The Lightning Network Developers
// Copyright (c) 2018-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"sort"
	"sync"

	"github.com/dchest/siphash"
	"github.com/decred/dcrd/bitstream"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// KeySize is the size of the byte array required for key material for the
// SipHash keyed hash function.
const KeySize = 16

// fastReduce maps x into the range [0, N) using a multiply-and-shift trick
// that avoids a division, as described in a blog post by Daniel Lemire:
// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
func fastReduce(x, N uint64) uint64 {
	hi, _ := bits.Mul64(x, N)
	return hi
}

// uint64s implements sort.Interface for *[]uint64
type uint64s []uint64

func (s *uint64s) Len() int           { return len(*s) }
func (s *uint64s) Less(i, j int) bool { return (*s)[i] < (*s)[j] }
func (s *uint64s) Swap(i, j int)      { (*s)[i], (*s)[j] = (*s)[j], (*s)[i] }

// Filter describes an immutable Golomb-coded set that can be built from a
// set of data elements, serialized, deserialized, and queried in a
// thread-safe manner.
//
// The serialized form is N, encoded as a compact-size integer, followed by
// the sorted, delta-encoded, Golomb-Rice coded hashes of the member
// elements. The hash function used is SipHash, a keyed function; the key
// must be supplied out of band (it is not part of the serialized form) and
// must match between construction and querying for Match/MatchAny to
// produce meaningful results.
type Filter struct {
	n           uint32
	p           uint8
	modulusNM   uint64
	filterNData []byte
	filterData  []byte // slice into filterNData holding the raw coded bits
}

// P returns the filter's collision probability as a negative power of two.
// For example, a collision probability of 1/2^20 is represented as 20.
func (f *Filter) P() uint8 {
	return f.p
}

// N returns the size of the data set used to build the filter.
func (f *Filter) N() uint32 {
	return f.n
}

// NewFilter builds a new GCS filter with a collision probability of 1/2^P
// for the given key and data, using M = 2^P as the Golomb coding modulus.
//
// NOTE: P must not exceed 32.
func NewFilter(P uint8, key [KeySize]byte, data [][]byte) (*Filter, error) {
	if P > 32 {
		str := fmt.Sprintf("P value of %d is greater than max allowed 32", P)
		return nil, makeError(ErrPTooBig, str)
	}
	return newFilter(P, uint64(1)<<P, key, data)
}

// newFilter builds a filter with the specified Golomb-coding bin-size
// parameter P and modulus M.
func newFilter(P uint8, M uint64, key [KeySize]byte, data [][]byte) (*Filter, error) {
	numEntries := uint64(len(data))
	if numEntries > math.MaxUint32 {
		str := fmt.Sprintf("unable to create filter with %d entries greater "+
			"than max allowed %d", len(data), uint64(math.MaxUint32))
		return nil, makeError(ErrNTooBig, str)
	}

	k0 := binary.LittleEndian.Uint64(key[0:8])
	k1 := binary.LittleEndian.Uint64(key[8:16])

	// Hash each element, dropping empty elements and deduplicating
	// collisions so the encoded count exactly matches the decoded count.
	seen := make(map[uint64]struct{}, numEntries*2)
	values := make([]uint64, 0, numEntries)
	for _, d := range data {
		if len(d) == 0 {
			continue
		}
		v := siphash.Hash(k0, k1, d)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	numEntries = uint64(len(values))

	f := Filter{
		n:         uint32(numEntries),
		p:         P,
		modulusNM: numEntries * M,
	}

	if len(values) == 0 {
		f.filterNData = encodeN(0)
		f.filterData = nil
		return &f, nil
	}

	for i, v := range values {
		values[i] = fastReduce(v, f.modulusNM)
	}
	sort.Sort((*uint64s)(&values))

	w := bitstream.NewWriter()
	var prevValue uint64
	modPMask := uint64(1<<P) - 1
	for _, v := range values {
		delta := v - prevValue
		prevValue = v

		remainder := delta & modPMask
		quotient := (delta - remainder) >> P

		w.WriteUnary(quotient)
		w.WriteBits(remainder, uint(P))
	}
	body := w.Flush()

	nPrefix := encodeN(uint64(f.n))
	buf := make([]byte, 0, len(nPrefix)+len(body))
	buf = append(buf, nPrefix...)
	buf = append(buf, body...)
	f.filterNData = buf
	f.filterData = buf[len(nPrefix):]

	return &f, nil
}

// encodeN returns the compact-size encoding of n, the element count prefix.
func encodeN(n uint64) []byte {
	var buf bytes.Buffer
	buf.Grow(wire.VarIntSerializeSize(n))
	// Writing into a bytes.Buffer never fails.
	_ = wire.WriteVarInt(&buf, 0, n)
	return buf.Bytes()
}

// FromBytes deserializes a GCS filter from a known P and the serialized form
// returned by Bytes.
func FromBytes(P uint8, d []byte) (*Filter, error) {
	if P > 32 {
		str := fmt.Sprintf("P value of %d is greater than max allowed 32", P)
		return nil, makeError(ErrPTooBig, str)
	}

	var n uint64
	var filterData []byte
	if len(d) > 0 {
		var err error
		n, err = wire.ReadVarInt(bytes.NewReader(d), 0)
		if err != nil {
			str := fmt.Sprintf("failed to read number of filter items: %v", err)
			return nil, makeError(ErrMisserialized, str)
		}
		filterData = d[wire.VarIntSerializeSize(n):]
	}
	if n > math.MaxUint32 {
		str := fmt.Sprintf("decoded N of %d exceeds max allowed %d", n, math.MaxUint32)
		return nil, makeError(ErrNTooBig, str)
	}

	f := &Filter{
		n:           uint32(n),
		p:           P,
		modulusNM:   n * (uint64(1) << P),
		filterNData: d,
		filterData:  filterData,
	}

	// Validate that the stream decodes to exactly n values with no excess
	// payload left over.
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// validate decodes the full filter body once to confirm it yields exactly n
// values and consumes the stream cleanly.
func (f *Filter) validate() error {
	if f.n == 0 {
		if len(f.filterData) != 0 {
			return makeError(ErrMisserialized, "empty filter has non-empty body")
		}
		return nil
	}
	r := bitstream.NewReader(f.filterData)
	for i := uint32(0); i < f.n; i++ {
		if _, err := f.readFullUint64(r); err != nil {
			return makeError(ErrMisserialized, fmt.Sprintf(
				"failed to decode filter entry %d of %d: %v", i, f.n, err))
		}
	}
	if !r.Exhausted() {
		return makeError(ErrMisserialized, "filter body has trailing data beyond N entries")
	}
	return nil
}

// Bytes returns the serialized format of the GCS filter, which includes N
// but not the out-of-band parameters P, M, or key.
func (f *Filter) Bytes() []byte {
	return f.filterNData
}

// readFullUint64 reads a value represented by the sum of a unary multiple of
// the Golomb coding bin size (2^P) and a big-endian P-bit remainder.
func (f *Filter) readFullUint64(r *bitstream.Reader) (uint64, error) {
	q, err := r.ReadUnary()
	if err != nil {
		return 0, err
	}
	rem, err := r.ReadBits(uint(f.p))
	if err != nil {
		return 0, err
	}
	return q<<f.p + rem, nil
}

// Match checks whether data is likely (within the filter's collision
// probability) to be a member of the set represented by the filter.
func (f *Filter) Match(key [KeySize]byte, data []byte) bool {
	if len(f.filterData) == 0 || len(data) == 0 {
		return false
	}

	k0 := binary.LittleEndian.Uint64(key[0:8])
	k1 := binary.LittleEndian.Uint64(key[8:16])
	term := siphash.Hash(k0, k1, data)
	term = fastReduce(term, f.modulusNM)

	r := bitstream.NewReader(f.filterData)
	var lastValue uint64
	for lastValue <= term {
		value, err := f.readFullUint64(r)
		if err != nil {
			return false
		}
		value += lastValue
		if value == term {
			return true
		}
		lastValue = value
	}
	return false
}

// matchPool pools allocations for MatchAny's search-value buffer.
var matchPool sync.Pool

// MatchAny checks whether any value in data is likely (within the filter's
// collision probability) to be a member of the set represented by the
// filter, faster than calling Match for each value individually.
func (f *Filter) MatchAny(key [KeySize]byte, data [][]byte) bool {
	if len(f.filterData) == 0 || len(data) == 0 {
		return false
	}

	var values *[]uint64
	if v := matchPool.Get(); v != nil {
		values = v.(*[]uint64)
		*values = (*values)[:0]
	} else {
		vs := make([]uint64, 0, len(data))
		values = &vs
	}
	defer matchPool.Put(values)

	k0 := binary.LittleEndian.Uint64(key[0:8])
	k1 := binary.LittleEndian.Uint64(key[8:16])
	for _, d := range data {
		v := siphash.Hash(k0, k1, d)
		v = fastReduce(v, f.modulusNM)
		*values = append(*values, v)
	}
	sort.Sort((*uint64s)(values))

	r := bitstream.NewReader(f.filterData)
	searchSize := len(data)
	var searchIdx int
	var filterVal uint64
nextFilterVal:
	for i := uint32(0); i < f.n; i++ {
		delta, err := f.readFullUint64(r)
		if err != nil {
			return false
		}
		filterVal += delta

		for ; searchIdx < searchSize; searchIdx++ {
			searchVal := (*values)[searchIdx]
			if searchVal == filterVal {
				return true
			}
			if searchVal > filterVal {
				continue nextFilterVal
			}
		}
		break
	}
	return false
}

// doubleHashH computes SHA256(SHA256(b)), the chain's standard "SHA256d"
// commitment primitive. This is deliberately independent of chainhash.HashB
// and chainhash.HashH, which compute blake256 rather than SHA-256; filter
// hashing and header chaining commit with SHA256d specifically.
func doubleHashH(b []byte) chainhash.Hash {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return chainhash.Hash(second)
}

// Hash returns the double SHA-256 hash of the filter's serialized form. A
// filter whose serialized form has zero length hashes to all zeroes; a filter
// built from no elements serializes as a single zero byte and is hashed like
// any other.
func (f *Filter) Hash() chainhash.Hash {
	if len(f.filterNData) == 0 {
		return chainhash.Hash{}
	}
	return doubleHashH(f.filterNData)
}

// MakeHeaderForFilter computes the chained filter header for filter given
// the header of the previous block's filter, per the double SHA-256 commit
// scheme: header = SHA256d(filterHash || prevHeader).
func MakeHeaderForFilter(filter *Filter, prevHeader *chainhash.Hash) chainhash.Hash {
	var buf [2 * chainhash.HashSize]byte
	filterHash := filter.Hash()
	copy(buf[:], filterHash[:])
	copy(buf[chainhash.HashSize:], prevHeader[:])
	return doubleHashH(buf[:])
}
