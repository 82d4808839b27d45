// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mathutil

import "testing"

func TestLog2Floor(t *testing.T) {
	tests := []struct {
		v    uint64
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{1 << 63, 63},
		{1<<64 - 1, 63},
	}
	for _, test := range tests {
		got := Log2Floor(test.v)
		if got != test.want {
			t.Errorf("Log2Floor(%d) = %d, want %d", test.v, got, test.want)
		}
	}
}

func TestPeakHeight(t *testing.T) {
	// With 8 leaves present (total=8, binary 1000), a single perfect peak of
	// height 3 covers every index.
	for idx := uint64(0); idx < 8; idx++ {
		if got := PeakHeight(idx, 8); got != 3 {
			t.Errorf("PeakHeight(%d, 8) = %d, want 3", idx, got)
		}
	}
}
