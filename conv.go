// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/texstore

package texstore

import "math/bits"

const maxInt = int(^uint(0) >> 1)

// mulSize multiplies two non-negative sizes.
func mulSize(a, b int) (int, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b)) // #nosec G115 -- callers pass non-negative values.
	if hi != 0 || lo > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(lo), nil
}

// addSize adds two non-negative sizes.
func addSize(a, b int) (int, error) {
	if a > maxInt-b {
		return 0, ErrSizeOverflow
	}

	return a + b, nil
}

// u32FromInt converts an int to a uint32, saturating out-of-range values.
func u32FromInt(n int) uint32 {
	switch {
	case n < 0:
		return 0
	case uint64(n) > uint64(^uint32(0)):
		return ^uint32(0)
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n)
}
