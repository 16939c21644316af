package texstore

import "math/bits"

// LevelCount returns the length of the full mip chain for base: the number of
// halvings until every axis reaches 1, plus one. Non-positive extents have a
// single level.
func LevelCount(base Extent) int {
	m := base.Max()
	if m < 1 {
		return 1
	}

	return bits.Len(uint(m))
}

// LevelExtent returns the extent of mip level level of base. Each axis is
// halved level times and floored at 1.
func LevelExtent(base Extent, level int) Extent {
	return Extent{
		Width:  mipDimension(base.Width, level),
		Height: mipDimension(base.Height, level),
		Depth:  mipDimension(base.Depth, level),
	}
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	if level >= bits.UintSize {
		return 1
	}
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}
