package texstore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Extent is a texel extent. Unused axes are 1.
type Extent struct {
	Width  int
	Height int
	Depth  int
}

// Extent1D returns a one-dimensional extent.
func Extent1D(width int) Extent { return Extent{Width: width, Height: 1, Depth: 1} }

// Extent2D returns a two-dimensional extent.
func Extent2D(width, height int) Extent { return Extent{Width: width, Height: height, Depth: 1} }

// Extent3D returns a three-dimensional extent.
func Extent3D(width, height, depth int) Extent {
	return Extent{Width: width, Height: height, Depth: depth}
}

// IsZero reports whether every axis is zero.
func (e Extent) IsZero() bool { return e == Extent{} }

// Max returns the largest axis.
func (e Extent) Max() int { return max(e.Width, e.Height, e.Depth) }

// GPU converts e to a WebGPU extent. Negative axes clamp to zero.
func (e Extent) GPU() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              u32FromInt(e.Width),
		Height:             u32FromInt(e.Height),
		DepthOrArrayLayers: u32FromInt(e.Depth),
	}
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%dx%d", e.Width, e.Height, e.Depth)
}

// positive reports whether every axis is at least 1.
func (e Extent) positive() bool {
	return e.Width > 0 && e.Height > 0 && e.Depth > 0
}

// blocks returns the number of blocks of size block covering e on each axis,
// rounding partial blocks up.
func (e Extent) blocks(block Extent) Extent {
	return Extent{
		Width:  ceilDiv(e.Width, block.Width),
		Height: ceilDiv(e.Height, block.Height),
		Depth:  ceilDiv(e.Depth, block.Depth),
	}
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
