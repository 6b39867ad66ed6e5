package stream

import (
	"encoding/binary"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledanim/animation"
)

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a new black Frame of n pixels.
func NewFrame(n int) *Frame {
	return &Frame{pixels: make([]colorful.Color, max(n, 0))}
}

// Len returns the number of pixels in the frame.
func (f *Frame) Len() int { return len(f.pixels) }

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color { return f.pixels[i] }

// SetPixel sets the colour of pixel i. Out of range indices are ignored.
func (f *Frame) SetPixel(i int, c colorful.Color) {
	if i < 0 || i >= len(f.pixels) {
		return
	}
	f.pixels[i] = c
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// Interpolate returns a new frame blending f towards f2 in HCL space by
// t. Pixels missing from the shorter frame are treated as black.
func (f *Frame) Interpolate(f2 *Frame, t float64) *Frame {
	out := NewFrame(max(f.Len(), f2.Len()))
	for i := range out.pixels {
		out.pixels[i] = pixelAt(f, i).BlendHcl(pixelAt(f2, i), t)
	}
	return out
}

// Blend blends f towards f2 in place.
func (f *Frame) Blend(f2 *Frame, t float64) {
	for i := range f.pixels {
		f.pixels[i] = f.pixels[i].BlendHcl(pixelAt(f2, i), t)
	}
}

func pixelAt(f *Frame, i int) colorful.Color {
	if i < len(f.pixels) {
		return f.pixels[i]
	}
	return colorful.Color{}
}

// FrameInterpolator interpolates between frames. It allows whole frames
// to be keyframed and animated.
var FrameInterpolator animation.Interpolator[*Frame] = func(start, end *Frame, t float64) *Frame {
	return start.Interpolate(end, t)
}

// MarshalBinary converts a Frame into binary data: a little-endian uint16
// pixel count followed by the clamped 8-bit RGB triplet of each pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.pixels) > 0xffff {
		return nil, fmt.Errorf("too many pixels: %d", len(f.pixels))
	}
	data = make([]byte, 2, len(f.pixels)*3+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("short frame header: %d bytes", len(data))
	}
	n := int(binary.LittleEndian.Uint16(data))
	data = data[2:]
	if len(data) != n*3 {
		return fmt.Errorf("frame length mismatch: %d pixels in %d bytes", n, len(data))
	}
	f.pixels = make([]colorful.Color, n)
	for i := range f.pixels {
		f.pixels[i] = colorful.Color{
			R: float64(data[3*i]) / 255,
			G: float64(data[3*i+1]) / 255,
			B: float64(data[3*i+2]) / 255,
		}
	}
	return nil
}
