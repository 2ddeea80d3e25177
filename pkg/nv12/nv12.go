// Package nv12 provides plane math and conversions for the NV12 pixel
// layout: a full-resolution luma plane followed by an interleaved CbCr
// plane at half resolution in each dimension.
package nv12

import (
	"image"

	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// ChromaRows returns the number of interleaved chroma rows for a frame
// height: ceil(height/2).
func ChromaRows(height int) int {
	return (height + 1) / 2
}

// LumaSize returns the byte length of the luma plane.
func LumaSize(stride, height int) int {
	return stride * height
}

// ChromaSize returns the byte length of the interleaved chroma plane.
func ChromaSize(stride, height int) int {
	return stride * ChromaRows(height)
}

// TotalSize returns the byte length of a full NV12 image at the given
// stride.
func TotalSize(stride, height int) int {
	return stride * (height + ChromaRows(height))
}

// Picture is a flat NV12 image: luma plane first, chroma plane
// immediately after, both at the same stride.
type Picture struct {
	Data   []byte
	Stride int
	Width  uint32
	Height uint32
}

// NewPicture allocates a zeroed picture with stride equal to width and
// chroma set to the neutral value.
func NewPicture(width, height uint32) *Picture {
	stride := int(width)
	h := int(height)
	data := make([]byte, TotalSize(stride, h))
	chroma := data[LumaSize(stride, h):]
	for i := range chroma {
		chroma[i] = 128
	}
	return &Picture{Data: data, Stride: stride, Width: width, Height: height}
}

// Luma returns the luma plane slice.
func (p *Picture) Luma() []byte {
	return p.Data[:LumaSize(p.Stride, int(p.Height))]
}

// Chroma returns the interleaved chroma plane slice.
func (p *Picture) Chroma() []byte {
	y := LumaSize(p.Stride, int(p.Height))
	return p.Data[y : y+ChromaSize(p.Stride, int(p.Height))]
}

// ToYCbCr converts a frame into a stdlib 4:2:0 image by de-interleaving
// the chroma plane. Stride padding beyond the logical width is dropped.
func ToYCbCr(f *ports.Frame) (*image.YCbCr, error) {
	w := int(f.Width)
	h := int(f.Height)
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid frame dimensions %dx%d", w, h)
	}
	if len(f.Luma) < LumaSize(f.LumaStride, h) {
		return nil, errors.Errorf("luma plane too short: %d < %d", len(f.Luma), LumaSize(f.LumaStride, h))
	}
	if len(f.Chroma) < ChromaSize(f.ChromaStride, h) {
		return nil, errors.Errorf("chroma plane too short: %d < %d", len(f.Chroma), ChromaSize(f.ChromaStride, h))
	}

	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	for row := 0; row < h; row++ {
		copy(img.Y[row*img.YStride:row*img.YStride+w], f.Luma[row*f.LumaStride:])
	}
	cw := (w + 1) / 2
	for row := 0; row < ChromaRows(h); row++ {
		src := f.Chroma[row*f.ChromaStride:]
		for x := 0; x < cw; x++ {
			img.Cb[row*img.CStride+x] = src[2*x]
			img.Cr[row*img.CStride+x] = src[2*x+1]
		}
	}
	return img, nil
}
