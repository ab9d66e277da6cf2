package label

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// 4x6in thermal label at 96dpi.
const (
	labelWidth  = 384
	labelHeight = 576
)

// NormalizeLabelImage fits the rendered image onto a white label-sized
// canvas, so every printed label comes out at the same dimensions no matter
// what the renderer produced.
func NormalizeLabelImage(img image.Image) image.Image {
	fitted := imaging.Fit(img, labelWidth, labelHeight, imaging.Lanczos)
	canvas := imaging.New(labelWidth, labelHeight, color.White)
	return imaging.PasteCenter(canvas, fitted)
}
