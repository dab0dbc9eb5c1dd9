// Package imgprep prepares raster images for OCR. It produces the grayscale
// variants and region crops the multi-pass orchestrator feeds to the engine.
package imgprep

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Variant is a named, preprocessed rendition of the source image.
type Variant struct {
	Name  string
	Image image.Image
}

const (
	maxDimension    = 2000
	upscaleBelow    = 1200
	upscaleTarget   = 1400
	topStripFrac    = 0.32
	rightStripFrac  = 0.42
	binarizeCutoff  = 210
	softBlurBelow   = 900
	softBlurTargetH = 1300
)

// ResizeSane keeps OCR input at a sane size: downscale huge phone photos,
// lightly upscale tiny ones. Aspect ratio is preserved.
func ResizeSane(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := w
	if h > m {
		m = h
	}
	if m > maxDimension {
		if w >= h {
			return imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
		}
		return imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
	}
	if m < upscaleBelow {
		if w >= h {
			return imaging.Resize(img, upscaleTarget, 0, imaging.Lanczos)
		}
		return imaging.Resize(img, 0, upscaleTarget, imaging.Lanczos)
	}
	return img
}

// FullPageVariants returns the full-page renditions used by the base pass:
// a denoised one for clean scans, a sharpened one for faded thermal
// receipts, and a hard-thresholded one for high-contrast prints.
func FullPageVariants(img image.Image) []Variant {
	gray := imaging.Grayscale(img)
	norm := imaging.AdjustContrast(gray, 15)

	denoise := imaging.Blur(norm, 0.6)
	sharp := imaging.Sharpen(norm, 1.0)
	binary := BinarizeDefault(norm)

	return []Variant{
		{Name: "denoise", Image: denoise},
		{Name: "sharp", Image: sharp},
		{Name: "binary", Image: binary},
	}
}

// VendorTopStrip crops the top region of the receipt, where the merchant
// banner usually sits, and closes up broken letter strokes.
func VendorTopStrip(img image.Image) image.Image {
	b := img.Bounds()
	y2 := int(float64(b.Dy()) * topStripFrac)
	if y2 < 1 {
		y2 = 1
	}
	crop := imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+y2))
	gray := imaging.Grayscale(crop)
	gray = imaging.AdjustContrast(gray, 20)
	return imaging.Sharpen(gray, 0.7)
}

// TotalsRightStrip crops the right-hand column where amounts are printed.
func TotalsRightStrip(img image.Image) image.Image {
	b := img.Bounds()
	x1 := b.Min.X + int(float64(b.Dx())*(1.0-rightStripFrac))
	if x1 < b.Min.X {
		x1 = b.Min.X
	}
	crop := imaging.Crop(img, image.Rect(x1, b.Min.Y, b.Max.X, b.Max.Y))
	gray := imaging.Grayscale(crop)
	gray = imaging.AdjustContrast(gray, 20)
	return imaging.Sharpen(gray, 1.0)
}

// SoftText applies a gentle blur-then-normalize treatment that helps when
// aggressive binarization has eaten the vendor letters.
func SoftText(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	soft := imaging.Blur(gray, 0.8)
	if soft.Bounds().Dy() < softBlurBelow {
		soft = imaging.Resize(soft, 0, softBlurTargetH, imaging.Lanczos)
	}
	return soft
}

// Binarize applies a hard threshold, producing a pure black/white image.
// Tesseract tends to like this for thermal receipts.
func Binarize(img image.Image, cutoff uint8) image.Image {
	return imaging.AdjustFunc(imaging.Grayscale(img), func(c color.NRGBA) color.NRGBA {
		// already grayscale, so the red channel is a brightness proxy
		if c.R > cutoff {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	})
}

// BinarizeDefault applies Binarize with the default receipt cutoff.
func BinarizeDefault(img image.Image) image.Image {
	return Binarize(img, binarizeCutoff)
}
