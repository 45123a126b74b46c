package document

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
)

const (
	// pixels per point when rasterising photos into the document
	printScale  = 2.0
	jpegQuality = 85
)

// AspectFill returns the rectangle an image of size srcW x srcH occupies when
// scaled to cover cell completely while keeping its aspect ratio. The result
// is centered on cell and overflows it along one axis.
func AspectFill(srcW, srcH float64, cell Rect) Rect {
	if srcW <= 0 || srcH <= 0 || cell.W <= 0 || cell.H <= 0 {
		return cell
	}
	imgAspect := srcW / srcH
	cellAspect := cell.W / cell.H
	if imgAspect > cellAspect {
		w := cell.H * imgAspect
		return Rect{X: cell.X + (cell.W-w)/2, Y: cell.Y, W: w, H: cell.H}
	}
	h := cell.W / imgAspect
	return Rect{X: cell.X, Y: cell.Y + (cell.H-h)/2, W: cell.W, H: h}
}

// fillCrop is the region of b that remains visible after AspectFill into a
// cell of the given size.
func fillCrop(b image.Rectangle, cellW, cellH float64) image.Rectangle {
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	if srcW == 0 || srcH == 0 || cellW <= 0 || cellH <= 0 {
		return b
	}
	cellAspect := cellW / cellH
	if srcW/srcH > cellAspect {
		w := int(math.Round(srcH * cellAspect))
		x0 := b.Min.X + (b.Dx()-w)/2
		return image.Rect(x0, b.Min.Y, x0+w, b.Max.Y)
	}
	h := int(math.Round(srcW / cellAspect))
	y0 := b.Min.Y + (b.Dy()-h)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+h)
}

// fillJPEG crops img to the cell's aspect ratio, downscales it to the cell's
// print resolution and encodes it as JPEG on a white background.
func fillJPEG(img image.Image, cell Rect) ([]byte, error) {
	crop := fillCrop(img.Bounds(), cell.W, cell.H)
	tw := int(math.Round(cell.W * printScale))
	th := int(math.Round(cell.H * printScale))
	if crop.Dx() < tw {
		tw, th = crop.Dx(), crop.Dy()
	}
	tw, th = max(tw, 1), max(th, 1)

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
