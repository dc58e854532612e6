package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
)

const (
	gifCharW = 8
	gifCharH = 16
)

var gifPalette = color.Palette{
	color.Black,
	color.White,
	color.RGBA{R: 0xff, G: 0xff, A: 0xff},
}

// Image rasterizes the canvas, drawing each lit braille dot as a white
// block and each marker cell in yellow.
func (c *Canvas) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*gifCharW, c.Height*gifCharH), gifPalette)
	dotW, dotH := gifCharW/2, gifCharH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			baseX, baseY := col*gifCharW, row*gifCharH
			if c.marks[row][col] != 0 {
				fill(img, baseX, baseY, gifCharW, gifCharH, 2)
				continue
			}
			bits := c.Grid[row][col] - brailleBlank
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if bits&pixelMap[dy][dx] != 0 {
						fill(img, baseX+dx*dotW, baseY+dy*dotH, dotW, dotH, 1)
					}
				}
			}
		}
	}
	return img
}

func fill(img *image.Paletted, x0, y0, w, h int, idx uint8) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.SetColorIndex(x, y, idx)
		}
	}
}

// EncodeGIF writes frames as a looping animation.
func EncodeGIF(w io.Writer, frames []*image.Paletted) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	return gif.EncodeAll(w, &anim)
}
