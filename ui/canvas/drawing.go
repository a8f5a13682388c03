package canvas

import (
	"image"
	"image/color"
)

// Overlay colors. Selection chrome stays constant regardless of theme so
// it reads against any scene content.
var (
	accentColor  = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 255}
	marqueeColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	handleFill   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cropColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedRect draws a dashed axis-aligned rectangle outline.
func drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	set := func(x, y int) {
		if (x+y)%6 < 3 && x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x, y, col)
		}
	}
	for x := x1; x <= x2; x++ {
		set(x, y1)
		set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y)
		set(x2, y)
	}
}

// drawHandleSquare draws a filled square handle with an accent outline.
func drawHandleSquare(output *image.RGBA, cx, cy, half int) {
	bounds := output.Bounds()
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			onEdge := x == cx-half || x == cx+half || y == cy-half || y == cy+half
			if onEdge {
				output.Set(x, y, accentColor)
			} else {
				output.Set(x, y, handleFill)
			}
		}
	}
}

// drawHandleCircle draws a filled circular handle with an accent ring.
func drawHandleCircle(output *image.RGBA, cx, cy, radius int) {
	bounds := output.Bounds()
	r2 := radius * radius
	inner := (radius - 1) * (radius - 1)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			d2 := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if d2 > r2 {
				continue
			}
			if d2 >= inner {
				output.Set(x, y, accentColor)
			} else {
				output.Set(x, y, handleFill)
			}
		}
	}
}
