package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Braille dot bits, indexed [row][col] within one 2x4 cell.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width x Height grid of Braille cells, giving 2*Width by
// 4*Height addressable dots. Dot (0, 0) is the top-left corner.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// DrawLine rasterizes the segment with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Viewport maps world coordinates onto canvas dots, y up.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

// Fit returns a viewport enclosing every point. Degenerate ranges are
// widened so that a vertical flight still has a visible x axis.
func Fit(xs, ys []float64) Viewport {
	v := Viewport{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for i := range xs {
		v.MinX, v.MaxX = math.Min(v.MinX, xs[i]), math.Max(v.MaxX, xs[i])
		v.MinY, v.MaxY = math.Min(v.MinY, ys[i]), math.Max(v.MaxY, ys[i])
	}
	if len(xs) == 0 {
		return Viewport{MaxX: 1, MaxY: 1}
	}
	if span := v.MaxY - v.MinY; v.MaxX-v.MinX < span/10 {
		mid := (v.MaxX + v.MinX) / 2
		v.MinX, v.MaxX = mid-span/20, mid+span/20
	}
	if v.MaxX == v.MinX {
		v.MinX, v.MaxX = v.MinX-1, v.MaxX+1
	}
	if v.MaxY == v.MinY {
		v.MinY, v.MaxY = v.MinY-1, v.MaxY+1
	}
	return v
}

func (v Viewport) project(c *Canvas, x, y float64) (int, int) {
	w, h := c.Dots()
	px := (x - v.MinX) / (v.MaxX - v.MinX) * float64(w-1)
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * float64(h-1)
	return int(math.Round(px)), int(math.Round(py))
}

// DrawPath connects consecutive points.
func (c *Canvas) DrawPath(v Viewport, xs, ys []float64) {
	for i := 1; i < len(xs); i++ {
		x0, y0 := v.project(c, xs[i-1], ys[i-1])
		x1, y1 := v.project(c, xs[i], ys[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Mark draws a small cross centered on the point.
func (c *Canvas) Mark(v Viewport, x, y float64) {
	px, py := v.project(c, x, y)
	for d := -1; d <= 1; d++ {
		c.Set(px+d, py)
		c.Set(px, py+d)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
