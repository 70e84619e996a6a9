package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/samuelfneumann/snakelearn/game"
)

// PNG renders each frame to its own numbered PNG file
type PNG struct {
	dir      string
	cellSize int
	frame    int
}

// NewPNG returns a PNG renderer that writes frames into dir, creating
// it if needed. Each board cell is drawn as a cellSize square.
func NewPNG(dir string, cellSize int) (*PNG, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("newpng: cell size must be positive"+
			"\n\twant(>0)\n\thave(%v)", cellSize)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newpng: could not create frame directory: %w",
			err)
	}
	return &PNG{dir: dir, cellSize: cellSize}, nil
}

// Render implements the Renderer interface
func (p *PNG) Render(s game.State) error {
	dc := draw(s, p.cellSize)
	name := filepath.Join(p.dir, fmt.Sprintf("frame%06d.png", p.frame))
	p.frame++
	if err := dc.SavePNG(name); err != nil {
		return fmt.Errorf("render: could not save frame %v: %w", name, err)
	}
	return nil
}

// Frames returns the number of frames written so far
func (p *PNG) Frames() int {
	return p.frame
}

// Frame returns the image of s with each cell drawn as a cellSize
// square
func Frame(s game.State, cellSize int) image.Image {
	return draw(s, cellSize).Image()
}

func draw(s game.State, cellSize int) *gg.Context {
	grid := Grid(s)
	size := float64(cellSize)
	dc := gg.NewContext((s.Width+2)*cellSize, (s.Height+2)*cellSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for y, row := range grid {
		for x, c := range row {
			px, py := float64(x)*size, float64(y)*size
			switch c {
			case Wall:
				dc.SetHexColor("#5a5a5a")
				dc.DrawRectangle(px, py, size, size)
			case Body:
				dc.SetHexColor("#3c9a3c")
				dc.DrawRectangle(px+1, py+1, size-2, size-2)
			case Head:
				dc.SetHexColor("#1e5f1e")
				dc.DrawRectangle(px, py, size, size)
			case Food:
				dc.SetHexColor("#d23232")
				dc.DrawCircle(px+size/2, py+size/2, size/2-1)
			default:
				continue
			}
			dc.Fill()
		}
	}
	return dc
}
