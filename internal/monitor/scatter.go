package monitor

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/purehull/internal/cluster"
	"github.com/banshee-data/purehull/internal/geom"
)

// SavePNG renders a static scatter of the clustering result to a PNG
// file, one color per cluster.
func SavePNG(path, title string, records []cluster.Record, maxPoints int) error {
	if d := dimensionOf(records); d != 0 && d != 2 {
		return fmt.Errorf("%d-dimensional result: %w", d, ErrNot2D)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	colors := generateColors(len(records))
	for i, r := range records {
		coords := append(append([]geom.Coordinate{}, r.Vertices...), r.Points...)
		coords = sample(coords, maxPoints)
		pts := make(plotter.XYs, 0, len(coords))
		for _, c := range coords {
			pts = append(pts, plotter.XY{X: c[0], Y: c[1]})
		}

		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("build scatter for cluster %d: %w", i, err)
		}
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("cluster %d (label %d)", i+1, r.Label), s)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save scatter plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors, one per cluster.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		hue2rgb := func(p, q, t float64) float64 {
			if t < 0 {
				t++
			}
			if t > 1 {
				t--
			}
			switch {
			case t < 1.0/6.0:
				return p + (q-p)*6*t
			case t < 1.0/2.0:
				return q
			case t < 2.0/3.0:
				return p + (q-p)*(2.0/3.0-t)*6
			default:
				return p
			}
		}

		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q

		rf = hue2rgb(p, q, h+1.0/3.0)
		gf = hue2rgb(p, q, h)
		bf = hue2rgb(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}
