package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot creates new plot of the simulation from the three data sources:
// truth:     ground truth robot trajectory
// estimated: filter trajectory estimate
// landmarks: estimated landmark positions
// Each matrix stores one 2D point per row.
// It returns error if either of the data matrices is nil or has fewer than 2
// columns, or if the gonum plot fails to be created.
func New2DPlot(truth, estimated, landmarks *mat.Dense) (*plot.Plot, error) {
	if truth == nil || estimated == nil || landmarks == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	for _, m := range []*mat.Dense{truth, estimated, landmarks} {
		if _, c := m.Dims(); c < 2 {
			return nil, fmt.Errorf("invalid data dimensions")
		}
	}

	p := plot.New()

	p.Title.Text = "SLAM simulation"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	truthLine, err := plotter.NewLine(makePoints(truth))
	if err != nil {
		return nil, err
	}
	truthLine.Color = color.RGBA{R: 255, B: 128, A: 255}

	p.Add(truthLine)
	p.Legend.Add("truth", truthLine)

	estLine, err := plotter.NewLine(makePoints(estimated))
	if err != nil {
		return nil, err
	}
	estLine.Color = color.RGBA{G: 255, A: 128}

	p.Add(estLine)
	p.Legend.Add("estimated", estLine)

	lmScatter, err := plotter.NewScatter(makePoints(landmarks))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	lmScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169}
	lmScatter.Shape = draw.CrossGlyph{}
	lmScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(lmScatter)
	p.Legend.Add("landmarks", lmScatter)

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
