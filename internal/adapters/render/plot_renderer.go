package render

import (
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotRenderer draws routes and convergence curves as PNG images.
type PlotRenderer struct {
	Width, Height vg.Length
}

func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{Width: 6 * vg.Inch, Height: 6 * vg.Inch}
}

// RenderRoute draws the depot, every customer and the trips of order.
// Each trip gets its own color and closes back at the depot.
func (r *PlotRenderer) RenderRoute(w io.Writer, inst *domain.ProblemInstance, order []int, title string) error {
	if inst == nil {
		return errors.New("render route: instance must be non-nil")
	}
	plans, err := domain.SplitRoutes(inst, order)
	if err != nil {
		return fmt.Errorf("render route: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	for i, plan := range plans {
		line, err := plotter.NewLine(toXYs(plan.Path(inst)))
		if err != nil {
			return fmt.Errorf("render route: trip %d: %w", i, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	if inst.Size() > 0 {
		customers, err := plotter.NewScatter(toXYs(inst.Locations()))
		if err != nil {
			return fmt.Errorf("render route: customers: %w", err)
		}
		customers.GlyphStyle.Shape = draw.CircleGlyph{}
		customers.GlyphStyle.Radius = vg.Points(3)
		customers.GlyphStyle.Color = color.RGBA{R: 30, G: 30, B: 200, A: 255}
		p.Add(customers)
		p.Legend.Add("customers", customers)
	}

	depot, err := plotter.NewScatter(toXYs([]domain.Coordinates{inst.Depot}))
	if err != nil {
		return fmt.Errorf("render route: depot: %w", err)
	}
	depot.GlyphStyle.Shape = draw.SquareGlyph{}
	depot.GlyphStyle.Radius = vg.Points(5)
	depot.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	p.Add(depot)
	p.Legend.Add("depot", depot)
	p.Legend.Top = true

	return r.write(p, w)
}

// RenderConvergence plots best and mean fitness per generation.
func (r *PlotRenderer) RenderConvergence(w io.Writer, history []domain.GenerationRecord, title string) error {
	if len(history) == 0 {
		return errors.New("render convergence: history is empty")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	bestPts := make(plotter.XYs, len(history))
	meanPts := make(plotter.XYs, len(history))
	for i, rec := range history {
		bestPts[i].X = float64(rec.Generation)
		bestPts[i].Y = rec.BestFitness
		meanPts[i].X = float64(rec.Generation)
		meanPts[i].Y = rec.MeanFitness
	}

	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return fmt.Errorf("render convergence: %w", err)
	}
	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return fmt.Errorf("render convergence: %w", err)
	}
	meanLine.Color = plotutil.Color(1)

	p.Add(bestLine, meanLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Top = true

	return r.write(p, w)
}

func (r *PlotRenderer) write(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render: write png: %w", err)
	}
	return nil
}

func toXYs(coords []domain.Coordinates) plotter.XYs {
	pts := make(plotter.XYs, len(coords))
	for i, c := range coords {
		pts[i].X = c.X
		pts[i].Y = c.Y
	}
	return pts
}
