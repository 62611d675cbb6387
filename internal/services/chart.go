package services

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rahul4469/area-analyzer/internal/models"
)

const (
	chartWidth  = 720
	chartHeight = 400
)

// bar colors, cycled per category
var barPalette = []drawing.Color{
	{R: 75, G: 192, B: 192, A: 204},
	{R: 255, G: 159, B: 64, A: 204},
	{R: 153, G: 102, B: 255, A: 204},
	{R: 255, G: 99, B: 132, A: 204},
}

// ChartRenderer draws a ChartDataset as a PNG bar chart.
type ChartRenderer struct {
	Width  int
	Height int
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{Width: chartWidth, Height: chartHeight}
}

// Render builds a new chart instance with a fresh ID.
func (r *ChartRenderer) Render(dataset models.ChartDataset) (*models.Chart, error) {
	if len(dataset.Points) == 0 {
		return nil, fmt.Errorf("render chart: dataset %q has no points", dataset.Label)
	}

	bars := make([]chart.Value, len(dataset.Points))
	maxValue := 0.0
	for i, p := range dataset.Points {
		col := barPalette[i%len(barPalette)]
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{
				FillColor:   col,
				StrokeColor: col.WithAlpha(255),
				StrokeWidth: 2,
			},
		}
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}

	// y axis starts at zero; a flat dataset still needs a non-empty range
	if maxValue <= 0 {
		maxValue = 1
	}

	bc := chart.BarChart{
		Title:    dataset.Label,
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	return &models.Chart{
		ID:      uuid.NewString(),
		Dataset: dataset,
		PNG:     buf.Bytes(),
	}, nil
}
