package services

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rahul4469/area-analyzer/internal/models"
)

// PlaceholderHeaders are the column headers of the placeholder table.
var PlaceholderHeaders = []string{"Category", "Value"}

// PlaceholderAnalyzer fabricates demo metrics for an area without calling
// the backend.
type PlaceholderAnalyzer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPlaceholderAnalyzer uses src for the random values; nil seeds from the
// clock.
func NewPlaceholderAnalyzer(src rand.Source) *PlaceholderAnalyzer {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>7)
	}
	return &PlaceholderAnalyzer{rnd: rand.New(src)}
}

// Analyze returns four synthetic metrics for area. An empty or
// whitespace-only area yields ErrEmptyArea and nothing else.
func (a *PlaceholderAnalyzer) Analyze(area string) (*models.BoardResult, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, models.ErrEmptyArea
	}

	a.mu.Lock()
	rows := []models.MetricRow{
		{Category: "Population", Value: a.rnd.IntN(1000000)},
		{Category: "Average Temperature", Value: fmt.Sprintf("%d °C", a.rnd.IntN(40))},
		{Category: "Number of Schools", Value: a.rnd.IntN(500)},
		{Category: "Number of Hospitals", Value: a.rnd.IntN(50)},
	}
	a.mu.Unlock()

	dataset := models.ChartDataset{
		Label:  fmt.Sprintf("Data for %s", area),
		Points: make([]models.ChartPoint, len(rows)),
	}
	for i, row := range rows {
		dataset.Points[i] = models.ChartPoint{Label: row.Category, Value: CoerceNumeric(row.Value)}
	}

	return &models.BoardResult{
		Area:    area,
		Summary: fmt.Sprintf("Data for %s: Population, Weather, and Services overview", area),
		Headers: PlaceholderHeaders,
		Rows:    rows,
		Dataset: dataset,
	}, nil
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// CoerceNumeric turns a display value into a chart value. Strings are read
// up to the first character that cannot continue a number ("23 °C" is 23);
// anything unparseable is 0.
func CoerceNumeric(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(n))
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
