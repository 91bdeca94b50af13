// Package chart renders the budget status as a PNG bar chart.
package chart

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/budget-buddy/internal/budget"
	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/dateutils"
	"fjacquet/budget-buddy/internal/fileutils"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

const sinkName = "chart"

// Renderer writes budget charts into an output directory.
type Renderer struct {
	outputDir string
	width     int
	height    int
	logger    logging.Logger

	// now is replaced in tests to get predictable file names.
	now func() time.Time
}

// NewRenderer creates a Renderer. Non-positive sizes fall back to the defaults.
func NewRenderer(outputDir string, width, height int, logger logging.Logger) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Renderer{
		outputDir: outputDir,
		width:     width,
		height:    height,
		logger:    logger,
		now:       time.Now,
	}
}

// FileName returns the chart file name for the given moment.
func FileName(t time.Time) string {
	return "budget_results_" + t.Format(dateutils.DateTimeFileLayout) + ".png"
}

// Render draws spent and budget bars for every category with activity and
// returns the path of the written PNG. Any failure is a SinkError.
func (r *Renderer) Render(status budget.Status) (string, error) {
	path := filepath.Join(r.outputDir, FileName(r.now()))

	bars, maxValue := buildBars(status)
	if len(bars) == 0 || maxValue <= 0 {
		return "", &budgeterror.SinkError{Sink: sinkName, Path: path, Err: fmt.Errorf("nothing to plot")}
	}

	graph := gochart.BarChart{
		Title:    fmt.Sprintf("Spent %s of %s budgeted", models.FormatAmount(status.TotalSpent), models.FormatAmount(status.TotalBudget)),
		Width:    r.width,
		Height:   r.height,
		BarWidth: barWidth(r.width, len(bars)),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return "", &budgeterror.SinkError{Sink: sinkName, Path: path, Err: err}
	}
	if err := fileutils.AtomicWriteFile(path, buf.Bytes(), models.PermissionReportFile); err != nil {
		return "", &budgeterror.SinkError{Sink: sinkName, Path: path, Err: err}
	}

	r.logger.Info("Saved budget chart", logging.Field{Key: logging.FieldOutputFile, Value: path})
	return path, nil
}

// buildBars returns a spent bar, followed by a budget bar when one is set, for
// each category that has spending or a budget.
func buildBars(status budget.Status) ([]gochart.Value, float64) {
	var (
		bars     []gochart.Value
		maxValue float64
	)
	for _, cs := range status.Categories {
		if cs.Spent.IsZero() && !cs.Budgeted() {
			continue
		}

		spentColor := gochart.ColorBlue
		if cs.Over() {
			spentColor = gochart.ColorRed
		}
		spent := cs.Spent.InexactFloat64()
		bars = append(bars, gochart.Value{
			Label: cs.Category,
			Value: spent,
			Style: gochart.Style{FillColor: spentColor, StrokeColor: spentColor},
		})
		if spent > maxValue {
			maxValue = spent
		}

		if cs.Budgeted() {
			limit := cs.Budget.InexactFloat64()
			bars = append(bars, gochart.Value{
				Label: cs.Category + " budget",
				Value: limit,
				Style: gochart.Style{FillColor: gochart.ColorGreen, StrokeColor: gochart.ColorGreen},
			})
			if limit > maxValue {
				maxValue = limit
			}
		}
	}
	return bars, maxValue
}

func barWidth(width, count int) int {
	w := width / (count * 2)
	switch {
	case w < 10:
		return 10
	case w > 80:
		return 80
	default:
		return w
	}
}
