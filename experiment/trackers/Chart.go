package trackers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// Chart records the score and return of each finished episode and
// renders them as an HTML learning curve
type Chart struct {
	title    string
	scores   []int
	returns  []float64
	filename string
}

// NewChart returns a new Chart which renders to filename
func NewChart(title, filename string) *Chart {
	return &Chart{title: title, filename: filename}
}

// Track is a no-op, points are recorded from episode summaries
func (c *Chart) Track(timestep.TimeStep) {}

// TrackEpisode records the score and return of a finished episode
func (c *Chart) TrackEpisode(s tracker.Summary) {
	c.scores = append(c.scores, s.Score)
	c.returns = append(c.returns, s.Return)
}

// line returns the learning curve chart
func (c *Chart) line() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: c.title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
	)

	episodes := make([]string, len(c.scores))
	scores := make([]opts.LineData, len(c.scores))
	returns := make([]opts.LineData, len(c.returns))
	for i := range c.scores {
		episodes[i] = strconv.Itoa(i + 1)
		scores[i] = opts.LineData{Value: c.scores[i]}
		returns[i] = opts.LineData{Value: c.returns[i]}
	}

	line.SetXAxis(episodes).
		AddSeries("score", scores).
		AddSeries("return", returns)
	return line
}

// Save renders the chart to disk
func (c *Chart) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.filename), 0o755); err != nil {
		return fmt.Errorf("save: create output dir: %w", err)
	}

	f, err := os.Create(c.filename)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	page := components.NewPage()
	page.AddCharts(c.line())
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("save: render chart: %w", err)
	}
	return f.Close()
}
