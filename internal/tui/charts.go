package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/shapingai/shaping-ai-dashboard/internal/chart"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// renderSpec draws a chart spec in the terminal according to its kind.
func renderSpec(spec chart.Spec, width, height int) string {
	title := chartTitleStyle.Render(spec.Title)
	if spec.Empty() {
		return lipgloss.JoinVertical(lipgloss.Left, title, helpStyle.Render("No data available"))
	}

	var body string
	switch spec.Kind {
	case chart.KindTimeHistogram:
		body = renderHistogram(spec, width, height-1)
	case chart.KindLineByCategory:
		body = renderSeries(spec, width, height-1)
	default:
		body = renderRankedBars(spec, width, height-1)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

// bucket is one aggregated bar of a time chart.
type bucket struct {
	start time.Time
	value float64
}

// monthBuckets sums the y field of a time table per calendar month, filling
// missing months with zero so the time axis stays linear.
func monthBuckets(spec chart.Spec) []bucket {
	xCol, yCol := spec.Data.Col(spec.X.Field), spec.Data.Col(spec.Y.Field)
	sums := make(map[time.Time]float64)
	var first, last time.Time
	for i := range spec.Data.Rows {
		d, err := model.ParseDate(spec.Data.Text(i, xCol))
		if err != nil {
			continue
		}
		m := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[m] += spec.Data.Float(i, yCol)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}
	if first.IsZero() {
		return nil
	}

	var out []bucket
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, bucket{start: m, value: sums[m]})
	}
	return out
}

// mergeBuckets groups consecutive buckets so that at most maxBars remain.
func mergeBuckets(in []bucket, maxBars int) ([]bucket, int) {
	if maxBars <= 0 || len(in) <= maxBars {
		return in, 1
	}
	per := int(math.Ceil(float64(len(in)) / float64(maxBars)))
	out := make([]bucket, 0, maxBars)
	for i := 0; i < len(in); i += per {
		b := bucket{start: in[i].start}
		for _, v := range in[i:min(i+per, len(in))] {
			b.value += v.value
		}
		out = append(out, b)
	}
	return out, per
}

func drawBars(buckets []bucket, width, height int) string {
	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	for _, b := range buckets {
		bc.Push(barchart.BarData{
			Label:  "",
			Values: []barchart.BarValue{{Name: b.start.Format("2006-01"), Value: b.value, Style: barStyle}},
		})
	}
	bc.Draw()
	return bc.View()
}

// renderHistogram draws the monthly article histogram.
func renderHistogram(spec chart.Spec, width, height int) string {
	buckets := monthBuckets(spec)
	if len(buckets) == 0 {
		return helpStyle.Render("No data available")
	}
	chartHeight := max(height-2, 3)
	buckets, per := mergeBuckets(buckets, max(width/2, 1))

	peak := 0.0
	for _, b := range buckets {
		peak = max(peak, b.value)
	}

	binLabel := "1 month per bar"
	if per > 1 {
		binLabel = fmt.Sprintf("%d months per bar", per)
	}
	axis := fmt.Sprintf("%s .. %s  (%s: peak %s, %s)",
		buckets[0].start.Format("2006-01"), buckets[len(buckets)-1].start.Format("2006-01"),
		spec.Y.Title, formatValue(peak), binLabel)

	return lipgloss.JoinVertical(lipgloss.Left,
		drawBars(buckets, width, chartHeight),
		helpStyle.Render(axis),
	)
}

// renderSeries draws a yearly series as one bar per year within RangeX.
func renderSeries(spec chart.Spec, width, height int) string {
	xCol, yCol := spec.Data.Col(spec.X.Field), spec.Data.Col(spec.Y.Field)
	values := make(map[int]float64)
	lo, hi := math.MaxInt, math.MinInt
	for i := range spec.Data.Rows {
		d, err := model.ParseDate(spec.Data.Text(i, xCol))
		if err != nil {
			continue
		}
		values[d.Year()] += spec.Data.Float(i, yCol)
		lo, hi = min(lo, d.Year()), max(hi, d.Year())
	}
	if len(values) == 0 {
		return helpStyle.Render("No data available")
	}
	if len(spec.RangeX) == 2 {
		if y, err := model.ParseDate(spec.RangeX[0]); err == nil {
			lo = min(lo, y.Year())
		}
		if y, err := model.ParseDate(spec.RangeX[1]); err == nil {
			hi = max(hi, y.Year())
		}
	}

	var buckets []bucket
	var labels []string
	for y := lo; y <= hi; y++ {
		buckets = append(buckets, bucket{start: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), value: values[y]})
		labels = append(labels, fmt.Sprintf("%02d", y%100))
	}
	buckets, _ = mergeBuckets(buckets, max(width/3, 1))
	if len(buckets) != len(labels) {
		labels = nil
	}

	var axis strings.Builder
	for _, l := range labels {
		axis.WriteString(l + " ")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		drawYearBars(buckets, width, max(height-2, 3)),
		helpStyle.Render(axis.String()),
		helpStyle.Render(fmt.Sprintf("%s by %s, %d..%d", spec.Y.Title, strings.ToLower(spec.X.Title), lo, hi)),
	)
}

// drawYearBars uses two-column bars so each year lines up with its label.
func drawYearBars(buckets []bucket, width, height int) string {
	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(2),
		barchart.WithNoAxis(),
	)
	for _, b := range buckets {
		bc.Push(barchart.BarData{
			Label:  "",
			Values: []barchart.BarValue{{Name: b.start.Format("2006"), Value: b.value, Style: barStyle}},
		})
	}
	bc.Draw()
	return bc.View()
}

// renderRankedBars draws a horizontal ranked chart as text bars. Rows are
// drawn in table order when the category axis is reversed, which puts rank
// 1 on top.
func renderRankedBars(spec chart.Spec, width, maxRows int) string {
	labelCol, valueCol := spec.Data.Col(spec.Y.Field), spec.Data.Col(spec.X.Field)
	n := len(spec.Data.Rows)
	if maxRows > 0 {
		n = min(n, maxRows)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
		if !spec.Y.Reversed {
			order[i] = n - 1 - i
		}
	}

	peak := 0.0
	valueWidth := 3
	for _, i := range order {
		v := spec.Data.Float(i, valueCol)
		peak = max(peak, v)
		valueWidth = max(valueWidth, len(formatValue(v)))
	}

	availableWidth := width - 2
	barWidth := 15
	if availableWidth < 40 {
		barWidth = 8
	}
	labelWidth := max(availableWidth-(4+valueWidth+2+2)-barWidth, 8)

	lines := make([]string, 0, n+1)
	for rank, i := range order {
		v := spec.Data.Float(i, valueCol)
		filled := 0
		if peak > 0 {
			filled = int(v / peak * float64(barWidth))
		}
		if filled == 0 && v > 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		label := truncateLabel(spec.Data.Text(i, labelCol), labelWidth)
		lines = append(lines, fmt.Sprintf("%2d. %-*s %*s |%s|", rank+1, labelWidth, label, valueWidth, formatValue(v), bar))
	}
	if spec.X.Title != "" {
		lines = append(lines, helpStyle.Render(spec.X.Title))
	}
	return strings.Join(lines, "\n")
}

func truncateLabel(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}

// formatValue prints counts as integers and weights with three decimals.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.3f", v)
}
