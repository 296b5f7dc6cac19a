package services

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

var ErrNoChartData = errors.New("no revenue in range")

// Exporter renders report data as files for download.
type Exporter struct {
	Brand string
	now   func() time.Time
}

func NewExporter(brand string) *Exporter {
	return &Exporter{Brand: brand, now: time.Now}
}

// RevenuePNG draws the series as a bar chart. A series without revenue
// returns ErrNoChartData.
func (e *Exporter) RevenuePNG(w io.Writer, s *Series) error {
	bars := make([]chart.Value, 0, len(s.Labels))
	peak := 0.0
	for i, label := range s.Labels {
		v, _ := s.Revenue[i].Float64()
		if v > peak {
			peak = v
		}
		bars = append(bars, chart.Value{Label: label, Value: v})
	}
	if peak == 0 {
		return ErrNoChartData
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s revenue (%s)", e.Brand, s.Granularity),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      1024,
		Height:     512,
		BarWidth:   barWidth(len(bars)),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return utils.GroupThousands(decimal.NewFromFloat(f).Round(0))
				}
				return ""
			},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render revenue chart: %w", err)
	}
	return nil
}

func barWidth(n int) int {
	switch {
	case n > 20:
		return 20
	case n > 8:
		return 40
	default:
		return 60
	}
}

// PeriodPDF writes a one-page summary of stats.
func (e *Exporter) PeriodPDF(w io.Writer, stats *PeriodStats) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s %s report", e.Brand, stats.Period), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - %s report", e.Brand, periodTitle(stats.Period)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s to %s (generated %s IST)",
		stats.Start.Format(utils.DisplayDate), stats.End.Add(-time.Second).Format(utils.DisplayDate),
		utils.ToIST(e.now()).Format(utils.DisplayDateTime)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	summary := [][2]string{
		{"Orders", fmt.Sprint(stats.OrderCount)},
		{"Revenue", rupees(stats.Revenue)},
		{"Average order value", rupees(stats.AvgOrderValue)},
		{"New customers", fmt.Sprint(stats.NewCustomers)},
	}
	for _, row := range summary {
		pdf.CellFormat(70, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	breakdownTable(pdf, "By status", stats.StatusBreakdown, func(k string) string {
		return models.OrderStatus(k).Label()
	})
	breakdownTable(pdf, "By payment mode", stats.PaymentBreakdown, func(k string) string {
		return models.PaymentMode(k).Label()
	})

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render period report: %w", err)
	}
	return nil
}

func breakdownTable(pdf *fpdf.Fpdf, title string, rows map[string]Breakdown, label func(string) string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	if len(rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 7, "No orders in this period", "", 1, "L", false, 0, "")
		pdf.Ln(3)
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 7, "", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Orders", "1", 0, "R", true, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 1, "R", true, 0, "")

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pdf.SetFont("Arial", "", 10)
	for _, k := range keys {
		pdf.CellFormat(70, 7, label(k), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprint(rows[k].Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, rupees(rows[k].Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}

// rupees formats for the PDF core fonts, which have no rupee glyph.
func rupees(d decimal.Decimal) string {
	return "Rs. " + utils.GroupThousands(d)
}

func periodTitle(period string) string {
	switch period {
	case "week":
		return "This week"
	case "month":
		return "This month"
	case "year":
		return "This year"
	default:
		return "Today"
	}
}
