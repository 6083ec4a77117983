package exporter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"time"

	"salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// HTMLExporter renders the report into a standalone HTML summary document.
type HTMLExporter struct {
	logger *slog.Logger
	tmpl   *template.Template
}

// NewHTMLExporter creates a new HTML exporter
func NewHTMLExporter(logger *slog.Logger) (*HTMLExporter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("summary").Funcs(template.FuncMap{
		"money":   formatMoney,
		"percent": formatPercent,
	}).Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}

	return &HTMLExporter{logger: logger, tmpl: tmpl}, nil
}

// Export writes the HTML summary to path, overwriting any existing file
func (e *HTMLExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	e.logger.InfoContext(ctx, "writing HTML summary", slog.String("path", path))

	data := struct {
		*domain.Report
		Generated string
	}{
		Report:    report,
		Generated: report.KPIs.GeneratedAt.Format(time.DateTime),
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render summary template: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.NewIOError("failed to write HTML summary", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "HTML summary written", slog.String("path", path))
	return nil
}

const summaryTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sales Summary</title>
<style>
  body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial; margin: 24px; }
  h1 { margin-bottom: 0; }
  .muted { color: #666; margin-top: 4px; }
  .kpis { display: grid; grid-template-columns: repeat(5, minmax(140px, 1fr)); gap: 12px; margin: 20px 0; }
  .card { border: 1px solid #e5e5e5; border-radius: 10px; padding: 12px; }
  .label { font-weight: 600; font-size: 12px; color: #555; }
  .value { font-size: 18px; margin-top: 6px; }
  table { border-collapse: collapse; width: 100%; margin: 20px 0; }
  th, td { border: 1px solid #eee; padding: 8px 10px; text-align: left; }
  th { background: #fafafa; }
  .section-title { margin-top: 28px; }
</style>
</head>
<body>
  <h1>Sales &amp; Transaction Summary</h1>
  <div class="muted">Generated on {{.Generated}}</div>

  <div class="kpis">
    <div class="card"><div class="label">Total Revenue</div><div class="value">{{money .KPIs.TotalRevenue}}</div></div>
    <div class="card"><div class="label">Orders</div><div class="value">{{.KPIs.Orders}}</div></div>
    <div class="card"><div class="label">Customers</div><div class="value">{{.KPIs.Customers}}</div></div>
    <div class="card"><div class="label">AOV</div><div class="value">{{money .KPIs.AOV}}</div></div>
    <div class="card"><div class="label">Repeat Order Rate</div><div class="value">{{percent .KPIs.RepeatRate}}</div></div>
  </div>

  <h2 class="section-title">Revenue by Month</h2>
  <table>
    <tr><th>Month</th><th>Revenue</th><th>Orders</th></tr>
    {{range .Monthly}}<tr><td>{{.Month}}</td><td>{{money .Revenue}}</td><td>{{.Orders}}</td></tr>
    {{end}}
  </table>

  <h2 class="section-title">Top Products</h2>
  <table>
    <tr><th>Product</th><th>Units Sold</th><th>Revenue</th></tr>
    {{range .TopProducts}}<tr><td>{{.Product}}</td><td>{{.UnitsSold}}</td><td>{{money .Revenue}}</td></tr>
    {{end}}
  </table>

  <h2 class="section-title">Revenue by Segment &amp; Channel</h2>
  <table>
    <tr><th>Segment</th><th>Channel</th><th>Revenue</th><th>Orders</th></tr>
    {{range .SegmentChannel}}<tr><td>{{.Segment}}</td><td>{{.Channel}}</td><td>{{money .Revenue}}</td><td>{{.Orders}}</td></tr>
    {{end}}
  </table>

  <h2 class="section-title">New vs Returning</h2>
  <table>
    <tr><th>Month</th><th>New Revenue</th><th>New Orders</th><th>Returning Revenue</th><th>Returning Orders</th></tr>
    {{range .NewReturning}}<tr><td>{{.Month}}</td><td>{{money .NewRevenue}}</td><td>{{.NewOrders}}</td><td>{{money .ReturningRevenue}}</td><td>{{.ReturningOrders}}</td></tr>
    {{end}}
  </table>
</body>
</html>
`
