package sheets

import (
	"context"

	"chama/internal/report"
)

// ReportExporter publishes a contribution report to a spreadsheet and returns
// a reference to where it was written.
type ReportExporter interface {
	Export(ctx context.Context, r report.Report) (ref string, err error)
}
