// Package report turns a member collection into a contribution report for
// download or export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"chama/internal/core"
)

var header = []string{"ID", "Name", "Phone", "Contribution (KES)", "Status", "Last Payment"}

type Report struct {
	GeneratedAt time.Time
	Settings    core.Settings
	Summary     core.Summary
	Members     []core.Member
}

// Build snapshots members and their summary against the monthly goal.
func Build(members []core.Member, settings core.Settings, generatedAt time.Time) Report {
	owned := make([]core.Member, len(members))
	copy(owned, members)
	return Report{
		GeneratedAt: generatedAt,
		Settings:    settings,
		Summary:     core.Summarize(owned, settings.MonthlyGoal),
		Members:     owned,
	}
}

// Header returns the column names of the member table.
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// Rows renders the member table. Amounts are plain integers so spreadsheets
// treat them as numbers.
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Members))
	for _, m := range r.Members {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Phone,
			strconv.FormatInt(m.Contribution.Shillings, 10),
			m.Status.Label(),
			m.LastPayment.String(),
		})
	}
	return rows
}

// Totals renders the summary block that follows the member table.
func (r Report) Totals() [][]string {
	s := r.Summary
	return [][]string{
		{"Generated", r.GeneratedAt.Format(time.RFC3339)},
		{"Monthly Goal (KES)", strconv.FormatInt(s.MonthlyGoal.Shillings, 10)},
		{"Total Contributions (KES)", strconv.FormatInt(s.TotalContributions.Shillings, 10)},
		{"Progress (%)", fmt.Sprintf("%.1f", s.ProgressPercentage)},
		{"Remaining (KES)", strconv.FormatInt(s.Remaining.Shillings, 10)},
		{"Paid", strconv.Itoa(s.PaidCount)},
		{"Pending", strconv.Itoa(s.PendingCount)},
		{"Overdue", strconv.Itoa(s.OverdueCount)},
	}
}

// Filename is the suggested download name, e.g. chama-report-2024-07-10.csv.
func (r Report) Filename() string {
	return "chama-report-" + r.GeneratedAt.Format("2006-01-02") + ".csv"
}

// WriteCSV writes the member table, a blank line and the totals.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(r.Rows()); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	// Totals rows have two fields; the writer does not enforce a width.
	if err := cw.Write(nil); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}
	if err := cw.WriteAll(r.Totals()); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	return cw.Error()
}
