package http

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	if _, err := s.buf.WriteString(line); err != nil {
		return err
	}
	return nil
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return nil
}

func writeBalanceSheetCSV(w io.Writer, vm BalanceSheetVM) error {
	streamer := newCSVStreamer(w)
	if err := writeMetadata(streamer, "Balance Sheet", vm.Filters, vm.Warnings); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Section", "Line", "Current Year", "Prior Year"}); err != nil {
		return err
	}
	for _, section := range vm.Sections {
		for _, line := range section.Lines {
			if err := streamer.writeRow([]string{
				section.Label,
				line.Label,
				formatDecimal(line.Current),
				formatDecimal(line.Prior),
			}); err != nil {
				return err
			}
		}
	}
	if err := streamer.writeRow([]string{"", "", "", ""}); err != nil {
		return err
	}
	totalsRows := [][]string{
		{"Totals", "Total assets", formatDecimal(vm.TotalAssets), formatDecimal(vm.PriorTotalAssets)},
		{"Totals", "Total equity", formatDecimal(vm.TotalEquity), formatDecimal(vm.PriorTotalEquity)},
		{"Totals", "Total liabilities", formatDecimal(vm.TotalLiabilities), formatDecimal(vm.PriorTotalLiabilities)},
		{"Totals", "Total equity and liabilities", formatDecimal(vm.TotalEquityAndLiabilities), formatDecimal(vm.PriorTotalEquityAndLiab)},
		{"Totals", "Reconciliation delta", formatDecimal(vm.Reconciliation.Delta), formatDecimal(vm.PriorReconciliation.Delta)},
	}
	for _, row := range totalsRows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Close()
}

func writeIncomeStatementCSV(w io.Writer, vm IncomeStatementVM) error {
	streamer := newCSVStreamer(w)
	if err := writeMetadata(streamer, "Income Statement", vm.Filters, vm.Warnings); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Section", "Line", "Current Year", "Prior Year"}); err != nil {
		return err
	}
	for _, section := range vm.Sections {
		for _, line := range section.Lines {
			if err := streamer.writeRow([]string{
				section.Label,
				line.Label,
				formatDecimal(line.Current),
				formatDecimal(line.Prior),
			}); err != nil {
				return err
			}
		}
	}
	if err := streamer.writeRow([]string{"", "", "", ""}); err != nil {
		return err
	}
	totalsRows := [][]string{
		{"Totals", "Total income", formatDecimal(vm.TotalIncome), formatDecimal(vm.PriorTotalIncome)},
		{"Totals", "Cost of sales", formatDecimal(vm.CostOfSales), formatDecimal(vm.PriorCostOfSales)},
		{"Totals", "Gross profit", formatDecimal(vm.GrossProfit), formatDecimal(vm.PriorGrossProfit)},
		{"Totals", "Other income", formatDecimal(vm.OtherIncome), formatDecimal(vm.PriorOtherIncome)},
		{"Totals", "Expenses", formatDecimal(vm.Expenses), formatDecimal(vm.PriorExpenses)},
		{"Totals", "Net profit before tax", formatDecimal(vm.NetProfitBeforeTax), formatDecimal(vm.PriorNetProfitBeforeTax)},
	}
	for _, row := range totalsRows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Close()
}

func writeMetadata(streamer *csvStreamer, reportName string, filters StatementFiltersVM, warnings []string) error {
	if err := streamer.writeComment(fmt.Sprintf("# Report: %s", reportName)); err != nil {
		return err
	}
	zeroState := "OFF"
	if filters.IncludeZeroItems {
		zeroState = "ON"
	}
	if err := streamer.writeComment(fmt.Sprintf("# Workpaper: %s | Zero items: %s | Unclassified: %s", filters.WorkpaperID, zeroState, filters.Unclassified)); err != nil {
		return err
	}
	if len(warnings) == 0 {
		return streamer.writeComment("# Warnings: none")
	}
	joined := make([]string, len(warnings))
	for i, w := range warnings {
		joined[i] = strings.TrimSpace(w)
	}
	return streamer.writeComment("# Warnings: " + strings.Join(joined, "; "))
}

func formatDecimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
