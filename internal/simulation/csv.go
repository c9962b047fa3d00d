package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger)
}

// EncodeLedgerCSV writes the ledger with a header row to w.
func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"hour",
		"day",
		"hour_of_day",
		"usage",
		"kind",
		"observed",
		"cum_usage",
		"on_demand_to_date",
		"cost_to_date",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Hour),
			strconv.Itoa(r.Day),
			strconv.Itoa(r.HourOfDay),
			fmtFloat(r.Usage),
			string(r.Kind),
			strconv.FormatBool(r.Observed),
			fmtFloat(r.CumUsage),
			fmtFloat(r.OnDemandToDate),
			fmtFloat(r.CostToDate),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
