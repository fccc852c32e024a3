package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"marketrewind/internal/domain"
)

// WriteBarsToCSV writes a bar series to a CSV file, creating parent
// directories as needed.
func WriteBarsToCSV(series domain.BarSeries, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", filename, err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume", "color"}); err != nil {
		return fmt.Errorf("writing header to %s: %w", filename, err)
	}
	for _, b := range series {
		record := []string{
			b.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
			string(b.Color),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing bar at %s to %s: %w", b.Time, filename, err)
		}
	}
	return w.Error()
}
