package plan

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

const (
	numFields     = 4
	colName       = 0
	colAmount     = 1
	colClass      = 2
	colPercentage = 3
)

// WriteCSV writes breakdown rows with a header line.
func WriteCSV(w io.Writer, rows []model.BreakdownRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"name", "amount", "class", "percentage"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(MarshalRow(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads commitments written by WriteCSV. The percentage column is
// derived data and is ignored.
func ReadCSV(r io.Reader) ([]model.Commitment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading commitments CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]model.Commitment, 0, len(records)-1)
	for i, rec := range records[1:] {
		c, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// MarshalRow converts a breakdown row to CSV fields.
func MarshalRow(r model.BreakdownRow) []string {
	row := make([]string, numFields)
	row[colName] = r.Name
	row[colAmount] = r.Amount.StringFixed(2)
	row[colClass] = string(r.Classification)
	row[colPercentage] = r.Percentage.StringFixed(2)
	return row
}

// UnmarshalRow converts CSV fields to a commitment.
func UnmarshalRow(record []string) (model.Commitment, error) {
	if len(record) != numFields {
		return model.Commitment{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Commitment{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	return model.Commitment{
		Name:           record[colName],
		Amount:         amount,
		Classification: model.ParseClassification(record[colClass]),
	}, nil
}
