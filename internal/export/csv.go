package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
)

// WriteCSV writes the header and one DD/MM/YYYY-keyed row per bucket
func WriteCSV(w io.Writer, ft *contracts.FeatureTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ft.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	t := ft.Table
	record := make([]string, len(t.Columns())+1)
	for i := 0; i < t.Len(); i++ {
		record[0] = contracts.FormatDate(t.Date(i))
		for j, v := range t.Row(i) {
			record[j+1] = strconv.Itoa(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV
func ReadCSV(r io.Reader) (*contracts.Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", contracts.ErrDataShape, err)
	}
	if len(header) == 0 || header[0] != contracts.DateColumn {
		return nil, fmt.Errorf("%w: first csv column must be %q", contracts.ErrDataShape, contracts.DateColumn)
	}

	columns := header[1:]
	values := make([][]int, len(columns))
	var dates []time.Time

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", contracts.ErrDataShape, line, err)
		}

		d, err := contracts.ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", contracts.ErrDataShape, line, err)
		}
		dates = append(dates, d)

		for j, cell := range rec[1:] {
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", contracts.ErrDataShape, line, columns[j], err)
			}
			values[j] = append(values[j], v)
		}
	}

	t, err := contracts.NewTable(dates)
	if err != nil {
		return nil, err
	}
	for j, name := range columns {
		col := values[j]
		if col == nil {
			col = []int{}
		}
		if err := t.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return t, nil
}
