package decode

import (
	"bytes"
	"encoding/csv"

	"signalmap/internal/table"
)

func readCSV(name string, payload []byte) ([]table.Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	t, ok := toTable(rows, nil)
	if !ok {
		return nil, nil
	}
	return []table.Sheet{{Name: name, Table: t}}, nil
}
