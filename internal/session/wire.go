package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"signalmap/internal/table"
)

// The wire form is JSON: sheets are a list so upload order survives, numbers
// are JSON numbers, strings are JSON strings and empty cells are null.
type wireSheet struct {
	Name    string              `json:"name"`
	Columns []string            `json:"columns"`
	Rows    [][]json.RawMessage `json:"rows"`
}

type wireSession struct {
	File       string      `json:"file,omitempty"`
	Size       int64       `json:"size,omitempty"`
	UploadedAt time.Time   `json:"uploaded_at"`
	Sheets     []wireSheet `json:"sheets"`
}

var jsonNull = json.RawMessage("null")

func encodeCell(c table.Cell) (json.RawMessage, error) {
	switch c.Kind {
	case table.Number:
		return json.Marshal(c.Num)
	case table.Text:
		return json.Marshal(c.Str)
	}
	return jsonNull, nil
}

func decodeCell(raw json.RawMessage) (table.Cell, error) {
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return table.Cell{}, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return table.Cell{}, err
	}
	switch x := v.(type) {
	case float64:
		return table.NumberCell(x), nil
	case string:
		return table.TextCell(x), nil
	}
	return table.Cell{}, fmt.Errorf("unsupported cell value %s", raw)
}

// Encode serializes s to its JSON text form.
func Encode(s Session) (string, error) {
	w := wireSession{
		File:       s.FileName,
		Size:       s.FileSize,
		UploadedAt: s.UploadedAt,
		Sheets:     make([]wireSheet, 0, len(s.sheets)),
	}
	for _, sh := range s.sheets {
		ws := wireSheet{
			Name:    sh.Name,
			Columns: append([]string{}, sh.Table.Columns...),
			Rows:    make([][]json.RawMessage, 0, len(sh.Table.Rows)),
		}
		for _, row := range sh.Table.Rows {
			out := make([]json.RawMessage, len(row))
			for i, c := range row {
				raw, err := encodeCell(c)
				if err != nil {
					return "", fmt.Errorf("encode sheet %q: %w", sh.Name, err)
				}
				out[i] = raw
			}
			ws.Rows = append(ws.Rows, out)
		}
		w.Sheets = append(w.Sheets, ws)
	}
	b, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return string(b), nil
}

// Decode parses the text form produced by Encode.
func Decode(text string) (Session, error) {
	var w wireSession
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	s := Session{FileName: w.File, FileSize: w.Size, UploadedAt: w.UploadedAt}
	for _, ws := range w.Sheets {
		t := table.Table{Columns: ws.Columns}
		for _, raw := range ws.Rows {
			row := make([]table.Cell, len(raw))
			for i := range raw {
				c, err := decodeCell(raw[i])
				if err != nil {
					return Session{}, fmt.Errorf("decode sheet %q: %w", ws.Name, err)
				}
				row[i] = c
			}
			t.Rows = append(t.Rows, row)
		}
		s.sheets = append(s.sheets, table.Sheet{Name: ws.Name, Table: t})
	}
	return s, nil
}
