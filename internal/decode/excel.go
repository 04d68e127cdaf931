package decode

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"signalmap/internal/table"
)

func readXLSX(payload []byte) ([]table.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []table.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &SheetError{Sheet: name, Err: err}
		}
		t, ok := toTable(rows, xlsxText(f, name))
		if !ok {
			continue
		}
		sheets = append(sheets, table.Sheet{Name: name, Table: t})
	}
	return sheets, nil
}

// xlsxText looks up the stored type of a data cell of sheet.
func xlsxText(f *excelize.File, sheet string) textCell {
	return func(r, c int) bool {
		// +2: one-based rows below the header
		cell, err := excelize.CoordinatesToCellName(c+1, r+2)
		if err != nil {
			return false
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return false
		}
		switch typ {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
			return true
		}
		return false
	}
}

func readXLS(payload []byte) ([]table.Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(payload), "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []table.Sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			return nil, fmt.Errorf("worksheet %d missing", i)
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol()+1)
			for c := 0; c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		t, ok := toTable(rows, nil)
		if !ok {
			continue
		}
		sheets = append(sheets, table.Sheet{Name: ws.Name, Table: t})
	}
	return sheets, nil
}
