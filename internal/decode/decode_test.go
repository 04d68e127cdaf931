package decode

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"signalmap/internal/table"
)

// workbook builds an xlsx payload with the given sheets in order.
func workbook(t *testing.T, sheets map[string][][]interface{}, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func scenarioWorkbook(t *testing.T) []byte {
	return workbook(t, map[string][][]interface{}{
		"ss-rsrp": {
			{"Point ID", "Longitude", "Latitude", "ss-rsrp"},
			{"P1", 10.0, 50.0, -80},
			{"P2", 10.1, 50.1, -85},
		},
		"sites": {
			{"Site", "Longitude", "Latitude"},
			{"SiteA", 10.05, 50.05},
		},
	}, "ss-rsrp", "sites")
}

func TestDecodeXLSX(t *testing.T) {
	res := Decode("drive-test.xlsx", scenarioWorkbook(t))
	require.Equal(t, StatusDecoded, res.Status, "err: %v", res.Err)
	require.False(t, res.Empty())
	require.Len(t, res.Sheets, 2)

	rsrp := res.Sheets[0]
	assert.Equal(t, "ss-rsrp", rsrp.Name)
	assert.Equal(t, []string{"Point ID", "Longitude", "Latitude", "ss-rsrp"}, rsrp.Table.Columns)
	require.Len(t, rsrp.Table.Rows, 2)
	assert.Equal(t, []table.Cell{
		table.TextCell("P1"), table.NumberCell(10), table.NumberCell(50), table.NumberCell(-80),
	}, rsrp.Table.Rows[0])
	assert.Equal(t, table.NumberCell(10.1), rsrp.Table.Rows[1][1])

	sites := res.Sheets[1]
	assert.Equal(t, "sites", sites.Name)
	assert.Equal(t, table.NumberCell(50.05), sites.Table.Rows[0][2])
}

func TestDecodeSkipsEmptySheets(t *testing.T) {
	payload := workbook(t, map[string][][]interface{}{
		"ss-sinr": {{"Point", "lon", "lat", "ss-sinr"}, {"P1", 1.0, 2.0, 12.5}},
		"notes":   {},
	}, "ss-sinr", "notes")

	res := Decode("book.XLSX", payload)
	require.Equal(t, StatusDecoded, res.Status)
	require.Len(t, res.Sheets, 1)
	assert.Equal(t, "ss-sinr", res.Sheets[0].Name)
}

func TestDecodeCSV(t *testing.T) {
	payload := []byte("\xef\xbb\xbfPoint ID,Longitude,Latitude,RSRP,\nP1,10,50,-80\nP2,10.1,50.1,\n")

	res := Decode("uploads/rsrp.csv", payload)
	require.Equal(t, StatusDecoded, res.Status, "err: %v", res.Err)
	require.Len(t, res.Sheets, 1)

	s := res.Sheets[0]
	assert.Equal(t, "rsrp", s.Name)
	assert.Equal(t, []string{"Point ID", "Longitude", "Latitude", "RSRP"}, s.Table.Columns)
	assert.Equal(t, table.Cell{}, s.Table.Rows[1][3])
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		payload  []byte
		status   Status
		sentinel error
	}{
		{"nothing uploaded", "", nil, StatusNoFile, nil},
		{"wrong extension", "photo.png", []byte{0x89, 'P', 'N', 'G'}, StatusUndecodable, ErrUnsupportedExtension},
		{"no extension", "data", []byte("a,b"), StatusUndecodable, ErrUnsupportedExtension},
		{"corrupt xlsx", "broken.xlsx", []byte("not a zip"), StatusUndecodable, nil},
		{"corrupt xls", "broken.xls", []byte("not ole2"), StatusUndecodable, nil},
		{"blank csv", "blank.csv", []byte("\n\n"), StatusUndecodable, ErrNoSheets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Decode(tt.filename, tt.payload)
			assert.Equal(t, tt.status, res.Status)
			assert.True(t, res.Empty())
			assert.Empty(t, res.Sheets)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(res.Err, tt.sentinel), "got %v", res.Err)
			}
		})
	}
}

func TestDecodeContents(t *testing.T) {
	payload := scenarioWorkbook(t)
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("data url", func(t *testing.T) {
		res := DecodeContents("book.xlsx", "data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64,"+encoded)
		require.Equal(t, StatusDecoded, res.Status, "err: %v", res.Err)
		assert.Len(t, res.Sheets, 2)
		assert.Equal(t, int64(len(payload)), res.Size)
	})

	t.Run("bare base64", func(t *testing.T) {
		res := DecodeContents("book.xlsx", encoded)
		assert.Equal(t, StatusDecoded, res.Status)
	})

	t.Run("not base64", func(t *testing.T) {
		res := DecodeContents("book.xlsx", "data:text/plain,hello")
		assert.Equal(t, StatusUndecodable, res.Status)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, StatusNoFile, DecodeContents("", "").Status)
		assert.Equal(t, StatusUndecodable, DecodeContents("book.xlsx", "").Status)
	})
}

func TestDecodeKeepsTextIDs(t *testing.T) {
	payload := workbook(t, map[string][][]interface{}{
		"ss-rsrp": {
			{"Point ID", "Longitude", "Latitude", "ss-rsrp"},
			{"001", 10.0, 50.0, -80},
			{"01", 10.1, 50.1, -85},
			{7, 10.2, 50.2, "-90"},
		},
	}, "ss-rsrp")

	res := Decode("padded.xlsx", payload)
	require.Equal(t, StatusDecoded, res.Status, "err: %v", res.Err)
	tbl := res.Sheets[0].Table
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, table.TextCell("001"), tbl.Rows[0][0])
	assert.Equal(t, table.TextCell("01"), tbl.Rows[1][0])
	assert.Equal(t, table.NumberCell(7), tbl.Rows[2][0])
	assert.Equal(t, table.NumberCell(-80), tbl.Rows[0][3])
	// a signal stored as text is still text
	assert.Equal(t, table.TextCell("-90"), tbl.Rows[2][3])

	r, ok := tbl.Lookup("01")
	require.True(t, ok)
	assert.Equal(t, 1, r)
}

func TestHeaders(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		width int
		want  []string
	}{
		{"blanks and repeats", []string{"Point", "", "rsrp", "rsrp", " "}, 6,
			[]string{"Point", "Column_2", "rsrp", "rsrp_2", "Column_5", "Column_6"}},
		{"suffix taken by a later header", []string{"a", "a", "a_2"}, 3,
			[]string{"a", "a_2", "a_2_2"}},
		{"suffix taken by an earlier header", []string{"a_2", "a", "a"}, 3,
			[]string{"a_2", "a", "a_3"}},
		{"blank named like a real header", []string{"Column_2", ""}, 2,
			[]string{"Column_2", "Column_2_2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := headers(tt.raw, tt.width)
			assert.Equal(t, tt.want, got)
			seen := make(map[string]bool, len(got))
			for _, h := range got {
				assert.False(t, seen[h], "duplicate header %q", h)
				seen[h] = true
			}
		})
	}
}

func TestSheetErrorUnwrap(t *testing.T) {
	inner := errors.New("bad cell")
	err := error(&SheetError{Sheet: "ss-rsrp", Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), `"ss-rsrp"`)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.xlsx"))
	assert.True(t, Supported("A.XLS"))
	assert.True(t, Supported("a.csv"))
	assert.False(t, Supported("a.txt"))
}
