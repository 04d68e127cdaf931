// Package session keeps the decoded workbook of each browser session.
package session

import (
	"time"

	"signalmap/internal/table"
)

// Session is the decoded upload of one browser session. It is a value: the
// only way to change what a browser sees is to Put a new Session.
type Session struct {
	FileName   string
	FileSize   int64
	UploadedAt time.Time
	sheets     []table.Sheet
}

// New returns a Session holding sheets in the given order.
func New(fileName string, fileSize int64, uploadedAt time.Time, sheets []table.Sheet) Session {
	return Session{
		FileName:   fileName,
		FileSize:   fileSize,
		UploadedAt: uploadedAt,
		sheets:     append([]table.Sheet(nil), sheets...),
	}
}

// Empty reports whether the session holds no sheets.
func (s Session) Empty() bool { return len(s.sheets) == 0 }

// Sheets returns every sheet in upload order.
func (s Session) Sheets() []table.Sheet {
	return append([]table.Sheet(nil), s.sheets...)
}

// Sheet returns the named sheet.
func (s Session) Sheet(name string) (*table.Table, bool) {
	for i := range s.sheets {
		if s.sheets[i].Name == name {
			return &s.sheets[i].Table, true
		}
	}
	return nil, false
}

// Sites returns the reserved sites table, if uploaded.
func (s Session) Sites() *table.Table {
	for i := range s.sheets {
		if table.IsSites(s.sheets[i].Name) {
			return &s.sheets[i].Table
		}
	}
	return nil
}

// ChartSheets returns the names of all sheets that get a chart section, in
// upload order.
func (s Session) ChartSheets() []string {
	var names []string
	for _, sh := range s.sheets {
		if table.IsSites(sh.Name) {
			continue
		}
		names = append(names, sh.Name)
	}
	return names
}

// Equal reports value equality of two sessions, including sheet, column and
// row order.
func (s Session) Equal(o Session) bool {
	if s.FileName != o.FileName || s.FileSize != o.FileSize || !s.UploadedAt.Equal(o.UploadedAt) {
		return false
	}
	if len(s.sheets) != len(o.sheets) {
		return false
	}
	for i := range s.sheets {
		if s.sheets[i].Name != o.sheets[i].Name || !s.sheets[i].Table.Equal(&o.sheets[i].Table) {
			return false
		}
	}
	return true
}
