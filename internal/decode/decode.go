// Package decode turns uploaded spreadsheet payloads into named tables.
//
// Decoding never fails loudly: every problem is reported through Result so the
// caller can fall back to the empty dashboard.
package decode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"signalmap/internal/logging"
	"signalmap/internal/table"
)

// ErrUnsupportedExtension indicates the filename does not name a spreadsheet format.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// ErrNoSheets indicates the workbook decoded but held no usable sheet.
var ErrNoSheets = errors.New("no sheets with data")

// SheetError wraps a failure while reading one sheet.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// Status classifies the outcome of a decode.
type Status int

const (
	StatusNoFile Status = iota
	StatusUndecodable
	StatusDecoded
)

func (s Status) String() string {
	switch s {
	case StatusNoFile:
		return "no file"
	case StatusUndecodable:
		return "undecodable"
	case StatusDecoded:
		return "decoded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of decoding one upload.
type Result struct {
	Status Status
	Sheets []table.Sheet
	// Size is the length of the decoded payload in bytes.
	Size int64
	Err  error
}

// Empty reports whether the upload produced nothing to display. "No file" and
// "undecodable" look the same to the user.
func (r Result) Empty() bool {
	return r.Status != StatusDecoded || len(r.Sheets) == 0
}

type format int

const (
	formatUnknown format = iota
	formatXLSX
	formatXLS
	formatCSV
)

func detect(filename string) format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return formatXLSX
	case ".xls":
		return formatXLS
	case ".csv":
		return formatCSV
	}
	return formatUnknown
}

// Supported reports whether filename has a recognised spreadsheet extension.
func Supported(filename string) bool {
	return detect(filename) != formatUnknown
}

func undecodable(err error) Result {
	return Result{Status: StatusUndecodable, Err: err}
}

// Decode reads every sheet of payload. The extension of filename selects the
// reader; unknown extensions are not attempted.
func Decode(filename string, payload []byte) (res Result) {
	if strings.TrimSpace(filename) == "" && len(payload) == 0 {
		return Result{Status: StatusNoFile}
	}
	defer func() {
		if p := recover(); p != nil {
			res = undecodable(fmt.Errorf("decode %s: panic: %v", filename, p))
		}
		res.Size = int64(len(payload))
		if res.Err != nil {
			logging.Debugf("decode %s: %s: %v", filename, res.Status, res.Err)
		}
	}()

	f := detect(filename)
	if f == formatUnknown {
		return undecodable(fmt.Errorf("%s: %w", filename, ErrUnsupportedExtension))
	}

	var (
		sheets []table.Sheet
		err    error
	)
	switch f {
	case formatXLSX:
		sheets, err = readXLSX(payload)
	case formatXLS:
		sheets, err = readXLS(payload)
	case formatCSV:
		sheets, err = readCSV(csvSheetName(filename), payload)
	}
	if err != nil {
		return undecodable(fmt.Errorf("decode %s: %w", filename, err))
	}
	if len(sheets) == 0 {
		return undecodable(fmt.Errorf("decode %s: %w", filename, ErrNoSheets))
	}
	return Result{Status: StatusDecoded, Sheets: sheets}
}

// DecodeContents accepts the browser upload encoding, a data URL
// ("data:<mime>;base64,<payload>") or bare base64.
func DecodeContents(filename, contents string) Result {
	if strings.TrimSpace(contents) == "" {
		if strings.TrimSpace(filename) == "" {
			return Result{Status: StatusNoFile}
		}
		return undecodable(fmt.Errorf("%s: empty contents", filename))
	}
	encoded := contents
	if strings.HasPrefix(contents, "data:") {
		header, body, ok := strings.Cut(contents, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return undecodable(fmt.Errorf("%s: data url is not base64", filename))
		}
		encoded = body
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return undecodable(fmt.Errorf("%s: %w", filename, err))
	}
	return Decode(filename, payload)
}

func csvSheetName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
