package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks a format from an explicit name, then the file
// extension, then the content type.
func DetectFormat(explicit, filename, contentType string) (Format, error) {
	if explicit = strings.ToLower(strings.TrimSpace(explicit)); explicit != "" {
		switch Format(explicit) {
		case FormatCSV, FormatJSON, FormatXLSX:
			return Format(explicit), nil
		}
		return "", apperror.MalformedInput(fmt.Sprintf("unsupported import format %q", explicit))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case mediaType == "text/csv", mediaType == "application/csv":
			return FormatCSV, nil
		case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
			return FormatJSON, nil
		case mediaType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
			return FormatXLSX, nil
		}
	}
	return "", apperror.MalformedInput("cannot determine import format; use csv, json or xlsx")
}

// row maps a canonical field name to its trimmed cell value
type row map[string]string

func (r row) get(field string) string {
	return r[field]
}

func emptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readRows decodes data into rows keyed by canonical field names. Columns
// whose header has no alias are ignored and rows with no content at all are
// skipped.
func readRows(data []byte, format Format, aliases map[string]string) ([]row, error) {
	switch format {
	case FormatCSV:
		return readCSV(data, aliases)
	case FormatJSON:
		return readJSON(data, aliases)
	case FormatXLSX:
		return readXLSX(data, aliases)
	}
	return nil, apperror.MalformedInput(fmt.Sprintf("unsupported import format %q", format))
}

func readCSV(data []byte, aliases map[string]string) ([]row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperror.MalformedInput("csv file has no header row")
		}
		return nil, apperror.Wrap(apperror.KindMalformedInput, "invalid csv file", err)
	}

	var rows []row
	line := 1
	for {
		line++
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.Wrap(apperror.KindMalformedInput, fmt.Sprintf("invalid csv at line %d", line), err)
		}
		if emptyRecord(rec) {
			continue
		}
		rows = append(rows, zipRow(header, rec, aliases))
	}
	return rows, nil
}

func readXLSX(data []byte, aliases map[string]string) ([]row, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindMalformedInput, "invalid xlsx file", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, apperror.MalformedInput("xlsx file has no worksheet")
	}
	cells, err := file.GetRows(sheet)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindMalformedInput, "cannot read xlsx worksheet", err)
	}
	if len(cells) == 0 {
		return nil, apperror.MalformedInput("xlsx worksheet has no header row")
	}

	rows := make([]row, 0, len(cells)-1)
	for _, rec := range cells[1:] {
		if emptyRecord(rec) {
			continue
		}
		rows = append(rows, zipRow(cells[0], rec, aliases))
	}
	return rows, nil
}

func zipRow(header, rec []string, aliases map[string]string) row {
	out := make(row, len(header))
	for i, h := range header {
		field, ok := aliases[NormalizeHeader(h)]
		if !ok {
			continue
		}
		var v string
		if i < len(rec) {
			v = strings.TrimSpace(rec[i])
		}
		// first matching column wins unless it is empty
		if out[field] == "" {
			out[field] = v
		}
	}
	return out
}

var jsonArrayKeys = []string{"items", "departments", "employees", "names"}

func readJSON(data []byte, aliases map[string]string) ([]row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, apperror.Wrap(apperror.KindMalformedInput, "invalid json file", err)
	}

	var items []interface{}
	switch v := doc.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		for _, key := range jsonArrayKeys {
			if arr, ok := v[key].([]interface{}); ok {
				items = arr
				break
			}
		}
		if items == nil {
			return nil, apperror.MalformedInput("json object must hold an items, departments, employees or names array")
		}
	default:
		return nil, apperror.MalformedInput("json import must be an array or an object wrapping one")
	}

	rows := make([]row, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			out := make(row, len(v))
			for k, val := range v {
				field, ok := aliases[NormalizeHeader(k)]
				if !ok {
					continue
				}
				if s := scalarString(val); out[field] == "" {
					out[field] = s
				}
			}
			rows = append(rows, out)
		case string:
			// a bare string is shorthand for a name
			rows = append(rows, row{"name": strings.TrimSpace(v)})
		default:
			rows = append(rows, row{})
		}
	}
	return rows, nil
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
