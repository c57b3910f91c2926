package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses an import file into rows. The first record is a header;
// columns are matched by name, case-insensitively, in any order. Title and
// description columns are mandatory, the rest are optional. Unknown columns
// are ignored so exports from other trackers can be fed in directly.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("import file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "description"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("import file is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		if i, ok := cols[name]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(rows)+1, err)
		}
		rows = append(rows, Row{
			Title:       field(record, "title"),
			Description: field(record, "description"),
			Status:      field(record, "status"),
			Labels:      field(record, "labels"),
			Assignee:    field(record, "assignee"),
		})
	}
	return rows, nil
}
