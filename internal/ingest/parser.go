package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XML record tags, one per batch table.
const (
	xmlHeaderTag = "registro_cabecalho"
	xmlItemTag   = "registro_item"
)

// Parse decodes raw batch content into canonical records. Rows or elements
// that cannot be decoded are reported as issues; parsing never fails the
// batch, and content with zero parseable records yields an empty slice.
func Parse(format Format, table RecordTable, content []byte) ([]RawRecord, []RecordIssue) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	switch format {
	case FormatXML:
		return parseXML(table, content)
	default:
		return parseCSV(table, content)
	}
}

func parseCSV(table RecordTable, content []byte) ([]RawRecord, []RecordIssue) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if err != nil {
		return nil, []RecordIssue{{
			Table:  table,
			Stage:  StageParse,
			Line:   1,
			Reason: fmt.Sprintf("unreadable header row: %v", err),
		}}
	}

	columns := make([]string, len(headerRow))
	hasAccessKey := false
	for i, name := range headerRow {
		columns[i] = sanitizeFieldName(name)
		if columns[i] == fieldAccessKey {
			hasAccessKey = true
		}
	}
	if !hasAccessKey {
		return nil, []RecordIssue{{
			Table:  table,
			Stage:  StageParse,
			Line:   1,
			Reason: fmt.Sprintf("missing required column %q", fieldAccessKey),
		}}
	}

	var (
		records []RawRecord
		issues  []RecordIssue
		line    = 1
	)
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			issues = append(issues, RecordIssue{
				Table:  table,
				Stage:  StageParse,
				Line:   line,
				Reason: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}
		if isBlankRow(row) {
			continue
		}

		fields := make(map[string]string, len(columns))
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			fields[columns[i]] = cell
		}
		records = append(records, RawRecord{Line: line, Fields: fields})
	}
	return records, issues
}

// detectDelimiter inspects the first line: the extracts circulate both
// comma- and semicolon-delimited.
func detectDelimiter(content []byte) rune {
	firstLine := content
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	if bytes.Count(firstLine, []byte{';'}) > bytes.Count(firstLine, []byte{','}) {
		return ';'
	}
	return ','
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlRecord struct {
	XMLName xml.Name
	Fields  []xmlField `xml:",any"`
}

type xmlDocument struct {
	Records []xmlRecord `xml:",any"`
}

func parseXML(table RecordTable, content []byte) ([]RawRecord, []RecordIssue) {
	recordTag := xmlHeaderTag
	if table == TableItems {
		recordTag = xmlItemTag
	}

	var doc xmlDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, []RecordIssue{{
			Table:  table,
			Stage:  StageParse,
			Reason: fmt.Sprintf("malformed xml: %v", err),
		}}
	}

	var (
		records []RawRecord
		issues  []RecordIssue
	)
	ordinal := 0
	for _, rec := range doc.Records {
		if rec.XMLName.Local != recordTag {
			continue
		}
		ordinal++
		fields := make(map[string]string, len(rec.Fields))
		for _, f := range rec.Fields {
			key := sanitizeFieldName(f.XMLName.Local)
			if key == "" {
				continue
			}
			fields[key] = f.Value
		}
		if len(fields) == 0 {
			issues = append(issues, RecordIssue{
				Table:  table,
				Stage:  StageParse,
				Line:   ordinal,
				Reason: "record element has no fields",
			})
			continue
		}
		records = append(records, RawRecord{Line: ordinal, Fields: fields})
	}
	return records, issues
}
