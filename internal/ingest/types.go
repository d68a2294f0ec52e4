package ingest

import "strings"

// Format identifies the declared encoding of a raw batch.
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(value string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatCSV:
		return FormatCSV, true
	case FormatXML:
		return FormatXML, true
	}
	return "", false
}

// RecordTable names which of the two batch tables a record belongs to.
type RecordTable string

const (
	TableHeaders RecordTable = "headers"
	TableItems   RecordTable = "items"
)

// IssueStage names the pipeline stage that rejected a record.
type IssueStage string

const (
	StageParse     IssueStage = "parse"
	StageNormalize IssueStage = "normalize"
)

// RecordIssue describes one record that could not be loaded. Issues never
// abort the batch; they are collected and returned with the load result.
type RecordIssue struct {
	Table     RecordTable `json:"table"`
	Stage     IssueStage  `json:"stage"`
	Line      int         `json:"line,omitempty"`
	AccessKey string      `json:"access_key,omitempty"`
	Reason    string      `json:"reason"`
}

// RawRecord is one parsed but not yet normalized record: canonical field keys
// mapped to their raw string values, plus the input position for diagnostics.
type RawRecord struct {
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a canonical field, or "".
func (r RawRecord) Get(key string) string {
	return strings.TrimSpace(r.Fields[key])
}

// LoadResult reports the outcome of one batch load. Skipped carries
// parse-stage rejections, Errors carries normalization rejections.
type LoadResult struct {
	BatchID         string        `json:"batch_id"`
	Format          Format        `json:"format"`
	AcceptedHeaders int           `json:"accepted_headers"`
	AcceptedItems   int           `json:"accepted_items"`
	Skipped         []RecordIssue `json:"skipped"`
	Errors          []RecordIssue `json:"errors"`
}
