package db

import (
	"fmt"
	"io"
	"strings"

	"github.com/nickyhof/MyDB/ps"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	CommitResultType
)

type Result interface {
	Type() ResultType
	Display(w io.Writer)
}

// QueryResult is returned by SELECT, DESCRIBE and SHOW.
type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	ExecutionTimeSec float64
	ExecutionOps     int
}

// CommitResult is returned by statements that change the catalog or
// storage. RowCount is the table's row count after INSERT or DELETE and
// the database's total after LOAD or COMMIT.
type CommitResult struct {
	Transaction      ps.Transaction
	Database         string
	DatabasesCreated int
	DatabasesLoaded  int
	TablesCreated    int
	TablesReplaced   int
	TablesLoaded     int
	TablesCommitted  int
	RecordsWritten   int
	RecordsDeleted   int
	RowCount         int
	ExecutionTimeSec float64
	ExecutionOps     int
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result CommitResult) Type() ResultType {
	return CommitResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	switch {
	case secs < 0.001:
		return "<1ms"
	case secs < 1:
		return fmt.Sprintf("%dms", int(secs*1000))
	case secs < 10:
		return fmt.Sprintf("%.1fs", secs)
	case secs < 60:
		return fmt.Sprintf("%ds", int(secs))
	}

	mins := int(secs / 60)
	remainSecs := int(secs) % 60
	if remainSecs == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dm%ds", mins, remainSecs)
}

func throughput(ops int, secs float64) string {
	if secs <= 0 || ops <= 0 {
		return ""
	}
	rate := float64(ops) / secs
	switch {
	case rate >= 1000000:
		return fmt.Sprintf(", %.1fM ops/s", rate/1000000)
	case rate >= 1000:
		return fmt.Sprintf(", %.1fK ops/s", rate/1000)
	default:
		return fmt.Sprintf(", %.0f ops/s", rate)
	}
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result CommitResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result QueryResult) Display(w io.Writer) {
	table := NewTable(w)
	table.Header(result.Columns)
	table.Bulk(result.Data)
	table.Render()

	fmt.Fprintf(w, "%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(),
		throughput(result.ExecutionOps, result.ExecutionTimeSec))
}

// Summary describes what the statement changed, or "OK".
func (result CommitResult) Summary() string {
	var parts []string

	if result.DatabasesCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d database(s) created", result.DatabasesCreated))
	}
	if result.DatabasesLoaded > 0 {
		parts = append(parts, fmt.Sprintf("database %s loaded with %d table(s)", result.Database, result.TablesLoaded))
	}
	if result.TablesCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) created", result.TablesCreated))
	}
	if result.TablesReplaced > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) replaced", result.TablesReplaced))
	}
	if result.TablesCommitted > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) committed", result.TablesCommitted))
	}
	if result.RecordsWritten > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) written", result.RecordsWritten))
	}
	if result.RecordsDeleted > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) deleted", result.RecordsDeleted))
	}
	if result.RecordsWritten > 0 || result.RecordsDeleted > 0 {
		parts = append(parts, fmt.Sprintf("%d row(s) in table", result.RowCount))
	}
	if result.Transaction.Id != "" {
		id := result.Transaction.Id
		if len(id) > 12 {
			id = id[:12]
		}
		parts = append(parts, "transaction "+id)
	}

	if len(parts) == 0 {
		return "OK"
	}
	return strings.Join(parts, ", ")
}

func (result CommitResult) Display(w io.Writer) {
	fmt.Fprintf(w, "%s (%s%s)\n", result.Summary(), result.ExecutionTime(),
		throughput(result.ExecutionOps, result.ExecutionTimeSec))
}
