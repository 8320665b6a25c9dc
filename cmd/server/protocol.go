// Package main provides a TCP SQL server for MyDB.
package main

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/nickyhof/MyDB/db"
)

// Request represents a SQL query from the client. Clients may also send
// the bare statement text as the whole line.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's response to a query.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Kind    string          `json:"kind,omitempty"` // error kind, e.g. "TableNotFound"
	Type    string          `json:"type,omitempty"` // "query", "commit" or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular query results.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

// CommitResponse contains mutation operation results.
type CommitResponse struct {
	Database         string  `json:"database,omitempty"`
	Transaction      string  `json:"transaction,omitempty"`
	DatabasesCreated int     `json:"databases_created,omitempty"`
	DatabasesLoaded  int     `json:"databases_loaded,omitempty"`
	TablesCreated    int     `json:"tables_created,omitempty"`
	TablesReplaced   int     `json:"tables_replaced,omitempty"`
	TablesLoaded     int     `json:"tables_loaded,omitempty"`
	TablesCommitted  int     `json:"tables_committed,omitempty"`
	RecordsWritten   int     `json:"records_written,omitempty"`
	RecordsDeleted   int     `json:"records_deleted,omitempty"`
	RowCount         int     `json:"row_count"`
	TimeMs           float64 `json:"time_ms"`
}

// AuthResponse contains authentication results.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	ExpiresIn     int    `json:"expires_in,omitempty"` // seconds
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses one request line. A line that is a JSON object is
// decoded as a Request; anything else is taken as the query itself.
func DecodeRequest(line []byte) (Request, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return Request{Query: string(line)}, nil
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Request{}, err
	}
	req.Query = strings.TrimSpace(req.Query)
	return req, nil
}

func errorResponse(err error) Response {
	return Response{
		Success: false,
		Error:   err.Error(),
		Kind:    db.ErrorKind(err),
	}
}

// resultResponse converts an engine result to its wire form.
func resultResponse(result db.Result) Response {
	switch r := result.(type) {
	case db.QueryResult:
		data, _ := json.Marshal(QueryResponse{
			Columns:     nonNil(r.Columns),
			Data:        nonNilRows(r.Data),
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		})
		return Response{Success: true, Type: "query", Result: data}

	case db.CommitResult:
		data, _ := json.Marshal(CommitResponse{
			Database:         r.Database,
			Transaction:      r.Transaction.Id,
			DatabasesCreated: r.DatabasesCreated,
			DatabasesLoaded:  r.DatabasesLoaded,
			TablesCreated:    r.TablesCreated,
			TablesReplaced:   r.TablesReplaced,
			TablesLoaded:     r.TablesLoaded,
			TablesCommitted:  r.TablesCommitted,
			RecordsWritten:   r.RecordsWritten,
			RecordsDeleted:   r.RecordsDeleted,
			RowCount:         r.RowCount,
			TimeMs:           r.ExecutionTimeSec * 1000,
		})
		return Response{Success: true, Type: "commit", Result: data}

	default:
		return Response{Success: true, Type: "unknown"}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilRows(rows [][]string) [][]string {
	if rows == nil {
		return [][]string{}
	}
	return rows
}
