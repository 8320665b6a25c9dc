package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/op"
	"github.com/nickyhof/MyDB/ps"
	"github.com/nickyhof/MyDB/sql"
)

// QueryContext carries per-session settings for statement execution.
type QueryContext struct {
	Identity core.Identity
}

// Engine executes statements against a session catalog. An Engine is a
// single session: it runs one statement at a time and must not be
// shared between goroutines.
type Engine struct {
	Persistence *ps.Persistence
	QueryContext
	Logger *slog.Logger

	catalog *op.Catalog
}

func NewEngine(persistence *ps.Persistence, identity core.Identity) *Engine {
	return &Engine{
		Persistence:  persistence,
		QueryContext: QueryContext{Identity: identity},
		Logger:       slog.Default(),
		catalog:      op.NewCatalog(),
	}
}

func (engine *Engine) Catalog() *op.Catalog {
	return engine.catalog
}

// CurrentDatabase returns the selected database name, or "".
func (engine *Engine) CurrentDatabase() string {
	return engine.catalog.CurrentName()
}

// Execute parses and runs a single statement. A failed statement leaves
// the catalog as it was.
func (engine *Engine) Execute(query string) (Result, error) {
	parser := sql.NewParser(query)
	statement, err := parser.Parse()
	if err != nil {
		engine.Logger.Warn("parse failed", "error", err, "kind", ErrorKind(err))
		return nil, err
	}

	engine.Logger.Debug("executing statement",
		"statement", statement.Type().String(),
		"database", engine.catalog.CurrentName())

	result, err := engine.execute(statement)
	if err != nil {
		engine.Logger.Warn("statement failed",
			"statement", statement.Type().String(),
			"error", err,
			"kind", ErrorKind(err))
		return nil, err
	}
	return result, nil
}

func (engine *Engine) execute(statement sql.Statement) (Result, error) {
	switch statement.Type() {
	case sql.SelectStatementType:
		return engine.executeSelectStatement(statement.(sql.SelectStatement))
	case sql.InsertStatementType:
		return engine.executeInsertStatement(statement.(sql.InsertStatement))
	case sql.DeleteStatementType:
		return engine.executeDeleteStatement(statement.(sql.DeleteStatement))
	case sql.CreateTableStatementType:
		return engine.executeCreateTableStatement(statement.(sql.CreateTableStatement))
	case sql.CreateDatabaseStatementType:
		return engine.executeCreateDatabaseStatement(statement.(sql.CreateDatabaseStatement))
	case sql.UseStatementType:
		return engine.executeUseStatement(statement.(sql.UseStatement))
	case sql.LoadStatementType:
		return engine.executeLoadStatement(statement.(sql.LoadStatement))
	case sql.CommitStatementType:
		return engine.executeCommitStatement()
	case sql.DescribeStatementType:
		return engine.executeDescribeStatement(statement.(sql.DescribeStatement))
	case sql.ShowDatabasesStatementType:
		return engine.executeShowDatabasesStatement()
	case sql.ShowTablesStatementType:
		return engine.executeShowTablesStatement()
	default:
		return nil, fmt.Errorf("%w: %v", sql.ErrUnsupportedCommand, statement.Type())
	}
}

func (engine *Engine) currentTable(name string) (*op.DatabaseOp, *op.TableOp, error) {
	dbOp, err := engine.catalog.Current()
	if err != nil {
		return nil, nil, err
	}
	tableOp, err := dbOp.GetTable(name)
	if err != nil {
		return nil, nil, err
	}
	return dbOp, tableOp, nil
}

func (engine *Engine) executeSelectStatement(statement sql.SelectStatement) (QueryResult, error) {
	startTime := time.Now()

	_, tableOp, err := engine.currentTable(statement.Table)
	if err != nil {
		return QueryResult{}, err
	}

	projection, err := tableOp.Select(statement.Columns, statement.Where)
	if err != nil {
		return QueryResult{}, err
	}

	data := [][]string{}
	for row := range projection.All() {
		data = append(data, row)
	}

	return QueryResult{
		Columns:          projection.Columns,
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     tableOp.Count(),
	}, nil
}

func (engine *Engine) executeInsertStatement(statement sql.InsertStatement) (CommitResult, error) {
	startTime := time.Now()

	_, tableOp, err := engine.currentTable(statement.Table)
	if err != nil {
		return CommitResult{}, err
	}

	count, err := tableOp.Insert(statement.Values)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Database:         engine.catalog.CurrentName(),
		RecordsWritten:   1,
		RowCount:         count,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDeleteStatement(statement sql.DeleteStatement) (CommitResult, error) {
	startTime := time.Now()

	_, tableOp, err := engine.currentTable(statement.Table)
	if err != nil {
		return CommitResult{}, err
	}

	scanned := tableOp.Count()
	removed, err := tableOp.Delete(statement.Where)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Database:         engine.catalog.CurrentName(),
		RecordsDeleted:   removed,
		RowCount:         tableOp.Count(),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     scanned,
	}, nil
}

func (engine *Engine) executeCreateTableStatement(statement sql.CreateTableStatement) (CommitResult, error) {
	startTime := time.Now()

	dbOp, err := engine.catalog.Current()
	if err != nil {
		return CommitResult{}, err
	}

	replaced := dbOp.CreateTable(core.TableSchema{
		Name:    statement.Table,
		Columns: statement.Columns,
	})

	result := CommitResult{
		Database:         dbOp.Name(),
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}
	if replaced {
		result.TablesReplaced = 1
		engine.Logger.Info("table replaced", "database", dbOp.Name(), "table", statement.Table)
	}
	return result, nil
}

func (engine *Engine) executeCreateDatabaseStatement(statement sql.CreateDatabaseStatement) (CommitResult, error) {
	startTime := time.Now()

	if _, err := engine.catalog.CreateDatabase(statement.Database); err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Database:         statement.Database,
		DatabasesCreated: 1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

// executeUseStatement selects a resident database, loading it from
// storage when it is not resident.
func (engine *Engine) executeUseStatement(statement sql.UseStatement) (CommitResult, error) {
	startTime := time.Now()

	if engine.catalog.Use(statement.Database) {
		return CommitResult{
			Database:         statement.Database,
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     1,
		}, nil
	}

	return engine.executeLoadStatement(sql.LoadStatement{Database: statement.Database})
}

func (engine *Engine) executeLoadStatement(statement sql.LoadStatement) (CommitResult, error) {
	startTime := time.Now()

	database, size, err := engine.Persistence.Load(statement.Database)
	if err != nil {
		return CommitResult{}, err
	}

	dbOp := engine.catalog.Attach(database)

	engine.Logger.Info("database loaded",
		"database", database.Name,
		"tables", len(database.Tables),
		"rows", dbOp.RowCount(),
		"bytes", size)

	return CommitResult{
		Database:         database.Name,
		DatabasesLoaded:  1,
		TablesLoaded:     len(database.Tables),
		RowCount:         dbOp.RowCount(),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(database.Tables),
	}, nil
}

func (engine *Engine) executeCommitStatement() (CommitResult, error) {
	startTime := time.Now()

	dbOp, err := engine.catalog.Current()
	if err != nil {
		return CommitResult{}, err
	}

	txn, size, err := engine.Persistence.Commit(dbOp.Database, engine.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	engine.Logger.Info("database committed",
		"database", dbOp.Name(),
		"tables", len(dbOp.Database.Tables),
		"rows", dbOp.RowCount(),
		"bytes", size,
		"transaction", txn.Id)

	return CommitResult{
		Transaction:      txn,
		Database:         dbOp.Name(),
		TablesCommitted:  len(dbOp.Database.Tables),
		RowCount:         dbOp.RowCount(),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(dbOp.Database.Tables),
	}, nil
}

func (engine *Engine) executeDescribeStatement(statement sql.DescribeStatement) (QueryResult, error) {
	startTime := time.Now()

	_, tableOp, err := engine.currentTable(statement.Table)
	if err != nil {
		return QueryResult{}, err
	}

	schema := tableOp.Schema()
	data := make([][]string, len(schema.Columns))
	for i, col := range schema.Columns {
		data[i] = []string{col.Name, col.Type.String()}
	}

	return QueryResult{
		Columns:          []string{"column", "type"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeShowDatabasesStatement() (QueryResult, error) {
	startTime := time.Now()

	names := engine.catalog.DatabaseNames()
	data := make([][]string, len(names))
	for i, name := range names {
		data[i] = []string{name}
	}

	return QueryResult{
		Columns:          []string{"name"},
		Data:             data,
		RecordsRead:      len(names),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(names),
	}, nil
}

func (engine *Engine) executeShowTablesStatement() (QueryResult, error) {
	startTime := time.Now()

	dbOp, err := engine.catalog.Current()
	if err != nil {
		return QueryResult{}, err
	}

	names := dbOp.TableNames()
	data := make([][]string, len(names))
	for i, name := range names {
		data[i] = []string{name}
	}

	return QueryResult{
		Columns:          []string{"name"},
		Data:             data,
		RecordsRead:      len(names),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(names),
	}, nil
}

// ErrorKind names the category of an error returned by Execute, for
// reporting to clients. It returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, sql.ErrMissingWhereClause):
		return "MissingWhereClause"
	case errors.Is(err, sql.ErrParse):
		return "ParseError"
	case errors.Is(err, op.ErrNoDatabaseSelected):
		return "NoDatabaseSelected"
	case errors.Is(err, op.ErrDatabaseAlreadyExists):
		return "DatabaseAlreadyExists"
	case errors.Is(err, ps.ErrFileNotFound):
		return "FileNotFound"
	case errors.Is(err, op.ErrTableNotFound):
		return "TableNotFound"
	case errors.Is(err, core.ErrColumnCountMismatch):
		return "ColumnCountMismatch"
	case errors.Is(err, core.ErrTypeMismatch):
		return "TypeMismatch"
	case errors.Is(err, op.ErrUnknownColumn):
		return "UnknownColumn"
	case errors.Is(err, ps.ErrDecode):
		return "DecodeError"
	case errors.Is(err, ps.ErrFileIO):
		return "FileIOError"
	default:
		return "Error"
	}
}
