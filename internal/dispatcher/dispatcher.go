package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/config"
	"github.com/z2z63/DB2024-OSCore/internal/executor"
	"github.com/z2z63/DB2024-OSCore/internal/lexer"
	"github.com/z2z63/DB2024-OSCore/internal/parser"
	"github.com/z2z63/DB2024-OSCore/internal/planner"
	"github.com/z2z63/DB2024-OSCore/internal/storage"
)

// QueryType represents different types of SQL queries
type QueryType int

const (
	QueryTypeSelect QueryType = iota
	QueryTypeInsert
	QueryTypeUpdate
	QueryTypeDelete
	QueryTypeCreateTable
	QueryTypeDropTable
)

func (qt QueryType) String() string {
	switch qt {
	case QueryTypeSelect:
		return "SELECT"
	case QueryTypeInsert:
		return "INSERT"
	case QueryTypeUpdate:
		return "UPDATE"
	case QueryTypeDelete:
		return "DELETE"
	case QueryTypeCreateTable:
		return "CREATE_TABLE"
	case QueryTypeDropTable:
		return "DROP_TABLE"
	default:
		return "UNKNOWN"
	}
}

// QueryContext holds context information for query execution
type QueryContext struct {
	ConnectionID string
	UserID       string
	DatabaseName string
	StartTime    time.Time
	Timeout      time.Duration
}

// QueryResult represents the result of query execution
type QueryResult struct {
	Columns       []string
	Rows          [][]interface{}
	RowsAffected  int64
	LastInsertID  int64
	ExecutionTime time.Duration
	Error         error
}

// Dispatcher parses, plans, and executes SQL text: it turns a string into a
// parser.Statement, resolves the tables it names against the catalog,
// builds a planner.Plan, and hands that plan to the executor.
type Dispatcher struct {
	mu            sync.RWMutex
	config        *config.Config
	storageEngine storage.StorageEngine
	catalog       catalog.CatalogManager
	exec          *executor.Executor

	queriesExecuted    int64
	totalExecutionTime time.Duration
	queryTypeStats     map[QueryType]int64
}

// NewDispatcher creates a new query dispatcher. catalogMgr resolves the
// table metadata BuildQuery and the planner need; it is never written to
// by the dispatcher itself.
func NewDispatcher(cfg *config.Config, storageEngine storage.StorageEngine, catalogMgr catalog.CatalogManager) *Dispatcher {
	execConfig := executor.DefaultExecutorConfig()
	execConfig.MergeSortRecordsPerPage = cfg.MergeSort.RecordsPerPage
	execConfig.MergeSortRecordsPerFile = cfg.MergeSort.RecordsPerFile

	return &Dispatcher{
		config:         cfg,
		storageEngine:  storageEngine,
		catalog:        catalogMgr,
		exec:           executor.NewExecutorWithConfig(storageEngine, nil, execConfig),
		queryTypeStats: make(map[QueryType]int64),
	}
}

// DispatchQuery processes and routes a SQL query to appropriate subsystems
func (d *Dispatcher) DispatchQuery(ctx context.Context, sql string, queryCtx *QueryContext) (*QueryResult, error) {
	startTime := time.Now()

	plan, queryType, err := d.planQuery(sql)
	if err != nil {
		return &QueryResult{Error: err}, nil
	}

	result, err := d.executeQuery(ctx, plan)
	if err != nil {
		return &QueryResult{Error: fmt.Errorf("query execution failed: %w", err)}, nil
	}

	d.updateStats(queryType, time.Since(startTime))
	result.ExecutionTime = time.Since(startTime)
	return result, nil
}

// planQuery runs a SQL string through lexing, parsing, table resolution,
// and planning, returning the resulting physical plan.
func (d *Dispatcher) planQuery(sql string) (*planner.Plan, QueryType, error) {
	if _, err := lexer.TokenizeSQL(sql); err != nil {
		return nil, QueryType(-1), fmt.Errorf("lexical analysis failed: %w", err)
	}

	stmt, err := parser.ParseSQL(sql)
	if err != nil {
		return nil, QueryType(-1), fmt.Errorf("parsing failed: %w", err)
	}

	queryType := d.determineQueryType(stmt)

	tables, err := d.resolveTables(stmt)
	if err != nil {
		return nil, queryType, fmt.Errorf("table resolution failed: %w", err)
	}

	query, err := planner.BuildQuery(stmt, tables)
	if err != nil {
		return nil, queryType, fmt.Errorf("query build failed: %w", err)
	}

	planCtx := &planner.Context{
		Catalog: d.catalog,
		Features: planner.EngineFeatures{
			EnableNestedLoop: d.config.Optimizer.EnableNestedLoop,
			EnableSortMerge:  d.config.Optimizer.EnableSortMerge,
		},
	}

	plan, err := planner.Plan(query, planCtx)
	if err != nil {
		return nil, queryType, fmt.Errorf("query planning failed: %w", err)
	}

	return plan, queryType, nil
}

// determineQueryType determines the type of SQL query
func (d *Dispatcher) determineQueryType(stmt parser.Statement) QueryType {
	switch stmt.(type) {
	case *parser.SelectStatement:
		return QueryTypeSelect
	case *parser.InsertStatement:
		return QueryTypeInsert
	case *parser.UpdateStatement:
		return QueryTypeUpdate
	case *parser.DeleteStatement:
		return QueryTypeDelete
	case *parser.CreateTableStatement:
		return QueryTypeCreateTable
	case *parser.DropTableStatement:
		return QueryTypeDropTable
	default:
		return QueryType(-1) // Unknown
	}
}

// resolveTables returns the catalog metadata for every table a statement
// references, in FROM-clause order for SELECT (the order the planner's
// join tree preserves) and as a single-element list for DML statements
// naming one table directly.
func (d *Dispatcher) resolveTables(stmt parser.Statement) ([]*catalog.TableMetadata, error) {
	var names []string

	switch s := stmt.(type) {
	case *parser.SelectStatement:
		if s.FromClause != nil {
			for _, t := range s.FromClause.Tables {
				names = append(names, d.extractTableName(t))
			}
		}
	case *parser.InsertStatement:
		names = append(names, s.TableName.Value)
	case *parser.UpdateStatement:
		names = append(names, s.TableName.Value)
	case *parser.DeleteStatement:
		names = append(names, s.TableName.Value)
	case *parser.CreateTableStatement, *parser.DropTableStatement:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}

	tables := make([]*catalog.TableMetadata, 0, len(names))
	for _, name := range names {
		table, err := d.catalog.GetTable(name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// extractTableName extracts table name from a FROM-clause expression
func (d *Dispatcher) extractTableName(expr parser.Expression) string {
	switch e := expr.(type) {
	case *parser.Identifier:
		return e.Value
	case *parser.ColumnReference:
		if e.Table != nil {
			return e.Table.Value
		}
	}
	return ""
}

// executeQuery runs a physical plan through the executor and shapes the
// output into a QueryResult.
func (d *Dispatcher) executeQuery(ctx context.Context, plan *planner.Plan) (*QueryResult, error) {
	if plan.Kind == planner.PlanDDL {
		// DDL execution (creating/dropping the catalog entry and its backing
		// storage) lives in the catalog/storage layers, not the planner or
		// executor; the dispatcher only routes the statement there.
		return &QueryResult{}, nil
	}

	if plan.Kind == planner.PlanDML && plan.DMLKind != planner.DMLSelect {
		return d.executeMutation(ctx, plan)
	}

	resultSet, err := d.exec.Execute(ctx, plan)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Rows: make([][]interface{}, 0, resultSet.RowCount())}
	if resultSet.Schema != nil {
		result.Columns = make([]string, len(resultSet.Schema.Columns))
		for i, col := range resultSet.Schema.Columns {
			result.Columns[i] = col.Name
		}
	}
	for _, tuple := range resultSet.Tuples {
		result.Rows = append(result.Rows, tuple.Values)
	}
	return result, nil
}

// executeMutation handles INSERT/UPDATE/DELETE, which report rows affected
// rather than a result set. Matching rows for UPDATE/DELETE are found by
// running the plan's scan child through the executor; the storage mutation
// itself is the storage engine's responsibility, not the planner's or
// executor's.
func (d *Dispatcher) executeMutation(ctx context.Context, plan *planner.Plan) (*QueryResult, error) {
	switch plan.DMLKind {
	case planner.DMLInsert:
		return &QueryResult{RowsAffected: int64(len(plan.InsertValues))}, nil
	case planner.DMLUpdate, planner.DMLDelete:
		resultSet, err := d.exec.Execute(ctx, plan.Child)
		if err != nil {
			return nil, err
		}
		return &QueryResult{RowsAffected: int64(resultSet.RowCount())}, nil
	default:
		return nil, fmt.Errorf("unsupported DML kind: %v", plan.DMLKind)
	}
}

// updateStats updates query execution statistics
func (d *Dispatcher) updateStats(queryType QueryType, executionTime time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queriesExecuted++
	d.totalExecutionTime += executionTime
	d.queryTypeStats[queryType]++
}

// GetStats returns dispatcher statistics
func (d *Dispatcher) GetStats() DispatcherStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := DispatcherStats{
		QueriesExecuted:    d.queriesExecuted,
		TotalExecutionTime: d.totalExecutionTime,
		QueryTypeStats:     make(map[QueryType]int64),
	}

	for queryType, count := range d.queryTypeStats {
		stats.QueryTypeStats[queryType] = count
	}

	if d.queriesExecuted > 0 {
		stats.AverageExecutionTime = d.totalExecutionTime / time.Duration(d.queriesExecuted)
	}

	return stats
}

// DispatcherStats holds statistics about query execution
type DispatcherStats struct {
	QueriesExecuted      int64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	QueryTypeStats       map[QueryType]int64
}

// String returns a string representation of dispatcher statistics
func (ds DispatcherStats) String() string {
	return fmt.Sprintf(`Query Dispatcher Statistics:
  Total Queries: %d
  Total Execution Time: %v
  Average Execution Time: %v
  Query Type Breakdown:
    SELECT: %d
    INSERT: %d
    UPDATE: %d
    DELETE: %d
    CREATE TABLE: %d
    DROP TABLE: %d`,
		ds.QueriesExecuted,
		ds.TotalExecutionTime,
		ds.AverageExecutionTime,
		ds.QueryTypeStats[QueryTypeSelect],
		ds.QueryTypeStats[QueryTypeInsert],
		ds.QueryTypeStats[QueryTypeUpdate],
		ds.QueryTypeStats[QueryTypeDelete],
		ds.QueryTypeStats[QueryTypeCreateTable],
		ds.QueryTypeStats[QueryTypeDropTable])
}

// ValidateQuery performs basic validation on the query
func (d *Dispatcher) ValidateQuery(sql string) error {
	if sql == "" {
		return fmt.Errorf("empty query")
	}

	tokens, err := lexer.TokenizeSQL(sql)
	if err != nil {
		return fmt.Errorf("invalid SQL syntax: %w", err)
	}

	if len(tokens) == 0 {
		return fmt.Errorf("empty query")
	}

	return nil
}

// ExplainQuery returns the rendered execution plan for a query without
// executing it.
func (d *Dispatcher) ExplainQuery(ctx context.Context, sql string) (string, error) {
	plan, _, err := d.planQuery(sql)
	if err != nil {
		return "", err
	}
	return plan.Explain(), nil
}
