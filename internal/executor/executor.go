// Package executor implements the query execution engine for NamyohDB.
// It executes optimized query plans using the Volcano/Iterator model.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/planner"
	"github.com/z2z63/DB2024-OSCore/internal/storage"
)

// Executor executes optimized query plans
type Executor struct {
	storage    storage.StorageEngine
	bufferPool *storage.BufferPool
	statistics *ExecutionStatistics
	config     *ExecutorConfig
}

// ExecutorConfig contains configuration for the executor
type ExecutorConfig struct {
	// Memory limits
	MaxMemoryBytes int64
	WorkMemBytes   int64 // Memory per operator

	// Parallelism
	MaxParallelism int
	EnableParallel bool

	// Timeouts
	QueryTimeout    time.Duration
	OperatorTimeout time.Duration

	// Optimization flags
	EnablePipelining bool
	EnableBatching   bool
	BatchSize        int

	// External sort tuning, passed straight through to mergesort.Options
	// when a plan requires a Sort operator.
	MergeSortRecordsPerPage int
	MergeSortRecordsPerFile int
	MergeSortDir            string
}

// DefaultExecutorConfig returns default executor configuration
func DefaultExecutorConfig() *ExecutorConfig {
	return &ExecutorConfig{
		MaxMemoryBytes:          1024 * 1024 * 1024, // 1GB
		WorkMemBytes:            64 * 1024 * 1024,   // 64MB per operator
		MaxParallelism:          4,
		EnableParallel:          true,
		QueryTimeout:            30 * time.Second,
		OperatorTimeout:         10 * time.Second,
		EnablePipelining:        true,
		EnableBatching:          true,
		BatchSize:               1000,
		MergeSortRecordsPerPage: 64,
		MergeSortRecordsPerFile: 4096,
	}
}

// NewExecutor creates a new query executor
func NewExecutor(storageEngine storage.StorageEngine, bufferPool *storage.BufferPool) *Executor {
	return &Executor{
		storage:    storageEngine,
		bufferPool: bufferPool,
		statistics: NewExecutionStatistics(),
		config:     DefaultExecutorConfig(),
	}
}

// NewExecutorWithConfig creates an executor with custom configuration
func NewExecutorWithConfig(
	storageEngine storage.StorageEngine,
	bufferPool *storage.BufferPool,
	config *ExecutorConfig,
) *Executor {
	return &Executor{
		storage:    storageEngine,
		bufferPool: bufferPool,
		statistics: NewExecutionStatistics(),
		config:     config,
	}
}

// Execute executes a query plan and returns results
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan) (*ResultSet, error) {
	// Create execution context
	execCtx := NewExecutionContext(ctx, e.config)
	execCtx.SetStorage(e.storage)
	execCtx.SetBufferPool(e.bufferPool)

	// Build operator tree from the planner's output
	rootOperator, err := e.buildOperatorTree(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to build operator tree: %w", err)
	}

	// Execute query
	startTime := time.Now()
	defer func() {
		e.statistics.RecordQuery(time.Since(startTime))
	}()

	// Open operator tree (initialize resources)
	if err := rootOperator.Open(execCtx); err != nil {
		return nil, fmt.Errorf("failed to open operator: %w", err)
	}
	defer rootOperator.Close()

	// Pull tuples from root operator
	resultSet := NewResultSet()

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Get next tuple
		tuple, err := rootOperator.Next()
		if err != nil {
			return nil, fmt.Errorf("execution error: %w", err)
		}

		if tuple == nil {
			break // No more tuples (EOF)
		}

		resultSet.AddTuple(tuple)

		// Check result size limits
		if resultSet.RowCount() > e.config.BatchSize*100 {
			// Too many results, consider pagination
			break
		}
	}

	return resultSet, nil
}

// buildOperatorTree walks a planner.Plan bottom-up and assembles the
// matching Volcano operator tree.
func (e *Executor) buildOperatorTree(plan *planner.Plan) (PhysicalOperator, error) {
	if plan == nil {
		return nil, fmt.Errorf("cannot build operator from nil plan")
	}

	switch plan.Kind {
	case planner.PlanScan:
		if plan.ScanKind == planner.ScanIndex {
			indexName := indexNameForColumns(plan.Table, plan.IndexColumnNames)
			return NewIndexScanOperator(plan.Table.Name, indexName, plan.Conditions), nil
		}
		return NewSeqScanOperator(plan.Table.Name, plan.Conditions), nil

	case planner.PlanJoin:
		left, err := e.buildOperatorTree(plan.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.buildOperatorTree(plan.Right)
		if err != nil {
			return nil, err
		}
		switch plan.JoinKind {
		case planner.JoinNestLoop:
			return NewNestedLoopJoinOperator(left, right, plan.Conditions, plan.JoinKind), nil
		case planner.JoinSortMerge, planner.JoinSortMergeWithIndex:
			return NewMergeJoinOperator(left, right, plan.Conditions, e.config), nil
		default:
			return nil, fmt.Errorf("unsupported join kind: %v", plan.JoinKind)
		}

	case planner.PlanSort:
		child, err := e.buildOperatorTree(plan.Child)
		if err != nil {
			return nil, err
		}
		return NewSortOperator(child, plan.SortColumn, plan.Descending, e.config), nil

	case planner.PlanAggregation:
		child, err := e.buildOperatorTree(plan.Child)
		if err != nil {
			return nil, err
		}
		agg := NewHashAggregateOperator(child, plan.GroupColumns, plan.OutputColumns, plan.Aggregates)
		if len(plan.HavingConditions) == 0 {
			return agg, nil
		}
		return NewFilterOperator(agg, plan.HavingConditions), nil

	case planner.PlanProjection:
		child, err := e.buildOperatorTree(plan.Child)
		if err != nil {
			return nil, err
		}
		return NewProjectOperator(child, plan.ProjectedColumns), nil

	case planner.PlanDML:
		child, err := e.buildOperatorTree(plan.Child)
		if err != nil {
			return nil, err
		}
		return child, nil

	case planner.PlanDDL:
		return nil, fmt.Errorf("DDL plans are executed outside the operator tree")

	default:
		return nil, fmt.Errorf("unsupported plan kind: %v", plan.Kind)
	}
}

// indexNameForColumns finds the table index whose column list the scan plan
// matched, by comparing leading columns. Returns "" if none match.
func indexNameForColumns(table *catalog.TableMetadata, columns []string) string {
	if table == nil {
		return ""
	}
	for _, idx := range table.Indexes {
		if len(idx.Columns) < len(columns) {
			continue
		}
		match := true
		for i, col := range columns {
			if idx.Columns[i] != col {
				match = false
				break
			}
		}
		if match {
			return idx.Name
		}
	}
	return ""
}

// ExecutionStatistics tracks execution metrics
type ExecutionStatistics struct {
	QueriesExecuted    int64
	TotalExecutionTime time.Duration
	TuplesProduced     int64
	OperatorsCreated   int64
}

// NewExecutionStatistics creates new execution statistics
func NewExecutionStatistics() *ExecutionStatistics {
	return &ExecutionStatistics{}
}

// RecordQuery records query execution
func (s *ExecutionStatistics) RecordQuery(duration time.Duration) {
	s.QueriesExecuted++
	s.TotalExecutionTime += duration
}

// RecordTuples records produced tuples
func (s *ExecutionStatistics) RecordTuples(count int64) {
	s.TuplesProduced += count
}

// RecordOperator records operator creation
func (s *ExecutionStatistics) RecordOperator() {
	s.OperatorsCreated++
}

// String returns string representation
func (s *ExecutionStatistics) String() string {
	avgTime := time.Duration(0)
	if s.QueriesExecuted > 0 {
		avgTime = s.TotalExecutionTime / time.Duration(s.QueriesExecuted)
	}

	return fmt.Sprintf("ExecutionStats{Queries: %d, TotalTime: %v, AvgTime: %v, Tuples: %d, Operators: %d}",
		s.QueriesExecuted, s.TotalExecutionTime, avgTime, s.TuplesProduced, s.OperatorsCreated)
}
