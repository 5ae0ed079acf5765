package executor

import (
	"encoding/binary"
	"fmt"

	"github.com/z2z63/DB2024-OSCore/internal/mergesort"
	"github.com/z2z63/DB2024-OSCore/internal/planner"
)

// HashAggregateOperator implements hash-based aggregation
type HashAggregateOperator struct {
	child         PhysicalOperator
	groupByKeys   []*planner.ColumnRef
	outputColumns []*planner.ColumnRef
	aggregates    []*planner.AggregateExpr
	hashTable     map[string]*aggregateGroup
	order         []string
	iterPos       int
	schema        *TupleSchema
	closed        bool
}

// aggregateGroup pairs a group's key values with its per-output-column
// running aggregate state and one running AggregateState per aggregate
// expression, in aggregates order.
type aggregateGroup struct {
	keyValues []interface{}
	states    map[string]*AggregateState
	aggStates []*AggregateState
}

// NewHashAggregateOperator creates a new hash aggregate operator.
// aggregates carries the COUNT/SUM/AVG/MIN/MAX expressions the planner
// parsed off the SELECT list; outputColumns are the plain (non-aggregate)
// columns passed through a group unchanged.
func NewHashAggregateOperator(
	child PhysicalOperator,
	groupByKeys []*planner.ColumnRef,
	outputColumns []*planner.ColumnRef,
	aggregates []*planner.AggregateExpr,
) *HashAggregateOperator {
	return &HashAggregateOperator{
		child:         child,
		groupByKeys:   groupByKeys,
		outputColumns: outputColumns,
		aggregates:    aggregates,
		closed:        true,
	}
}

// groupKey builds a string key from a tuple's group-by column values.
func groupKey(tuple *Tuple, keys []*planner.ColumnRef) (string, []interface{}, error) {
	values := make([]interface{}, len(keys))
	key := ""
	for i, k := range keys {
		v, err := tuple.GetColumn(k.Column)
		if err != nil {
			return "", nil, err
		}
		values[i] = v
		key += fmt.Sprintf("%v\x1f", v)
	}
	return key, values, nil
}

// Open initializes the operator
func (op *HashAggregateOperator) Open(ctx *ExecutionContext) error {
	if !op.closed {
		return nil
	}

	if err := op.child.Open(ctx); err != nil {
		return err
	}

	op.hashTable = make(map[string]*aggregateGroup)
	op.order = op.order[:0]

	for {
		tuple, err := op.child.Next()
		if err != nil {
			return err
		}
		if tuple == nil {
			break
		}

		key, keyValues, err := groupKey(tuple, op.groupByKeys)
		if err != nil {
			return err
		}

		group, ok := op.hashTable[key]
		if !ok {
			group = &aggregateGroup{
				keyValues: keyValues,
				states:    make(map[string]*AggregateState),
				aggStates: make([]*AggregateState, len(op.aggregates)),
			}
			op.hashTable[key] = group
			op.order = append(op.order, key)
		}

		for _, col := range op.outputColumns {
			state, ok := group.states[col.Column]
			if !ok {
				state = NewAggregateState()
				group.states[col.Column] = state
			}
			v, err := tuple.GetColumn(col.Column)
			if err != nil {
				return err
			}
			state.Update(v)
		}

		for i, agg := range op.aggregates {
			if group.aggStates[i] == nil {
				group.aggStates[i] = NewAggregateState()
			}
			var v interface{}
			if agg.Column != nil {
				v, err = tuple.GetColumn(agg.Column.Column)
				if err != nil {
					return err
				}
			}
			group.aggStates[i].Update(v)
		}
	}

	op.schema = aggregationOutputSchema(op.outputColumns, op.aggregates)
	op.iterPos = 0
	op.closed = false
	return nil
}

// Next returns the next aggregated tuple
func (op *HashAggregateOperator) Next() (*Tuple, error) {
	if op.closed {
		return nil, ErrOperatorClosed
	}

	if op.iterPos >= len(op.order) {
		return nil, nil // EOF
	}

	key := op.order[op.iterPos]
	op.iterPos++
	group := op.hashTable[key]

	values := make([]interface{}, 0, len(op.outputColumns)+len(op.aggregates))
	for _, col := range op.outputColumns {
		state, ok := group.states[col.Column]
		if !ok {
			values = append(values, nil)
			continue
		}
		values = append(values, state.Finalize(""))
	}
	for i, agg := range op.aggregates {
		if group.aggStates[i] == nil {
			values = append(values, nil)
			continue
		}
		values = append(values, group.aggStates[i].Finalize(agg.Func))
	}

	return NewTuple(op.schema, values), nil
}

// Close releases resources
func (op *HashAggregateOperator) Close() error {
	if op.closed {
		return nil
	}

	err := op.child.Close()
	op.hashTable = nil
	op.closed = true
	return err
}

// OperatorType returns the operator type
func (op *HashAggregateOperator) OperatorType() string {
	return "HashAggregate"
}

// EstimatedCost returns estimated cost
func (op *HashAggregateOperator) EstimatedCost() float64 {
	return op.child.EstimatedCost()
}

// aggregationOutputSchema builds the tuple schema an aggregation operator's
// output rows conform to: the plain output columns first, then one column
// per aggregate expression named by its OutputName.
func aggregationOutputSchema(outputColumns []*planner.ColumnRef, aggregates []*planner.AggregateExpr) *TupleSchema {
	cols := make([]ColumnInfo, 0, len(outputColumns)+len(aggregates))
	for _, col := range outputColumns {
		cols = append(cols, ColumnInfo{Name: col.Column, TableName: col.Table})
	}
	for _, agg := range aggregates {
		cols = append(cols, ColumnInfo{Name: agg.OutputName(), Type: TypeDouble})
	}
	return NewTupleSchema(cols)
}

// SortAggregateOperator implements sort-based aggregation: it assumes its
// child already produces tuples ordered by groupByKeys and folds each run of
// equal keys as it is consumed, without buffering the whole input.
type SortAggregateOperator struct {
	child         PhysicalOperator
	groupByKeys   []*planner.ColumnRef
	outputColumns []*planner.ColumnRef
	aggregates    []*planner.AggregateExpr
	schema        *TupleSchema
	pending       *Tuple
	closed        bool
}

// NewSortAggregateOperator creates a new sort aggregate operator
func NewSortAggregateOperator(
	child PhysicalOperator,
	groupByKeys []*planner.ColumnRef,
	outputColumns []*planner.ColumnRef,
	aggregates []*planner.AggregateExpr,
) *SortAggregateOperator {
	return &SortAggregateOperator{
		child:         child,
		groupByKeys:   groupByKeys,
		outputColumns: outputColumns,
		aggregates:    aggregates,
		closed:        true,
	}
}

// Open initializes the operator
func (op *SortAggregateOperator) Open(ctx *ExecutionContext) error {
	if !op.closed {
		return nil
	}

	if err := op.child.Open(ctx); err != nil {
		return err
	}

	op.schema = aggregationOutputSchema(op.outputColumns, op.aggregates)
	op.pending = nil
	op.closed = false
	return nil
}

// Next folds and returns the next group's aggregated tuple
func (op *SortAggregateOperator) Next() (*Tuple, error) {
	if op.closed {
		return nil, ErrOperatorClosed
	}

	tuple := op.pending
	op.pending = nil
	if tuple == nil {
		var err error
		tuple, err = op.child.Next()
		if err != nil {
			return nil, err
		}
		if tuple == nil {
			return nil, nil // EOF
		}
	}

	key, _, err := groupKey(tuple, op.groupByKeys)
	if err != nil {
		return nil, err
	}

	states := make(map[string]*AggregateState, len(op.outputColumns))
	for _, col := range op.outputColumns {
		state := NewAggregateState()
		v, err := tuple.GetColumn(col.Column)
		if err != nil {
			return nil, err
		}
		state.Update(v)
		states[col.Column] = state
	}

	aggStates := make([]*AggregateState, len(op.aggregates))
	for i, agg := range op.aggregates {
		aggStates[i] = NewAggregateState()
		var v interface{}
		if agg.Column != nil {
			var err error
			v, err = tuple.GetColumn(agg.Column.Column)
			if err != nil {
				return nil, err
			}
		}
		aggStates[i].Update(v)
	}

	for {
		next, err := op.child.Next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		nextKey, _, err := groupKey(next, op.groupByKeys)
		if err != nil {
			return nil, err
		}
		if nextKey != key {
			op.pending = next
			break
		}
		for _, col := range op.outputColumns {
			v, err := next.GetColumn(col.Column)
			if err != nil {
				return nil, err
			}
			states[col.Column].Update(v)
		}
		for i, agg := range op.aggregates {
			var v interface{}
			if agg.Column != nil {
				v, err = next.GetColumn(agg.Column.Column)
				if err != nil {
					return nil, err
				}
			}
			aggStates[i].Update(v)
		}
	}

	values := make([]interface{}, 0, len(op.outputColumns)+len(op.aggregates))
	for _, col := range op.outputColumns {
		values = append(values, states[col.Column].Finalize(""))
	}
	for i, agg := range op.aggregates {
		values = append(values, aggStates[i].Finalize(agg.Func))
	}
	return NewTuple(op.schema, values), nil
}

// Close releases resources
func (op *SortAggregateOperator) Close() error {
	if op.closed {
		return nil
	}

	err := op.child.Close()
	op.pending = nil
	op.closed = true
	return err
}

// OperatorType returns the operator type
func (op *SortAggregateOperator) OperatorType() string {
	return "SortAggregate"
}

// EstimatedCost returns estimated cost
func (op *SortAggregateOperator) EstimatedCost() float64 {
	return op.child.EstimatedCost()
}

// sortRecordSize is the width of a run-file record when sorting tuple
// indices: one little-endian int32 per record. Tuples themselves are
// variable-width, so the sorter only ever orders indices into sortBuffered.
const sortRecordSize = 4

// SortOperator implements external merge sort over its child's output. Since
// tuples are not fixed-width, it buffers them in memory and asks mergesort
// to order 4-byte indices into that buffer rather than the tuples
// themselves; the comparator decodes two indices, looks up the
// corresponding tuples, and compares their sort column.
type SortOperator struct {
	child      PhysicalOperator
	sortColumn *planner.ColumnRef
	descending bool
	config     *ExecutorConfig

	buffered   []*Tuple
	sorter     *mergesort.Sorter
	remaining  int
	currentPos int
	closed     bool
}

// NewSortOperator creates a new sort operator. config supplies the
// mergesort tuning (records per page/file, working directory); it may be
// nil, in which case DefaultExecutorConfig's values are used.
func NewSortOperator(child PhysicalOperator, sortColumn *planner.ColumnRef, descending bool, config *ExecutorConfig) *SortOperator {
	if config == nil {
		config = DefaultExecutorConfig()
	}
	return &SortOperator{
		child:      child,
		sortColumn: sortColumn,
		descending: descending,
		config:     config,
		closed:     true,
	}
}

// sortIndexComparator orders two 4-byte index records by looking up the
// tuples they refer to in so.buffered and comparing the configured sort
// column.
func sortIndexComparator(a, b []byte, arg any) int {
	so := arg.(*SortOperator)
	ia := int32(binary.LittleEndian.Uint32(a))
	ib := int32(binary.LittleEndian.Uint32(b))

	left, err := so.buffered[ia].GetColumn(so.sortColumn.Column)
	if err != nil {
		return 0
	}
	right, err := so.buffered[ib].GetColumn(so.sortColumn.Column)
	if err != nil {
		return 0
	}

	cmp, err := compareValues(left, right)
	if err != nil {
		return 0
	}
	if so.descending {
		cmp = -cmp
	}
	return cmp
}

// Open initializes the operator
func (op *SortOperator) Open(ctx *ExecutionContext) error {
	if !op.closed {
		return nil
	}

	if err := op.child.Open(ctx); err != nil {
		return err
	}

	op.buffered = op.buffered[:0]
	for {
		tuple, err := op.child.Next()
		if err != nil {
			return err
		}
		if tuple == nil {
			break
		}
		op.buffered = append(op.buffered, tuple)
	}

	op.sorter = mergesort.New(mergesort.Options{
		RecordsPerPage: op.config.MergeSortRecordsPerPage,
		RecordsPerFile: op.config.MergeSortRecordsPerFile,
		RecordSize:     sortRecordSize,
		Comparator:     sortIndexComparator,
		ComparatorArg:  op,
		Dir:            op.config.MergeSortDir,
	})

	record := make([]byte, sortRecordSize)
	for i := range op.buffered {
		binary.LittleEndian.PutUint32(record, uint32(i))
		if err := op.sorter.Write(record); err != nil {
			return err
		}
	}
	if err := op.sorter.EndWrite(); err != nil {
		return err
	}

	op.remaining = len(op.buffered)
	if op.remaining > 0 {
		if err := op.sorter.BeginRead(); err != nil {
			return err
		}
	}

	op.currentPos = 0
	op.closed = false
	return nil
}

// Next returns the next sorted tuple
func (op *SortOperator) Next() (*Tuple, error) {
	if op.closed {
		return nil, ErrOperatorClosed
	}

	if op.currentPos >= op.remaining {
		return nil, nil // EOF
	}

	record := make([]byte, sortRecordSize)
	if err := op.sorter.Read(record); err != nil {
		return nil, err
	}
	op.currentPos++

	idx := int32(binary.LittleEndian.Uint32(record))
	return op.buffered[idx], nil
}

// Close releases resources
func (op *SortOperator) Close() error {
	if op.closed {
		return nil
	}

	err := op.child.Close()
	if op.sorter != nil {
		op.sorter.Close()
		op.sorter = nil
	}
	op.buffered = nil
	op.closed = true
	return err
}

// OperatorType returns the operator type
func (op *SortOperator) OperatorType() string {
	return "Sort"
}

// EstimatedCost returns estimated cost
func (op *SortOperator) EstimatedCost() float64 {
	// O(n log n) sorting cost
	return op.child.EstimatedCost() * 1.5
}

// AggregateState holds the state for aggregate computations
type AggregateState struct {
	Count  int64
	Sum    float64
	Min    interface{}
	Max    interface{}
	Values []interface{} // For functions like AVG that need multiple values
}

// NewAggregateState creates a new aggregate state
func NewAggregateState() *AggregateState {
	return &AggregateState{
		Values: make([]interface{}, 0),
	}
}

// Update updates the aggregate state with a new value
func (as *AggregateState) Update(value interface{}) {
	as.Count++
	as.Values = append(as.Values, value)

	if f, err := toFloat(value); err == nil {
		as.Sum += f
		if as.Min == nil || f < mustFloat(as.Min) {
			as.Min = f
		}
		if as.Max == nil || f > mustFloat(as.Max) {
			as.Max = f
		}
	}
}

// Finalize computes final aggregate value. aggType is one of COUNT, SUM,
// AVG, MIN, MAX; an empty (or any other) aggType returns the last value
// passed to Update, or nil if there was none, which is how
// HashAggregateOperator/SortAggregateOperator emit the plain grouped
// columns.
func (as *AggregateState) Finalize(aggType string) interface{} {
	switch aggType {
	case "COUNT":
		return as.Count
	case "SUM":
		return as.Sum
	case "AVG":
		if as.Count > 0 {
			return as.Sum / float64(as.Count)
		}
		return nil
	case "MIN":
		return as.Min
	case "MAX":
		return as.Max
	default:
		if len(as.Values) > 0 {
			return as.Values[len(as.Values)-1]
		}
		return nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("executor: value %v is not numeric", v)
	}
}

func mustFloat(v interface{}) float64 {
	f, _ := toFloat(v)
	return f
}
