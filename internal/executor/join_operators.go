package executor

import (
	"encoding/binary"
	"fmt"

	"github.com/z2z63/DB2024-OSCore/internal/mergesort"
	"github.com/z2z63/DB2024-OSCore/internal/planner"
)

// NestedLoopJoinOperator implements nested loop join. The right side is
// materialized once on Open and replayed per left tuple, since the Volcano
// operators here have no rewind primitive of their own.
type NestedLoopJoinOperator struct {
	leftChild     PhysicalOperator
	rightChild    PhysicalOperator
	joinCond      []*planner.Condition
	joinType      planner.JoinKind
	evaluator     *ExpressionEvaluator
	rightBuffered []*Tuple
	rightPos      int
	currentLeft   *Tuple
	closed        bool
}

// NewNestedLoopJoinOperator creates a new nested loop join operator
func NewNestedLoopJoinOperator(
	left, right PhysicalOperator,
	condition []*planner.Condition,
	joinType planner.JoinKind,
) *NestedLoopJoinOperator {
	return &NestedLoopJoinOperator{
		leftChild:  left,
		rightChild: right,
		joinCond:   condition,
		joinType:   joinType,
		evaluator:  NewExpressionEvaluator(),
		closed:     true,
	}
}

// Open initializes the operator
func (op *NestedLoopJoinOperator) Open(ctx *ExecutionContext) error {
	if !op.closed {
		return nil
	}

	if err := op.leftChild.Open(ctx); err != nil {
		return err
	}

	if err := op.rightChild.Open(ctx); err != nil {
		return err
	}

	op.rightBuffered = op.rightBuffered[:0]
	for {
		t, err := op.rightChild.Next()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
		op.rightBuffered = append(op.rightBuffered, t)
	}

	op.currentLeft = nil
	op.rightPos = 0
	op.closed = false
	return nil
}

// Next returns the next joined tuple
func (op *NestedLoopJoinOperator) Next() (*Tuple, error) {
	if op.closed {
		return nil, ErrOperatorClosed
	}

	for {
		if op.currentLeft == nil {
			left, err := op.leftChild.Next()
			if err != nil {
				return nil, err
			}
			if left == nil {
				return nil, nil // EOF
			}
			op.currentLeft = left
			op.rightPos = 0
		}

		for op.rightPos < len(op.rightBuffered) {
			right := op.rightBuffered[op.rightPos]
			op.rightPos++

			combined := combineTuples(op.currentLeft, right)
			ok, err := op.evaluator.EvaluateConditions(op.joinCond, combined)
			if err != nil {
				return nil, err
			}
			if ok {
				return combined, nil
			}
		}

		op.currentLeft = nil
	}
}

// Close releases resources
func (op *NestedLoopJoinOperator) Close() error {
	if op.closed {
		return nil
	}

	err1 := op.leftChild.Close()
	err2 := op.rightChild.Close()
	op.rightBuffered = nil
	op.closed = true

	if err1 != nil {
		return err1
	}
	return err2
}

// OperatorType returns the operator type
func (op *NestedLoopJoinOperator) OperatorType() string {
	return "NestedLoopJoin"
}

// EstimatedCost returns estimated cost
func (op *NestedLoopJoinOperator) EstimatedCost() float64 {
	return op.leftChild.EstimatedCost() * op.rightChild.EstimatedCost()
}

// MergeJoinOperator implements sort-merge join: both children are
// materialized, each side is ordered on its half of the join's equality
// conditions via internal/mergesort (the same buffered-index technique
// SortOperator uses), and the two sorted streams are walked with a merge
// pointer per side, expanding each tied key group into its cross product.
// Any non-equality conditions in joinCond are re-checked on the combined
// tuple before it is emitted.
type MergeJoinOperator struct {
	leftChild  PhysicalOperator
	rightChild PhysicalOperator
	joinCond   []*planner.Condition
	evaluator  *ExpressionEvaluator
	config     *ExecutorConfig

	equalityConds []*planner.Condition
	leftBuffered  []*Tuple
	rightBuffered []*Tuple
	matches       []*Tuple
	matchPos      int
	closed        bool
}

// NewMergeJoinOperator creates a new merge join operator. config supplies
// the mergesort tuning used to order each side; it may be nil, in which
// case DefaultExecutorConfig's values are used.
func NewMergeJoinOperator(
	left, right PhysicalOperator,
	condition []*planner.Condition,
	config *ExecutorConfig,
) *MergeJoinOperator {
	if config == nil {
		config = DefaultExecutorConfig()
	}
	return &MergeJoinOperator{
		leftChild:  left,
		rightChild: right,
		joinCond:   condition,
		evaluator:  NewExpressionEvaluator(),
		config:     config,
		closed:     true,
	}
}

// equalityConditions filters conds down to the column-vs-column equalities a
// sort-merge join can walk; residual conditions (ranges, literals) are only
// checked after a key match, on the combined tuple.
func equalityConditions(conds []*planner.Condition) []*planner.Condition {
	out := make([]*planner.Condition, 0, len(conds))
	for _, c := range conds {
		if c.Operator == planner.OpEqual && !c.IsRHSValue && c.RightColumn != nil {
			out = append(out, c)
		}
	}
	return out
}

// mergeJoinSortSide is the mergesort.Comparator arg for ordering one side of
// a merge join: it looks up the side's half of each equality condition
// (LeftColumn for the left side, RightColumn for the right) in that side's
// buffered tuples.
type mergeJoinSortSide struct {
	op   *MergeJoinOperator
	left bool
}

func mergeJoinIndexComparator(a, b []byte, arg any) int {
	side := arg.(*mergeJoinSortSide)
	ia := int32(binary.LittleEndian.Uint32(a))
	ib := int32(binary.LittleEndian.Uint32(b))

	buffered := side.op.rightBuffered
	if side.left {
		buffered = side.op.leftBuffered
	}
	ta, tb := buffered[ia], buffered[ib]

	for _, c := range side.op.equalityConds {
		col := c.RightColumn
		if side.left {
			col = c.LeftColumn
		}
		va, err := ta.GetColumn(col.Column)
		if err != nil {
			return 0
		}
		vb, err := tb.GetColumn(col.Column)
		if err != nil {
			return 0
		}
		cmp, err := compareValues(va, vb)
		if err != nil {
			return 0
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

// mergeJoinCompare orders a left-side tuple against a right-side tuple by
// the join's equality key columns.
func mergeJoinCompare(left, right *Tuple, eqConds []*planner.Condition) (int, error) {
	for _, c := range eqConds {
		lv, err := left.GetColumn(c.LeftColumn.Column)
		if err != nil {
			return 0, err
		}
		rv, err := right.GetColumn(c.RightColumn.Column)
		if err != nil {
			return 0, err
		}
		cmp, err := compareValues(lv, rv)
		if err != nil {
			return 0, err
		}
		if cmp != 0 {
			return cmp, nil
		}
	}
	return 0, nil
}

// Open initializes the operator
func (op *MergeJoinOperator) Open(ctx *ExecutionContext) error {
	if !op.closed {
		return nil
	}

	if err := op.leftChild.Open(ctx); err != nil {
		return err
	}

	if err := op.rightChild.Open(ctx); err != nil {
		return err
	}

	op.equalityConds = equalityConditions(op.joinCond)
	if len(op.equalityConds) == 0 {
		return fmt.Errorf("executor: merge join requires at least one equality join condition")
	}

	op.leftBuffered = op.leftBuffered[:0]
	for {
		t, err := op.leftChild.Next()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
		op.leftBuffered = append(op.leftBuffered, t)
	}

	op.rightBuffered = op.rightBuffered[:0]
	for {
		t, err := op.rightChild.Next()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
		op.rightBuffered = append(op.rightBuffered, t)
	}

	leftOrder, err := op.sortSide(true, len(op.leftBuffered))
	if err != nil {
		return err
	}
	rightOrder, err := op.sortSide(false, len(op.rightBuffered))
	if err != nil {
		return err
	}

	op.matches = op.matches[:0]
	if err := op.mergeWalk(leftOrder, rightOrder); err != nil {
		return err
	}

	op.matchPos = 0
	op.closed = false
	return nil
}

// sortSide orders n indices into the named side's buffered slice by the
// join's equality keys, via mergesort over 4-byte index records.
func (op *MergeJoinOperator) sortSide(left bool, n int) ([]int32, error) {
	sorter := mergesort.New(mergesort.Options{
		RecordsPerPage: op.config.MergeSortRecordsPerPage,
		RecordsPerFile: op.config.MergeSortRecordsPerFile,
		RecordSize:     sortRecordSize,
		Comparator:     mergeJoinIndexComparator,
		ComparatorArg:  &mergeJoinSortSide{op: op, left: left},
		Dir:            op.config.MergeSortDir,
	})
	defer sorter.Close()

	record := make([]byte, sortRecordSize)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(record, uint32(i))
		if err := sorter.Write(record); err != nil {
			return nil, err
		}
	}
	if err := sorter.EndWrite(); err != nil {
		return nil, err
	}

	order := make([]int32, 0, n)
	if n == 0 {
		return order, nil
	}
	if err := sorter.BeginRead(); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := sorter.Read(record); err != nil {
			return nil, err
		}
		order = append(order, int32(binary.LittleEndian.Uint32(record)))
	}
	return order, nil
}

// mergeWalk scans the two sorted index orders with a pointer per side,
// expanding each run of equal keys into its cross product and filtering the
// result through every joinCond (equality and residual alike).
func (op *MergeJoinOperator) mergeWalk(leftOrder, rightOrder []int32) error {
	i, j := 0, 0
	for i < len(leftOrder) && j < len(rightOrder) {
		lt := op.leftBuffered[leftOrder[i]]
		rt := op.rightBuffered[rightOrder[j]]

		cmp, err := mergeJoinCompare(lt, rt, op.equalityConds)
		if err != nil {
			return err
		}

		switch {
		case cmp < 0:
			i++
			continue
		case cmp > 0:
			j++
			continue
		}

		iEnd := i
		for iEnd < len(leftOrder) {
			c, err := mergeJoinCompare(op.leftBuffered[leftOrder[iEnd]], rt, op.equalityConds)
			if err != nil {
				return err
			}
			if c != 0 {
				break
			}
			iEnd++
		}

		jEnd := j
		for jEnd < len(rightOrder) {
			c, err := mergeJoinCompare(lt, op.rightBuffered[rightOrder[jEnd]], op.equalityConds)
			if err != nil {
				return err
			}
			if c != 0 {
				break
			}
			jEnd++
		}

		for li := i; li < iEnd; li++ {
			for rj := j; rj < jEnd; rj++ {
				combined := combineTuples(op.leftBuffered[leftOrder[li]], op.rightBuffered[rightOrder[rj]])
				ok, err := op.evaluator.EvaluateConditions(op.joinCond, combined)
				if err != nil {
					return err
				}
				if ok {
					op.matches = append(op.matches, combined)
				}
			}
		}

		i, j = iEnd, jEnd
	}
	return nil
}

// Next returns the next joined tuple
func (op *MergeJoinOperator) Next() (*Tuple, error) {
	if op.closed {
		return nil, ErrOperatorClosed
	}

	if op.matchPos >= len(op.matches) {
		return nil, nil // EOF
	}
	t := op.matches[op.matchPos]
	op.matchPos++
	return t, nil
}

// Close releases resources
func (op *MergeJoinOperator) Close() error {
	if op.closed {
		return nil
	}

	err1 := op.leftChild.Close()
	err2 := op.rightChild.Close()
	op.leftBuffered = nil
	op.rightBuffered = nil
	op.matches = nil
	op.closed = true

	if err1 != nil {
		return err1
	}
	return err2
}

// OperatorType returns the operator type
func (op *MergeJoinOperator) OperatorType() string {
	return "MergeJoin"
}

// EstimatedCost returns estimated cost
func (op *MergeJoinOperator) EstimatedCost() float64 {
	return op.leftChild.EstimatedCost() + op.rightChild.EstimatedCost()
}
