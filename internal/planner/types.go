// Package planner turns a semantically-validated query into a tree of
// physical plan nodes: it matches indexes by leftmost-prefix, pushes
// predicates down to the scans and joins that can evaluate them, and
// assembles the join tree in FROM-clause order.
package planner

import (
	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/parser"
)

// Operator is a comparison operator between a column and its right-hand
// side.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual
)

// Invert returns the operator that holds when both sides of a comparison
// are swapped (< becomes >, <= becomes >=; = and != are self-inverse).
func (op Operator) Invert() Operator {
	switch op {
	case OpLessThan:
		return OpGreaterThan
	case OpGreaterThan:
		return OpLessThan
	case OpLessEqual:
		return OpGreaterEqual
	case OpGreaterEqual:
		return OpLessEqual
	default:
		return op
	}
}

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "<>"
	case OpLessThan:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// ColumnRef names a column by its owning table and its own name.
type ColumnRef struct {
	Table  string
	Column string
}

func (c *ColumnRef) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Table + "." + c.Column
}

// Condition is a single boolean comparison: lhs_col OP rhs, where rhs is
// either a literal value or another column reference.
type Condition struct {
	LeftColumn  *ColumnRef
	Operator    Operator
	IsRHSValue  bool
	RightValue  interface{}
	RightColumn *ColumnRef
}

// IsTableLocal reports whether every column this condition touches belongs
// to the same table.
func (c *Condition) IsTableLocal() bool {
	if c.IsRHSValue {
		return true
	}
	return c.RightColumn != nil && c.RightColumn.Table == c.LeftColumn.Table
}

// swapped returns a copy of c with lhs/rhs exchanged and the operator
// inverted, used when predicate pushdown discovers the left child matched
// the condition's right side.
func (c *Condition) swapped() *Condition {
	return &Condition{
		LeftColumn: c.RightColumn,
		Operator:   c.Operator.Invert(),
		IsRHSValue: false,
		RightColumn: c.LeftColumn,
	}
}

// AggregateExpr is one aggregate output expression (e.g. COUNT(o.id)).
type AggregateExpr struct {
	Func   string
	Column *ColumnRef
	Alias  string
}

// OutputName is the column name an aggregate's value is exposed under
// downstream of the AggregationPlan: its alias if the query gave it one,
// otherwise a synthesized "FUNC(column)" / "FUNC(*)" label.
func (a *AggregateExpr) OutputName() string {
	if a.Alias != "" {
		return a.Alias
	}
	col := "*"
	if a.Column != nil {
		col = a.Column.String()
	}
	return a.Func + "(" + col + ")"
}

// OrderSpec is a single ORDER BY key.
type OrderSpec struct {
	Column     *ColumnRef
	Descending bool
}

// Query is the planner's input: the AST root (used only for top-level
// dispatch), the ordered list of referenced tables, a mutable condition
// list, and the projection/aggregation/ordering specification.
type Query struct {
	Statement  parser.Statement
	Tables     []*catalog.TableMetadata
	Conditions []*Condition

	Projection []*ColumnRef
	Wildcard   bool

	Aggregates []*AggregateExpr
	GroupBy    []*ColumnRef
	Having     []*Condition

	OrderBy *OrderSpec

	// InsertValues / SetClauses / TargetColumns feed the DML leaves that
	// skip scan construction (Insert) or need direct column lists.
	InsertValues  [][]interface{}
	TargetColumns []string
	SetClauses    map[string]interface{}
}

// PlanKind discriminates the Plan variants of §3.
type PlanKind int

const (
	PlanScan PlanKind = iota
	PlanJoin
	PlanSort
	PlanAggregation
	PlanProjection
	PlanDML
	PlanDDL
)

func (k PlanKind) String() string {
	switch k {
	case PlanScan:
		return "Scan"
	case PlanJoin:
		return "Join"
	case PlanSort:
		return "Sort"
	case PlanAggregation:
		return "Aggregation"
	case PlanProjection:
		return "Projection"
	case PlanDML:
		return "DML"
	case PlanDDL:
		return "DDL"
	default:
		return "Unknown"
	}
}

// ScanKind distinguishes a full scan from an index-matched scan.
type ScanKind int

const (
	ScanSeq ScanKind = iota
	ScanIndex
)

func (k ScanKind) String() string {
	if k == ScanIndex {
		return "IndexScan"
	}
	return "SeqScan"
}

// JoinKind is the physical join strategy chosen in §4.2.4 step 3.
type JoinKind int

const (
	JoinNestLoop JoinKind = iota
	JoinSortMerge
	JoinSortMergeWithIndex
)

func (k JoinKind) String() string {
	switch k {
	case JoinNestLoop:
		return "NestLoop"
	case JoinSortMerge:
		return "SortMerge"
	case JoinSortMergeWithIndex:
		return "SortMergeWithIndex"
	default:
		return "Unknown"
	}
}

// DMLKind is the statement kind wrapped by a DMLPlan.
type DMLKind int

const (
	DMLInsert DMLKind = iota
	DMLDelete
	DMLUpdate
	DMLSelect
)

func (k DMLKind) String() string {
	switch k {
	case DMLInsert:
		return "Insert"
	case DMLDelete:
		return "Delete"
	case DMLUpdate:
		return "Update"
	case DMLSelect:
		return "Select"
	default:
		return "Unknown"
	}
}

// DDLKind is the statement kind wrapped by a DDLPlan.
type DDLKind int

const (
	DDLCreateTable DDLKind = iota
	DDLDropTable
	DDLCreateIndex
	DDLDropIndex
	DDLShowIndex
)

func (k DDLKind) String() string {
	switch k {
	case DDLCreateTable:
		return "CreateTable"
	case DDLDropTable:
		return "DropTable"
	case DDLCreateIndex:
		return "CreateIndex"
	case DDLDropIndex:
		return "DropIndex"
	case DDLShowIndex:
		return "ShowIndex"
	default:
		return "Unknown"
	}
}

// Plan is a tagged tree node: the Kind discriminant selects which of the
// kind-specific fields below are meaningful, matching §3's variant list.
type Plan struct {
	Kind PlanKind

	// ScanPlan
	ScanKind         ScanKind
	Table            *catalog.TableMetadata
	IndexColumnNames []string

	// Shared by ScanPlan (local conditions) and JoinPlan (join conditions)
	Conditions []*Condition

	// JoinPlan
	JoinKind    JoinKind
	Left, Right *Plan

	// SortPlan
	SortColumn *ColumnRef
	Descending bool

	// AggregationPlan. OutputColumns are the plain (non-aggregate) projected
	// columns passed through a group unchanged; Aggregates are the COUNT/
	// SUM/AVG/MIN/MAX expressions computed per group, in the order they
	// should be appended after OutputColumns in the executor's output tuple.
	OutputColumns    []*ColumnRef
	Aggregates       []*AggregateExpr
	GroupColumns     []*ColumnRef
	HavingConditions []*Condition

	// ProjectionPlan
	ProjectedColumns []*ColumnRef

	// DMLPlan
	DMLKind       DMLKind
	InsertValues  [][]interface{}
	TargetColumns []string
	SetClauses    map[string]interface{}

	// DDLPlan
	DDLKind     DDLKind
	ColumnNames []string
	ColumnDefs  []*catalog.ColumnMetadata

	// Child is the single subordinate plan for Sort/Aggregation/Projection
	// /DML wrapper nodes.
	Child *Plan

	// cost is a static, non-statistics-driven annotation set on scans and
	// printed by Explain; nothing reads it to choose between plan shapes.
	cost float64
}

// Cost returns the plan's static cost annotation. Presentation only.
func (p *Plan) Cost() float64 {
	return p.cost
}
