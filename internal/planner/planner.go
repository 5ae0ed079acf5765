package planner

import (
	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/parser"
)

// Plan is the single entry point (do_planner): it dispatches on the AST
// root's kind and returns the physical plan tree implementing it.
func Plan(query *Query, ctx *Context) (*Plan, error) {
	if query == nil || query.Statement == nil {
		return nil, &InternalError{Message: "nil query"}
	}

	switch stmt := query.Statement.(type) {
	case *parser.CreateTableStatement:
		return planCreateTable(stmt), nil

	case *parser.DropTableStatement:
		return planDropTable(stmt), nil

	case *parser.InsertStatement:
		return planInsert(query), nil

	case *parser.UpdateStatement:
		return planUpdate(query, ctx)

	case *parser.DeleteStatement:
		return planDelete(query, ctx)

	case *parser.SelectStatement:
		return planSelect(query, ctx)

	default:
		return nil, &InternalError{Message: "unsupported AST root for planning"}
	}
}

func planCreateTable(stmt *parser.CreateTableStatement) *Plan {
	names := make([]string, 0, len(stmt.Columns))
	for _, col := range stmt.Columns {
		names = append(names, col.Name.Value)
	}
	return &Plan{Kind: PlanDDL, DDLKind: DDLCreateTable, ColumnNames: names}
}

func planDropTable(stmt *parser.DropTableStatement) *Plan {
	return &Plan{Kind: PlanDDL, DDLKind: DDLDropTable}
}

func planInsert(query *Query) *Plan {
	return &Plan{
		Kind:          PlanDML,
		DMLKind:       DMLInsert,
		Table:         query.Tables[0],
		InsertValues:  query.InsertValues,
		TargetColumns: query.TargetColumns,
	}
}

func planUpdate(query *Query, ctx *Context) (*Plan, error) {
	table := query.Tables[0]
	conditions := append([]*Condition(nil), query.Conditions...)
	scan := buildScan(table, &conditions)

	ctx.logger().Debugw("planned update scan", "table", table.Name, "index_scan", scan.ScanKind == ScanIndex)

	return &Plan{
		Kind:       PlanDML,
		DMLKind:    DMLUpdate,
		Table:      table,
		Child:      scan,
		SetClauses: query.SetClauses,
	}, nil
}

func planDelete(query *Query, ctx *Context) (*Plan, error) {
	table := query.Tables[0]
	conditions := append([]*Condition(nil), query.Conditions...)
	scan := buildScan(table, &conditions)

	ctx.logger().Debugw("planned delete scan", "table", table.Name, "index_scan", scan.ScanKind == ScanIndex)

	return &Plan{
		Kind:    PlanDML,
		DMLKind: DMLDelete,
		Table:   table,
		Child:   scan,
	}, nil
}

func planSelect(query *Query, ctx *Context) (*Plan, error) {
	tree, err := makeOneRel(ctx, query.Tables, query.Conditions)
	if err != nil {
		ctx.logger().Errorw("join tree construction failed", "error", err)
		return nil, err
	}

	tree = generateAggregationGroupPlan(tree, query)

	tree, err = generateSortPlan(tree, query)
	if err != nil {
		ctx.logger().Errorw("sort column resolution failed", "error", err)
		return nil, err
	}

	projection := &Plan{
		Kind:             PlanProjection,
		Child:            tree,
		ProjectedColumns: append(append([]*ColumnRef(nil), query.Projection...), aggregateOutputColumns(query.Aggregates)...),
	}

	return &Plan{Kind: PlanDML, DMLKind: DMLSelect, Child: projection}, nil
}

// aggregateOutputColumns builds the ColumnRefs the final projection needs to
// pass an AggregationPlan's computed aggregate values through unfiltered;
// without these, COUNT/SUM/... values the aggregation step produced would be
// dropped by the projection immediately above it.
func aggregateOutputColumns(aggregates []*AggregateExpr) []*ColumnRef {
	cols := make([]*ColumnRef, len(aggregates))
	for i, agg := range aggregates {
		cols[i] = &ColumnRef{Column: agg.OutputName()}
	}
	return cols
}

// generateAggregationGroupPlan wraps child in an AggregationPlan when the
// query has an aggregate or a GROUP BY; otherwise it passes child through
// unchanged.
func generateAggregationGroupPlan(child *Plan, query *Query) *Plan {
	if len(query.Aggregates) == 0 && len(query.GroupBy) == 0 {
		return child
	}
	return &Plan{
		Kind:             PlanAggregation,
		Child:            child,
		OutputColumns:    query.Projection,
		Aggregates:       query.Aggregates,
		GroupColumns:     query.GroupBy,
		HavingConditions: query.Having,
	}
}

// generateSortPlan wraps child in a SortPlan when the query has an ORDER
// BY, resolving the order column's fully-qualified identity across every
// selected table's schema.
func generateSortPlan(child *Plan, query *Query) (*Plan, error) {
	if query.OrderBy == nil {
		return child, nil
	}

	resolved, err := resolveOrderColumn(query.Tables, query.OrderBy.Column)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Kind:       PlanSort,
		Child:      child,
		SortColumn: resolved,
		Descending: query.OrderBy.Descending,
	}, nil
}

func resolveOrderColumn(tables []*catalog.TableMetadata, col *ColumnRef) (*ColumnRef, error) {
	if col.Table != "" {
		return col, nil
	}

	var match string
	count := 0
	for _, t := range tables {
		if t.HasColumn(col.Column) {
			match = t.Name
			count++
		}
	}

	switch count {
	case 0:
		return nil, &UnknownColumnError{Column: col.Column}
	case 1:
		return &ColumnRef{Table: match, Column: col.Column}, nil
	default:
		return nil, &AmbiguousColumnError{Column: col.Column}
	}
}
