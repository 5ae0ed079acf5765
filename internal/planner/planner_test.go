package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/lexer"
	"github.com/z2z63/DB2024-OSCore/internal/parser"
)

func ident(name string) *parser.Identifier {
	return &parser.Identifier{Value: name}
}

func colRef(table, column string) *parser.ColumnReference {
	var tbl *parser.Identifier
	if table != "" {
		tbl = ident(table)
	}
	return &parser.ColumnReference{Table: tbl, Column: ident(column)}
}

func intLit(v int64) *parser.Literal {
	return &parser.Literal{Value: v, Type: lexer.NUMBER}
}

func TestBuildQuerySelectFlattensWhereConjunction(t *testing.T) {
	stmt := &parser.SelectStatement{
		SelectClause: &parser.SelectClause{Columns: []parser.Expression{&parser.Wildcard{}}},
		FromClause:   &parser.FromClause{Tables: []parser.Expression{ident("t")}},
		WhereClause: &parser.WhereClause{Condition: &parser.BinaryExpression{
			Left: &parser.BinaryExpression{
				Left:     colRef("t", "a"),
				Operator: parser.Equal,
				Right:    intLit(2),
			},
			Operator: parser.And,
			Right: &parser.BinaryExpression{
				Left:     colRef("t", "c"),
				Operator: parser.GreaterThan,
				Right:    intLit(0),
			},
		}},
	}

	table := newTable("t", "a", "b", "c")
	q, err := BuildQuery(stmt, []*catalog.TableMetadata{table})
	require.NoError(t, err)
	require.True(t, q.Wildcard)
	require.Len(t, q.Conditions, 2)
	require.Equal(t, "a", q.Conditions[0].LeftColumn.Column)
	require.Equal(t, OpEqual, q.Conditions[0].Operator)
	require.Equal(t, "c", q.Conditions[1].LeftColumn.Column)
	require.Equal(t, OpGreaterThan, q.Conditions[1].Operator)
}

func TestBuildQueryInsertCollectsValuesAndColumns(t *testing.T) {
	stmt := &parser.InsertStatement{
		TableName: ident("t"),
		Columns:   []*parser.Identifier{ident("a"), ident("b")},
		Values:    [][]parser.Expression{{intLit(1), intLit(2)}},
	}

	q, err := BuildQuery(stmt, []*catalog.TableMetadata{newTable("t", "a", "b")})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, q.TargetColumns)
	require.Equal(t, [][]interface{}{{int64(1), int64(2)}}, q.InsertValues)
}

func TestBuildQueryUpdateCollectsSetClauses(t *testing.T) {
	stmt := &parser.UpdateStatement{
		TableName: ident("t"),
		SetClauses: []*parser.SetClause{
			{Column: ident("a"), Value: intLit(9)},
		},
		WhereClause: &parser.WhereClause{Condition: &parser.BinaryExpression{
			Left:     colRef("t", "b"),
			Operator: parser.Equal,
			Right:    intLit(1),
		}},
	}

	q, err := BuildQuery(stmt, []*catalog.TableMetadata{newTable("t", "a", "b")})
	require.NoError(t, err)
	require.Equal(t, int64(9), q.SetClauses["a"])
	require.Len(t, q.Conditions, 1)
}

func TestPlanSelectEndToEndOverIndexedTable(t *testing.T) {
	table := newTable("t", "a", "b", "c")
	table.AddIndex(&catalog.IndexMetadata{Name: "idx_abc", Columns: []string{"a", "b", "c"}})

	stmt := &parser.SelectStatement{
		SelectClause: &parser.SelectClause{Columns: []parser.Expression{&parser.Wildcard{}}},
		FromClause:   &parser.FromClause{Tables: []parser.Expression{ident("t")}},
		WhereClause: &parser.WhereClause{Condition: &parser.BinaryExpression{
			Left: &parser.BinaryExpression{
				Left:     colRef("t", "b"),
				Operator: parser.Equal,
				Right:    intLit(1),
			},
			Operator: parser.And,
			Right: &parser.BinaryExpression{
				Left:     colRef("t", "a"),
				Operator: parser.Equal,
				Right:    intLit(2),
			},
		}},
	}

	q, err := BuildQuery(stmt, []*catalog.TableMetadata{table})
	require.NoError(t, err)

	ctx := &Context{Features: EngineFeatures{EnableNestedLoop: true}}
	plan, err := Plan(q, ctx)
	require.NoError(t, err)
	require.Equal(t, PlanDML, plan.Kind)
	require.Equal(t, DMLSelect, plan.DMLKind)

	scan := plan.Child.Child
	require.Equal(t, PlanScan, scan.Kind)
	require.Equal(t, ScanIndex, scan.ScanKind)
	require.Equal(t, []string{"a", "b", "c"}, scan.IndexColumnNames)
	require.Equal(t, "a", scan.Conditions[0].LeftColumn.Column)
}

func TestPlanDeleteBuildsScanChild(t *testing.T) {
	table := newTable("t", "a")
	stmt := &parser.DeleteStatement{
		TableName:   ident("t"),
		WhereClause: &parser.WhereClause{Condition: &parser.BinaryExpression{Left: colRef("t", "a"), Operator: parser.Equal, Right: intLit(5)}},
	}
	q, err := BuildQuery(stmt, []*catalog.TableMetadata{table})
	require.NoError(t, err)

	ctx := &Context{Features: EngineFeatures{EnableNestedLoop: true}}
	plan, err := Plan(q, ctx)
	require.NoError(t, err)
	require.Equal(t, DMLDelete, plan.DMLKind)
	require.Equal(t, PlanScan, plan.Child.Kind)
}

func TestPlanRejectsUnsupportedStatement(t *testing.T) {
	_, err := Plan(&Query{Statement: nil}, &Context{})
	require.Error(t, err)
	require.IsType(t, &InternalError{}, err)
}

func TestResolveOrderColumnDetectsAmbiguity(t *testing.T) {
	a := newTable("a", "id")
	b := newTable("b", "id")

	_, err := resolveOrderColumn([]*catalog.TableMetadata{a, b}, &ColumnRef{Column: "id"})
	require.Error(t, err)
	require.IsType(t, &AmbiguousColumnError{}, err)
}

func TestResolveOrderColumnQualifiesUnambiguousColumn(t *testing.T) {
	a := newTable("a", "id")
	b := newTable("b", "other")

	resolved, err := resolveOrderColumn([]*catalog.TableMetadata{a, b}, &ColumnRef{Column: "other"})
	require.NoError(t, err)
	require.Equal(t, "b", resolved.Table)
}

func TestFingerprintMatchesStructurallyIdenticalScans(t *testing.T) {
	buildScanPlan := func(tableName string) *Plan {
		table := newTable(tableName, "a", "b")
		stmt := &parser.SelectStatement{
			SelectClause: &parser.SelectClause{Columns: []parser.Expression{&parser.Wildcard{}}},
			FromClause:   &parser.FromClause{Tables: []parser.Expression{ident(tableName)}},
			WhereClause: &parser.WhereClause{Condition: &parser.BinaryExpression{
				Left:     colRef(tableName, "a"),
				Operator: parser.Equal,
				Right:    intLit(1),
			}},
		}
		q, err := BuildQuery(stmt, []*catalog.TableMetadata{table})
		require.NoError(t, err)

		ctx := &Context{Features: EngineFeatures{EnableNestedLoop: true}}
		plan, err := Plan(q, ctx)
		require.NoError(t, err)
		return plan.Child.Child // DML -> Projection -> Scan
	}

	a1 := buildScanPlan("t")
	a2 := buildScanPlan("t")
	require.Equal(t, PlanScan, a1.Kind)

	fp1, err := a1.fingerprint()
	require.NoError(t, err)
	fp2, err := a2.fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2, "two plans built from the same query shape should fingerprint identically")

	other := buildScanPlan("u")
	fpOther, err := other.fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fp1, fpOther, "plans scanning different tables should fingerprint differently")
}

func TestExplainRendersJoinTree(t *testing.T) {
	a := newTable("a", "x")
	b := newTable("b", "y")

	tree, err := makeOneRel(newContext(true), []*catalog.TableMetadata{a, b}, nil)
	require.NoError(t, err)

	out := tree.Explain()
	require.Contains(t, out, "NestLoop")
	require.Contains(t, out, "SeqScan(a)")
	require.Contains(t, out, "SeqScan(b)")
}
