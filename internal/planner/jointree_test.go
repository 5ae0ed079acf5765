package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
)

func newContext(nestedLoop bool) *Context {
	return &Context{Features: EngineFeatures{EnableNestedLoop: nestedLoop}}
}

// S4 — pushdown: SELECT * FROM r, s WHERE r.x = s.y AND r.z > 3.
func TestMakeOneRelPushesLocalPredicateToScan(t *testing.T) {
	r := newTable("r", "x", "z")
	s := newTable("s", "y")

	conditions := []*Condition{
		{LeftColumn: &ColumnRef{Table: "r", Column: "x"}, Operator: OpEqual, RightColumn: &ColumnRef{Table: "s", Column: "y"}},
		cmpCond("r", "z", OpGreaterThan, 3),
	}

	tree, err := makeOneRel(newContext(true), []*catalog.TableMetadata{r, s}, conditions)
	require.NoError(t, err)
	require.Equal(t, PlanJoin, tree.Kind)
	require.Len(t, tree.Conditions, 1)
	require.Equal(t, "r", tree.Conditions[0].LeftColumn.Table)
	require.Equal(t, "s", tree.Conditions[0].RightColumn.Table)

	rScan := tree.Left
	if rScan.Table.Name != "r" {
		rScan = tree.Right
	}
	require.Equal(t, "r", rScan.Table.Name)
	require.Len(t, rScan.Conditions, 1)
	require.Equal(t, "z", rScan.Conditions[0].LeftColumn.Column)
}

// S5 — FROM-order preservation: SELECT * FROM item, stock WHERE s_i_id = i_id
// ORDER BY i_id. item is declared first; the join condition as written names
// stock on the left, so the tree must swap to keep item as the left child.
func TestMakeOneRelPreservesFromOrder(t *testing.T) {
	item := newTable("item", "i_id")
	stock := newTable("stock", "s_i_id")

	conditions := []*Condition{
		{LeftColumn: &ColumnRef{Table: "stock", Column: "s_i_id"}, Operator: OpEqual, RightColumn: &ColumnRef{Table: "item", Column: "i_id"}},
	}

	tree, err := makeOneRel(newContext(true), []*catalog.TableMetadata{item, stock}, conditions)
	require.NoError(t, err)
	require.Equal(t, PlanJoin, tree.Kind)
	require.Equal(t, "item", tree.Left.Table.Name)
	require.Equal(t, "stock", tree.Right.Table.Name)
	require.Len(t, tree.Conditions, 1)
	require.Equal(t, "item", tree.Conditions[0].LeftColumn.Table)
	require.Equal(t, "stock", tree.Conditions[0].RightColumn.Table)
}

// S6 — cartesian closure: SELECT * FROM a, b with no conditions.
func TestMakeOneRelCartesianClosure(t *testing.T) {
	a := newTable("a", "x")
	b := newTable("b", "y")

	tree, err := makeOneRel(newContext(true), []*catalog.TableMetadata{a, b}, nil)
	require.NoError(t, err)
	require.Equal(t, PlanJoin, tree.Kind)
	require.Equal(t, JoinNestLoop, tree.JoinKind)
	require.Empty(t, tree.Conditions)
	require.Equal(t, "a", tree.Left.Table.Name)
	require.Equal(t, "b", tree.Right.Table.Name)
}

func TestMakeOneRelSingleTableReturnsBareScan(t *testing.T) {
	a := newTable("a", "x")
	tree, err := makeOneRel(newContext(true), []*catalog.TableMetadata{a}, []*Condition{eqCond("a", "x", 1)})
	require.NoError(t, err)
	require.Equal(t, PlanScan, tree.Kind)
	require.Len(t, tree.Conditions, 1)
}

func TestMakeOneRelThreeWayChainJoinsRemainingTable(t *testing.T) {
	a := newTable("a", "k")
	b := newTable("b", "k")
	c := newTable("c", "k")

	conditions := []*Condition{
		{LeftColumn: &ColumnRef{Table: "a", Column: "k"}, Operator: OpEqual, RightColumn: &ColumnRef{Table: "b", Column: "k"}},
		{LeftColumn: &ColumnRef{Table: "b", Column: "k"}, Operator: OpEqual, RightColumn: &ColumnRef{Table: "c", Column: "k"}},
	}

	tree, err := makeOneRel(newContext(true), []*catalog.TableMetadata{a, b, c}, conditions)
	require.NoError(t, err)
	require.Equal(t, PlanJoin, tree.Kind)

	var tables []string
	var walk func(*Plan)
	walk = func(p *Plan) {
		if p.Kind == PlanScan {
			tables = append(tables, p.Table.Name)
			return
		}
		walk(p.Left)
		walk(p.Right)
	}
	walk(tree)
	require.ElementsMatch(t, []string{"a", "b", "c"}, tables)
}

func TestJoinKindForRequiresAnEnabledExecutor(t *testing.T) {
	ctx := &Context{Features: EngineFeatures{}}
	left := &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: newTable("a", "x")}
	right := &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: newTable("b", "y")}

	_, err := joinKindFor(ctx, left, right)
	require.Error(t, err)
	require.IsType(t, &EngineConfigError{}, err)
}
