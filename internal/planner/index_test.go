package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
)

func newTable(name string, columns ...string) *catalog.TableMetadata {
	t := catalog.NewTableMetadata(name)
	for _, c := range columns {
		t.AddColumn(catalog.NewColumnMetadata(c, catalog.DataTypeInteger))
	}
	return t
}

func eqCond(table, column string, value interface{}) *Condition {
	return &Condition{LeftColumn: &ColumnRef{Table: table, Column: column}, Operator: OpEqual, IsRHSValue: true, RightValue: value}
}

func cmpCond(table, column string, op Operator, value interface{}) *Condition {
	return &Condition{LeftColumn: &ColumnRef{Table: table, Column: column}, Operator: op, IsRHSValue: true, RightValue: value}
}

// S3 — index leftmost match.
func TestMatchIndexLeftmostPrefix(t *testing.T) {
	table := newTable("t", "a", "b", "c")
	table.AddIndex(&catalog.IndexMetadata{Name: "idx_abc", Columns: []string{"a", "b", "c"}})

	conditions := []*Condition{
		cmpCond("t", "b", OpEqual, 1),
		cmpCond("t", "a", OpEqual, 2),
		cmpCond("t", "c", OpGreaterThan, 0),
	}

	idx, score := matchIndex(table, conditions)
	require.NotNil(t, idx)
	require.Equal(t, "idx_abc", idx.Name)
	require.Equal(t, 3, score)

	reordered := reorderForIndex(conditions, idx)
	require.Len(t, reordered, 3)
	require.Equal(t, "a", reordered[0].LeftColumn.Column)
	require.Equal(t, "b", reordered[1].LeftColumn.Column)
	require.Equal(t, "c", reordered[2].LeftColumn.Column)
}

// Property 2 — ties resolve to the earliest-declared index.
func TestMatchIndexTieBreaksToEarliestDeclared(t *testing.T) {
	table := newTable("t", "a", "b")
	table.AddIndex(&catalog.IndexMetadata{Name: "idx_a", Columns: []string{"a"}})
	table.AddIndex(&catalog.IndexMetadata{Name: "idx_b", Columns: []string{"b"}})

	conditions := []*Condition{eqCond("t", "a", 1), eqCond("t", "b", 2)}

	idx, score := matchIndex(table, conditions)
	require.NotNil(t, idx)
	require.Equal(t, "idx_a", idx.Name)
	require.Equal(t, 1, score)
}

func TestMatchIndexRangeColumnTerminatesPrefix(t *testing.T) {
	table := newTable("t", "a", "b", "c")
	table.AddIndex(&catalog.IndexMetadata{Name: "idx_abc", Columns: []string{"a", "b", "c"}})

	conditions := []*Condition{
		eqCond("t", "a", 1),
		cmpCond("t", "b", OpGreaterThan, 5),
		eqCond("t", "c", 9),
	}

	idx, score := matchIndex(table, conditions)
	require.NotNil(t, idx)
	require.Equal(t, 2, score)
}

func TestMatchIndexNoUsableColumnScoresZero(t *testing.T) {
	table := newTable("t", "a", "b")
	table.AddIndex(&catalog.IndexMetadata{Name: "idx_b", Columns: []string{"b"}})

	conditions := []*Condition{eqCond("t", "a", 1)}

	idx, score := matchIndex(table, conditions)
	require.Nil(t, idx)
	require.Equal(t, 0, score)
}

func TestPopCondsSplitsLocalFromForeign(t *testing.T) {
	conditions := []*Condition{
		eqCond("r", "z", 3),
		{LeftColumn: &ColumnRef{Table: "r", Column: "x"}, Operator: OpEqual, RightColumn: &ColumnRef{Table: "s", Column: "y"}},
	}

	popped := popConds(&conditions, "r")
	require.Len(t, popped, 1)
	require.Equal(t, "z", popped[0].LeftColumn.Column)
	require.Len(t, conditions, 1)
	require.Equal(t, "x", conditions[0].LeftColumn.Column)
}
