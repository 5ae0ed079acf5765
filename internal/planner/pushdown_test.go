package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushCondsAttachesToJoinWhenBothSidesMatch(t *testing.T) {
	r := newTable("r", "x", "z")
	s := newTable("s", "y")

	join := &Plan{
		Kind:     PlanJoin,
		JoinKind: JoinNestLoop,
		Left:     &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: r},
		Right:    &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: s},
	}

	cond := &Condition{
		LeftColumn:  &ColumnRef{Table: "r", Column: "x"},
		Operator:    OpEqual,
		RightColumn: &ColumnRef{Table: "s", Column: "y"},
	}

	result := pushConds(join, cond)
	require.Equal(t, pushAttached, result)
	require.Len(t, join.Conditions, 1)
	require.Equal(t, "r", join.Conditions[0].LeftColumn.Table)
	require.Equal(t, "s", join.Conditions[0].RightColumn.Table)
}

func TestPushCondsSwapsWhenMatchIsReversed(t *testing.T) {
	r := newTable("r", "x")
	s := newTable("s", "y")

	join := &Plan{
		Kind:     PlanJoin,
		JoinKind: JoinNestLoop,
		Left:     &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: s},
		Right:    &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: r},
	}

	cond := &Condition{
		LeftColumn:  &ColumnRef{Table: "r", Column: "x"},
		Operator:    OpLessThan,
		RightColumn: &ColumnRef{Table: "s", Column: "y"},
	}

	result := pushConds(join, cond)
	require.Equal(t, pushAttached, result)
	require.Len(t, join.Conditions, 1)

	attached := join.Conditions[0]
	require.Equal(t, "s", attached.LeftColumn.Table)
	require.Equal(t, "r", attached.RightColumn.Table)
	require.Equal(t, OpGreaterThan, attached.Operator)
}

func TestPushCondsNoMatchWhenNeitherSidePresent(t *testing.T) {
	r := newTable("r", "x")
	join := &Plan{Kind: PlanScan, ScanKind: ScanSeq, Table: r}

	cond := &Condition{
		LeftColumn:  &ColumnRef{Table: "q", Column: "w"},
		Operator:    OpEqual,
		RightColumn: &ColumnRef{Table: "p", Column: "v"},
	}

	require.Equal(t, pushNoMatch, pushConds(join, cond))
}

func TestConditionSwappedInvertsOperator(t *testing.T) {
	cond := &Condition{
		LeftColumn:  &ColumnRef{Table: "a", Column: "x"},
		Operator:    OpLessThan,
		RightColumn: &ColumnRef{Table: "b", Column: "y"},
	}
	swapped := cond.swapped()
	require.Equal(t, "b", swapped.LeftColumn.Table)
	require.Equal(t, "a", swapped.RightColumn.Table)
	require.Equal(t, OpGreaterThan, swapped.Operator)
}
