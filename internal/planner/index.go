package planner

import "github.com/z2z63/DB2024-OSCore/internal/catalog"

// matchIndex implements leftmost-prefix index selection (§4.2.1) over the
// conditions already known to be local to table. It returns the
// highest-scoring index (first declared wins ties) and its score, or a nil
// index if no index scores at least 1.
func matchIndex(table *catalog.TableMetadata, conditions []*Condition) (*catalog.IndexMetadata, int) {
	eqCols := make(map[string]bool)
	neqCols := make(map[string]bool)

	for _, cond := range conditions {
		if cond.LeftColumn.Table != table.Name {
			continue
		}
		if cond.Operator == OpEqual {
			eqCols[cond.LeftColumn.Column] = true
		} else if !eqCols[cond.LeftColumn.Column] {
			neqCols[cond.LeftColumn.Column] = true
		}
	}

	var best *catalog.IndexMetadata
	bestScore := 0

	for _, idx := range table.Indexes {
		score := scoreIndex(idx, eqCols, neqCols)
		if score > bestScore {
			bestScore = score
			best = idx
		}
	}

	return best, bestScore
}

// scoreIndex walks an index's key columns in order: an equality-bound
// column extends the usable prefix, a range-bound column extends it once
// more and ends it, anything else ends it immediately.
func scoreIndex(idx *catalog.IndexMetadata, eqCols, neqCols map[string]bool) int {
	score := 0
	for _, col := range idx.Columns {
		switch {
		case eqCols[col]:
			score++
		case neqCols[col]:
			score++
			return score
		default:
			return score
		}
	}
	return score
}

// popConds removes and returns every condition in *conditions that is
// table-local to table: either a predicate on table with a literal
// right-hand side, or a column-vs-column predicate whose both sides name
// table. The remaining conditions are left in place for higher operators.
func popConds(conditions *[]*Condition, table string) []*Condition {
	var popped, remaining []*Condition

	for _, cond := range *conditions {
		localLiteral := cond.LeftColumn.Table == table && cond.IsRHSValue
		localColumns := !cond.IsRHSValue && cond.LeftColumn.Table == table && cond.RightColumn != nil && cond.RightColumn.Table == table

		if localLiteral || localColumns {
			popped = append(popped, cond)
		} else {
			remaining = append(remaining, cond)
		}
	}

	*conditions = remaining
	return popped
}
