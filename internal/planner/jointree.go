package planner

import "github.com/z2z63/DB2024-OSCore/internal/catalog"

// buildScan extracts table's local predicates from conditions and builds
// its ScanPlan, picking an IndexScan when §4.2.1 finds a usable index.
func buildScan(table *catalog.TableMetadata, conditions *[]*Condition) *Plan {
	local := popConds(conditions, table.Name)

	idx, score := matchIndex(table, local)
	if idx == nil || score < 1 {
		return &Plan{
			Kind:       PlanScan,
			ScanKind:   ScanSeq,
			Table:      table,
			Conditions: local,
			cost:       float64(len(local)) + 10,
		}
	}

	reordered := reorderForIndex(local, idx)
	return &Plan{
		Kind:             PlanScan,
		ScanKind:         ScanIndex,
		Table:            table,
		Conditions:       reordered,
		IndexColumnNames: append([]string(nil), idx.Columns...),
		cost:             float64(len(local)-score) + 1,
	}
}

// reorderForIndex moves the conditions matching idx's key columns to the
// front, in index-key order, leaving the rest in their original relative
// order (§4.2.1 step 5 — required by the executor, not cosmetic).
func reorderForIndex(conditions []*Condition, idx *catalog.IndexMetadata) []*Condition {
	used := make([]bool, len(conditions))
	ordered := make([]*Condition, 0, len(conditions))

	for _, col := range idx.Columns {
		for i, cond := range conditions {
			if used[i] {
				continue
			}
			if cond.LeftColumn.Column == col {
				ordered = append(ordered, cond)
				used[i] = true
				break
			}
		}
	}
	for i, cond := range conditions {
		if !used[i] {
			ordered = append(ordered, cond)
		}
	}
	return ordered
}

// tableIndex returns t's position in the FROM-clause order, or -1.
func tableIndex(tables []*catalog.TableMetadata, name string) int {
	for i, t := range tables {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// joinKindFor picks the physical join strategy for the first join, per
// §4.2.4 step 3.
func joinKindFor(ctx *Context, left, right *Plan) (JoinKind, error) {
	switch {
	case ctx.Features.EnableNestedLoop:
		return JoinNestLoop, nil
	case ctx.Features.EnableSortMerge:
		if coversJoinIndex(left) && coversJoinIndex(right) {
			return JoinSortMergeWithIndex, nil
		}
		return JoinSortMerge, nil
	default:
		return 0, &EngineConfigError{Message: "no join executor enabled"}
	}
}

func coversJoinIndex(scan *Plan) bool {
	return scan.Kind == PlanScan && scan.ScanKind == ScanIndex && len(scan.IndexColumnNames) > 0
}

// bareIndexScan returns a copy of scan with its local conditions cleared,
// used as a SortMergeWithIndex child: the index is consulted only for
// merge order there, not as a filter.
func bareIndexScan(scan *Plan) *Plan {
	clone := *scan
	clone.Conditions = nil
	return &clone
}

// makeOneRel builds the join tree over tables per §4.2.4.
func makeOneRel(ctx *Context, tables []*catalog.TableMetadata, conditions []*Condition) (*Plan, error) {
	scans := make(map[string]*Plan, len(tables))
	joined := make(map[string]bool, len(tables))
	remaining := append([]*Condition(nil), conditions...)

	for _, t := range tables {
		scans[t.Name] = buildScan(t, &remaining)
	}

	if len(tables) == 1 {
		return scans[tables[0].Name], nil
	}

	if len(remaining) == 0 {
		return cartesianClose(tables, scans, joined, nil)
	}

	first := remaining[0]
	remaining = remaining[1:]

	lt, rt, ok := conditionTables(first)
	if !ok {
		return nil, &InternalError{Message: "first join condition is not column-vs-column"}
	}

	leftScan, rightScan := scans[lt], scans[rt]
	cond := first
	if tableIndex(tables, lt) > tableIndex(tables, rt) {
		leftScan, rightScan = rightScan, leftScan
		cond = cond.swapped()
	}

	kind, err := joinKindFor(ctx, leftScan, rightScan)
	if err != nil {
		return nil, err
	}

	tree := &Plan{Kind: PlanJoin, JoinKind: kind, Conditions: []*Condition{cond}}
	if kind == JoinSortMergeWithIndex {
		tree.Left, tree.Right = bareIndexScan(leftScan), bareIndexScan(rightScan)
	} else {
		tree.Left, tree.Right = leftScan, rightScan
	}

	delete(scans, lt)
	delete(scans, rt)
	joined[lt] = true
	joined[rt] = true

	for _, cond := range remaining {
		lt, rt, ok := conditionTables(cond)
		if !ok {
			return nil, &InternalError{Message: "join condition is not column-vs-column"}
		}

		leftJoined, rightJoined := joined[lt], joined[rt]

		switch {
		case leftJoined && rightJoined:
			if pushConds(tree, cond) == pushNoMatch {
				return nil, &InternalError{Message: "condition could not be pushed into join tree"}
			}

		case leftJoined || rightJoined:
			var unjoined string
			if leftJoined {
				unjoined = rt
			} else {
				unjoined = lt
			}
			scan := scans[unjoined]
			delete(scans, unjoined)
			joined[unjoined] = true

			attached := cond
			if cond.RightColumn != nil && cond.RightColumn.Table == unjoined {
				attached = cond.swapped()
			}

			tree = &Plan{
				Kind:       PlanJoin,
				JoinKind:   JoinNestLoop,
				Left:       scan,
				Right:      tree,
				Conditions: []*Condition{attached},
			}

		default:
			a, b := scans[lt], scans[rt]
			delete(scans, lt)
			delete(scans, rt)
			joined[lt] = true
			joined[rt] = true

			bottom := &Plan{Kind: PlanJoin, JoinKind: JoinNestLoop, Left: a, Right: b, Conditions: []*Condition{cond}}
			tree = &Plan{Kind: PlanJoin, JoinKind: JoinNestLoop, Left: tree, Right: bottom}
		}
	}

	return cartesianClose(tables, scans, joined, tree)
}

// cartesianClose appends any table left unscanned (no condition ever
// referenced it) as a NestLoop with empty join conditions.
func cartesianClose(tables []*catalog.TableMetadata, scans map[string]*Plan, joined map[string]bool, tree *Plan) (*Plan, error) {
	for _, t := range tables {
		scan, stillLoose := scans[t.Name]
		if !stillLoose {
			continue
		}
		if tree == nil {
			tree = scan
			continue
		}
		tree = &Plan{Kind: PlanJoin, JoinKind: JoinNestLoop, Left: tree, Right: scan}
		joined[t.Name] = true
	}
	if tree == nil {
		return nil, &InternalError{Message: "no tables to join"}
	}
	return tree, nil
}

// conditionTables reports the table names a column-vs-column condition
// references.
func conditionTables(cond *Condition) (left, right string, ok bool) {
	if cond.IsRHSValue || cond.RightColumn == nil {
		return "", "", false
	}
	return cond.LeftColumn.Table, cond.RightColumn.Table, true
}
