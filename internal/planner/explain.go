package planner

import (
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure"
)

// Explain renders the plan tree as an indented, human-readable string:
// operator, table/index and condition list per node, plus the static cost
// annotation on scan nodes.
func (p *Plan) Explain() string {
	var b strings.Builder
	p.explain(&b, 0)
	return b.String()
}

func (p *Plan) explain(b *strings.Builder, indent int) {
	if p == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)

	switch p.Kind {
	case PlanScan:
		fmt.Fprintf(b, "%s%s(%s)", prefix, p.ScanKind, p.Table.Name)
		if len(p.IndexColumnNames) > 0 {
			fmt.Fprintf(b, " using (%s)", strings.Join(p.IndexColumnNames, ", "))
		}
		fmt.Fprintf(b, " cost=%.1f", p.cost)
		writeConditions(b, p.Conditions)

	case PlanJoin:
		fmt.Fprintf(b, "%s%s", prefix, p.JoinKind)
		writeConditions(b, p.Conditions)
		b.WriteString("\n")
		p.Left.explain(b, indent+1)
		b.WriteString("\n")
		p.Right.explain(b, indent+1)
		return

	case PlanSort:
		dir := "ASC"
		if p.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(b, "%sSort(%s %s)", prefix, p.SortColumn, dir)

	case PlanAggregation:
		fmt.Fprintf(b, "%sAggregation(group=%v)", prefix, columnNames(p.GroupColumns))

	case PlanProjection:
		fmt.Fprintf(b, "%sProjection(%v)", prefix, columnNames(p.ProjectedColumns))

	case PlanDML:
		fmt.Fprintf(b, "%sDML(%s)", prefix, p.DMLKind)

	case PlanDDL:
		fmt.Fprintf(b, "%sDDL(%s)", prefix, p.DDLKind)
	}

	if p.Child != nil {
		b.WriteString("\n")
		p.Child.explain(b, indent+1)
	}
}

func writeConditions(b *strings.Builder, conditions []*Condition) {
	if len(conditions) == 0 {
		return
	}
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		if c.IsRHSValue {
			parts[i] = fmt.Sprintf("%s %s %v", c.LeftColumn, c.Operator, c.RightValue)
		} else {
			parts[i] = fmt.Sprintf("%s %s %s", c.LeftColumn, c.Operator, c.RightColumn)
		}
	}
	fmt.Fprintf(b, " [%s]", strings.Join(parts, ", "))
}

func columnNames(cols []*ColumnRef) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.String()
	}
	return names
}

// fingerprint hashes the parts of a single plan node that determine its
// identity — kind, scan/join strategy, table and conditions — for
// detecting structurally identical physical plans in tests.
func (p *Plan) fingerprint() (uint64, error) {
	type shape struct {
		Kind             PlanKind
		ScanKind         ScanKind
		Table            string
		IndexColumnNames []string
		Conditions       []*Condition
		JoinKind         JoinKind
	}
	table := ""
	if p.Table != nil {
		table = p.Table.Name
	}
	return hashstructure.Hash(shape{
		Kind:             p.Kind,
		ScanKind:         p.ScanKind,
		Table:            table,
		IndexColumnNames: p.IndexColumnNames,
		Conditions:       p.Conditions,
		JoinKind:         p.JoinKind,
	}, nil)
}
