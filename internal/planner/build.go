package planner

import (
	"github.com/pkg/errors"

	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"github.com/z2z63/DB2024-OSCore/internal/parser"
)

// BuildQuery turns a parsed statement plus its resolved table list into the
// planner's Query input. Name resolution and type checking are assumed to
// have already happened (compiler.CompiledQuery); this step only reshapes
// the AST's WHERE/GROUP BY/ORDER BY into the planner's flat Condition and
// column-list vocabulary.
func BuildQuery(stmt parser.Statement, tables []*catalog.TableMetadata) (*Query, error) {
	q := &Query{Statement: stmt, Tables: tables}

	switch s := stmt.(type) {
	case *parser.SelectStatement:
		return buildSelectQuery(q, s)
	case *parser.InsertStatement:
		return buildInsertQuery(q, s)
	case *parser.UpdateStatement:
		return buildUpdateQuery(q, s)
	case *parser.DeleteStatement:
		return buildDeleteQuery(q, s)
	case *parser.CreateTableStatement, *parser.DropTableStatement:
		return q, nil
	default:
		return nil, errors.Errorf("planner: cannot build query for %s", stmt.NodeType())
	}
}

func buildSelectQuery(q *Query, s *parser.SelectStatement) (*Query, error) {
	if s.WhereClause != nil && s.WhereClause.Condition != nil {
		conds, err := flattenConjunction(s.WhereClause.Condition)
		if err != nil {
			return nil, err
		}
		q.Conditions = conds
	}

	if s.SelectClause != nil {
		for _, col := range s.SelectClause.Columns {
			if _, isWildcard := col.(*parser.Wildcard); isWildcard {
				q.Wildcard = true
				continue
			}
			if fn, ok := col.(*parser.FunctionCall); ok {
				agg, err := buildAggregate(fn)
				if err != nil {
					return nil, err
				}
				q.Aggregates = append(q.Aggregates, agg)
				continue
			}
			ref, err := columnRefOf(col)
			if err != nil {
				return nil, err
			}
			q.Projection = append(q.Projection, ref)
		}
	}

	if s.GroupBy != nil {
		for _, col := range s.GroupBy.Columns {
			ref, err := columnRefOf(col)
			if err != nil {
				return nil, err
			}
			q.GroupBy = append(q.GroupBy, ref)
		}
	}

	if s.Having != nil && s.Having.Condition != nil {
		having, err := flattenConjunction(s.Having.Condition)
		if err != nil {
			return nil, err
		}
		q.Having = having
	}

	if s.OrderBy != nil && len(s.OrderBy.Orders) > 0 {
		order := s.OrderBy.Orders[0]
		ref, err := columnRefOf(order.Expression)
		if err != nil {
			return nil, err
		}
		q.OrderBy = &OrderSpec{Column: ref, Descending: order.Direction == parser.Descending}
	}

	return q, nil
}

func buildInsertQuery(q *Query, s *parser.InsertStatement) (*Query, error) {
	for _, col := range s.Columns {
		q.TargetColumns = append(q.TargetColumns, col.Value)
	}
	for _, row := range s.Values {
		values := make([]interface{}, 0, len(row))
		for _, expr := range row {
			lit, ok := expr.(*parser.Literal)
			if !ok {
				return nil, errors.Errorf("planner: insert value must be a literal, got %s", expr.NodeType())
			}
			values = append(values, lit.Value)
		}
		q.InsertValues = append(q.InsertValues, values)
	}
	return q, nil
}

func buildUpdateQuery(q *Query, s *parser.UpdateStatement) (*Query, error) {
	if s.WhereClause != nil && s.WhereClause.Condition != nil {
		conds, err := flattenConjunction(s.WhereClause.Condition)
		if err != nil {
			return nil, err
		}
		q.Conditions = conds
	}
	q.SetClauses = make(map[string]interface{}, len(s.SetClauses))
	for _, set := range s.SetClauses {
		lit, ok := set.Value.(*parser.Literal)
		if !ok {
			return nil, errors.Errorf("planner: set value must be a literal, got %s", set.Value.NodeType())
		}
		q.SetClauses[set.Column.Value] = lit.Value
	}
	return q, nil
}

func buildDeleteQuery(q *Query, s *parser.DeleteStatement) (*Query, error) {
	if s.WhereClause != nil && s.WhereClause.Condition != nil {
		conds, err := flattenConjunction(s.WhereClause.Condition)
		if err != nil {
			return nil, err
		}
		q.Conditions = conds
	}
	return q, nil
}

// flattenConjunction splits a WHERE/HAVING expression tree made of
// top-level ANDs into the planner's flat Condition list. The model in §3 is
// a conjunction of simple comparisons; anything else is an internal error
// at this layer (the compiler's validator is the place that should have
// rejected unsupported WHERE shapes earlier).
func flattenConjunction(expr parser.Expression) ([]*Condition, error) {
	if bin, ok := expr.(*parser.BinaryExpression); ok && bin.Operator == parser.And {
		left, err := flattenConjunction(bin.Left)
		if err != nil {
			return nil, err
		}
		right, err := flattenConjunction(bin.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}

	cond, err := buildCondition(expr)
	if err != nil {
		return nil, err
	}
	return []*Condition{cond}, nil
}

func buildCondition(expr parser.Expression) (*Condition, error) {
	bin, ok := expr.(*parser.BinaryExpression)
	if !ok {
		return nil, errors.Errorf("planner: expected a comparison, got %s", expr.NodeType())
	}

	op, err := operatorOf(bin.Operator)
	if err != nil {
		return nil, err
	}

	left, err := columnRefOf(bin.Left)
	if err != nil {
		return nil, err
	}

	if lit, ok := bin.Right.(*parser.Literal); ok {
		return &Condition{LeftColumn: left, Operator: op, IsRHSValue: true, RightValue: lit.Value}, nil
	}

	right, err := columnRefOf(bin.Right)
	if err != nil {
		return nil, err
	}
	return &Condition{LeftColumn: left, Operator: op, IsRHSValue: false, RightColumn: right}, nil
}

func operatorOf(op parser.BinaryOperator) (Operator, error) {
	switch op {
	case parser.Equal:
		return OpEqual, nil
	case parser.NotEqual:
		return OpNotEqual, nil
	case parser.LessThan:
		return OpLessThan, nil
	case parser.LessEqual:
		return OpLessEqual, nil
	case parser.GreaterThan:
		return OpGreaterThan, nil
	case parser.GreaterEqual:
		return OpGreaterEqual, nil
	default:
		return 0, errors.Errorf("planner: unsupported comparison operator %s", op.String())
	}
}

func columnRefOf(expr parser.Expression) (*ColumnRef, error) {
	switch e := expr.(type) {
	case *parser.ColumnReference:
		table := ""
		if e.Table != nil {
			table = e.Table.Value
		}
		return &ColumnRef{Table: table, Column: e.Column.Value}, nil
	case *parser.Identifier:
		return &ColumnRef{Column: e.Value}, nil
	default:
		return nil, errors.Errorf("planner: expected a column reference, got %s", expr.NodeType())
	}
}

func buildAggregate(fn *parser.FunctionCall) (*AggregateExpr, error) {
	agg := &AggregateExpr{Func: fn.Name.Value}
	if len(fn.Arguments) == 1 {
		if _, isWildcard := fn.Arguments[0].(*parser.Wildcard); !isWildcard {
			ref, err := columnRefOf(fn.Arguments[0])
			if err != nil {
				return nil, err
			}
			agg.Column = ref
		}
	}
	return agg, nil
}
