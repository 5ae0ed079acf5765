package planner

import "fmt"

// InternalError signals a planner invariant violation: an unexpected AST
// root kind, a field of an unknown type, a plan shape the planner itself
// should never have produced. Always fatal.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("planner: internal error: %s", e.Message)
}

// EngineConfigError reports that a join is required but no enabled join
// strategy can execute it (§4.2.4 step 3).
type EngineConfigError struct {
	Message string
}

func (e *EngineConfigError) Error() string {
	return fmt.Sprintf("planner: engine config error: %s", e.Message)
}

// AmbiguousColumnError reports an ORDER BY (or other) column name that
// resolves against more than one selected table's schema.
type AmbiguousColumnError struct {
	Column string
}

func (e *AmbiguousColumnError) Error() string {
	return fmt.Sprintf("planner: ambiguous column: %s", e.Column)
}

// UnknownColumnError reports a column name that resolves against none of
// the selected tables' schemas.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("planner: unknown column: %s", e.Column)
}
