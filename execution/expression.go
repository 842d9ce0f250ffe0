package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

// Expression is the tree node contract every predicate/projection term
// implements. A given node only needs to support the evaluation mode its
// position in the plan actually uses; the others panic, matching bustub's
// own reinterpret_cast-and-hope discipline made explicit instead of implicit.
type Expression interface {
	Evaluate(t catalog.Tuple, schema catalog.Schema) common.Value
	EvaluateJoin(l catalog.Tuple, ls catalog.Schema, r catalog.Tuple, rs catalog.Schema) common.Value
	EvaluateAggregate(groupBys, aggregates []common.Value) common.Value
}

type unsupportedExpression struct{}

func (unsupportedExpression) Evaluate(catalog.Tuple, catalog.Schema) common.Value {
	panic("expression does not support Evaluate")
}

func (unsupportedExpression) EvaluateJoin(catalog.Tuple, catalog.Schema, catalog.Tuple, catalog.Schema) common.Value {
	panic("expression does not support EvaluateJoin")
}

func (unsupportedExpression) EvaluateAggregate([]common.Value, []common.Value) common.Value {
	panic("expression does not support EvaluateAggregate")
}

// ConstantExpression always yields the same Value regardless of input.
type ConstantExpression struct {
	unsupportedExpression
	Value common.Value
}

func NewConstantExpression(v common.Value) ConstantExpression {
	return ConstantExpression{Value: v}
}

func (c ConstantExpression) Evaluate(catalog.Tuple, catalog.Schema) common.Value { return c.Value }

func (c ConstantExpression) EvaluateJoin(catalog.Tuple, catalog.Schema, catalog.Tuple, catalog.Schema) common.Value {
	return c.Value
}

func (c ConstantExpression) EvaluateAggregate([]common.Value, []common.Value) common.Value {
	return c.Value
}

// AlwaysTrue is the synthesized TRUE predicate substituted whenever a plan
// carries no explicit filter, kept as a package-level singleton rather
// than allocated per call.
var AlwaysTrue Expression = NewConstantExpression(common.NewBool(true))

// JoinSide picks which side of a join a ColumnValueExpression reads from.
type JoinSide int

const (
	SideNone JoinSide = iota
	SideLeft
	SideRight
)

// ColumnValueExpression reads a single positional column, either from a
// plain tuple (Evaluate) or from one side of a join pair (EvaluateJoin).
type ColumnValueExpression struct {
	unsupportedExpression
	Side  JoinSide
	Index int
}

func NewColumnValueExpression(index int) ColumnValueExpression {
	return ColumnValueExpression{Side: SideNone, Index: index}
}

func NewJoinColumnValueExpression(side JoinSide, index int) ColumnValueExpression {
	return ColumnValueExpression{Side: side, Index: index}
}

func (c ColumnValueExpression) Evaluate(t catalog.Tuple, _ catalog.Schema) common.Value {
	return t.Value(c.Index)
}

func (c ColumnValueExpression) EvaluateJoin(l catalog.Tuple, _ catalog.Schema, r catalog.Tuple, _ catalog.Schema) common.Value {
	if c.Side == SideLeft {
		return l.Value(c.Index)
	}
	return r.Value(c.Index)
}

// AggregateValueExpression reads one entry of the group-by or aggregate
// value vectors an AggregationExecutor hands to EvaluateAggregate.
type AggregateValueExpression struct {
	unsupportedExpression
	IsGroupBy bool
	Index     int
}

func NewGroupByValueExpression(index int) AggregateValueExpression {
	return AggregateValueExpression{IsGroupBy: true, Index: index}
}

func NewAggregateResultExpression(index int) AggregateValueExpression {
	return AggregateValueExpression{IsGroupBy: false, Index: index}
}

func (a AggregateValueExpression) EvaluateAggregate(groupBys, aggregates []common.Value) common.Value {
	if a.IsGroupBy {
		return groupBys[a.Index]
	}
	return aggregates[a.Index]
}

// ComparisonOp names the comparison a ComparisonExpression applies.
type ComparisonOp int

const (
	CompareEqual ComparisonOp = iota
	CompareNotEqual
	CompareLessThan
	CompareLessEqual
	CompareGreaterThan
	CompareGreaterEqual
)

// ComparisonExpression applies Op to its two operands' evaluated Values,
// under whichever evaluation mode the caller invokes; it forwards that
// same mode to both children.
type ComparisonExpression struct {
	Left, Right Expression
	Op          ComparisonOp
}

func NewComparisonExpression(left, right Expression, op ComparisonOp) ComparisonExpression {
	return ComparisonExpression{Left: left, Right: right, Op: op}
}

func applyComparison(op ComparisonOp, l, r common.Value) common.Value {
	switch op {
	case CompareEqual:
		equal, known := l.CompareEquals(r)
		return common.NewBool(known && equal)
	case CompareNotEqual:
		equal, known := l.CompareEquals(r)
		return common.NewBool(!known || !equal)
	case CompareLessThan:
		return common.NewBool(l.Less(r))
	case CompareLessEqual:
		return common.NewBool(l.Less(r) || func() bool { eq, known := l.CompareEquals(r); return known && eq }())
	case CompareGreaterThan:
		return common.NewBool(r.Less(l))
	case CompareGreaterEqual:
		return common.NewBool(r.Less(l) || func() bool { eq, known := l.CompareEquals(r); return known && eq }())
	}
	panic("unknown comparison op")
}

func (c ComparisonExpression) Evaluate(t catalog.Tuple, schema catalog.Schema) common.Value {
	return applyComparison(c.Op, c.Left.Evaluate(t, schema), c.Right.Evaluate(t, schema))
}

func (c ComparisonExpression) EvaluateJoin(l catalog.Tuple, ls catalog.Schema, r catalog.Tuple, rs catalog.Schema) common.Value {
	return applyComparison(c.Op, c.Left.EvaluateJoin(l, ls, r, rs), c.Right.EvaluateJoin(l, ls, r, rs))
}

func (c ComparisonExpression) EvaluateAggregate(groupBys, aggregates []common.Value) common.Value {
	return applyComparison(c.Op, c.Left.EvaluateAggregate(groupBys, aggregates), c.Right.EvaluateAggregate(groupBys, aggregates))
}

var (
	_ Expression = ConstantExpression{}
	_ Expression = ColumnValueExpression{}
	_ Expression = AggregateValueExpression{}
	_ Expression = ComparisonExpression{}
)
