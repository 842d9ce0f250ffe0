package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

func joinSchemas() (catalog.Schema, catalog.Schema) {
	left := catalog.NewSchema(
		catalog.Column{Name: "k", Kind: common.ValueInt64},
		catalog.Column{Name: "tag", Kind: common.ValueVarchar},
	)
	right := catalog.NewSchema(
		catalog.Column{Name: "k", Kind: common.ValueInt64},
		catalog.Column{Name: "tag", Kind: common.ValueVarchar},
	)
	return left, right
}

func joinRows() ([]catalog.Tuple, []catalog.Tuple) {
	left := []catalog.Tuple{
		catalog.NewTuple(common.NewInt64(1), common.NewVarchar("A")),
		catalog.NewTuple(common.NewInt64(1), common.NewVarchar("B")),
		catalog.NewTuple(common.NewInt64(2), common.NewVarchar("C")),
	}
	right := []catalog.Tuple{
		catalog.NewTuple(common.NewInt64(1), common.NewVarchar("X")),
		catalog.NewTuple(common.NewInt64(3), common.NewVarchar("Y")),
	}
	return left, right
}

func joinOutputExprs() []Expression {
	return []Expression{
		NewJoinColumnValueExpression(SideLeft, 0),
		NewJoinColumnValueExpression(SideLeft, 1),
		NewJoinColumnValueExpression(SideRight, 1),
	}
}

func TestNestedLoopJoinProbeOrder(t *testing.T) {
	leftSchema, rightSchema := joinSchemas()
	leftRows, rightRows := joinRows()

	predicate := NewComparisonExpression(
		NewJoinColumnValueExpression(SideLeft, 0),
		NewJoinColumnValueExpression(SideRight, 0),
		CompareEqual,
	)

	exec := NewNestedLoopJoinExecutor(
		newSliceExecutor(leftRows), newSliceExecutor(rightRows),
		leftSchema, rightSchema,
		predicate,
		joinOutputExprs(),
	)
	exec.Init()

	var got [][3]string
	for {
		tup, _, ok := exec.Next()
		if !ok {
			break
		}
		got = append(got, [3]string{tup.Value(0).String(), tup.Value(1).String(), tup.Value(2).String()})
	}

	assert.Equal(t, [][3]string{
		{"1", "A", "X"},
		{"1", "B", "X"},
	}, got)
}

func TestHashJoinProbeOrder(t *testing.T) {
	leftSchema, rightSchema := joinSchemas()
	leftRows, rightRows := joinRows()

	exec := NewHashJoinExecutor(
		newSliceExecutor(leftRows), newSliceExecutor(rightRows),
		leftSchema, rightSchema,
		NewColumnValueExpression(0), NewColumnValueExpression(0),
		joinOutputExprs(),
	)
	exec.Init()

	var got [][3]string
	for {
		tup, _, ok := exec.Next()
		if !ok {
			break
		}
		got = append(got, [3]string{tup.Value(0).String(), tup.Value(1).String(), tup.Value(2).String()})
	}

	assert.Equal(t, [][3]string{
		{"1", "A", "X"},
		{"1", "B", "X"},
	}, got)
}
