package catalog

import "github.com/relixdb/txcore/pkg/common"

// Column names one output/base position and the value kind it holds.
type Column struct {
	Name string
	Kind common.ValueKind
}

// Schema is an ordered column list; column resolution is by name match,
// per the seq scan executor's out_schema_idx precomputation.
type Schema struct {
	Columns []Column
}

func NewSchema(columns ...Column) Schema {
	return Schema{Columns: columns}
}

// IndexOf returns the ordinal of the named column, or false if absent.
func (s Schema) IndexOf(name string) (int, bool) {
	for i, c := range s.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (s Schema) Len() int { return len(s.Columns) }

// Tuple is a row of typed values, positional per some Schema.
type Tuple struct {
	Values []common.Value
}

func NewTuple(values ...common.Value) Tuple {
	return Tuple{Values: values}
}

func (t Tuple) Value(idx int) common.Value { return t.Values[idx] }

// Project builds a new tuple by pulling values at the given base-schema
// indices, the way SeqScan materializes its output tuple.
func (t Tuple) Project(indices []int) Tuple {
	out := make([]common.Value, len(indices))
	for i, idx := range indices {
		out[i] = t.Values[idx]
	}
	return Tuple{Values: out}
}
