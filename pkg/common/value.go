package common

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/relixdb/txcore/pkg/assert"
)

// ValueKind tags the variant held by a Value, mirroring the teacher's
// storage.ColumnType enumeration (int64/uint64/float64/uuid), supplemented
// with Varchar and Bool — both needed by predicate evaluation in the
// executor family, which storage.ColumnType never had to cover.
type ValueKind uint8

const (
	ValueInt64 ValueKind = iota
	ValueUint64
	ValueFloat64
	ValueVarchar
	ValueBool
	ValueUUID
	ValueNull
)

// Value is a tagged union over the SQL types the executor family and hash
// index operate on. The zero Value is an Int64 holding 0; NULL is built
// with NewNull.
type Value struct {
	kind    ValueKind
	i64     int64
	u64     uint64
	f64     float64
	str     string
	boolean bool
	id      uuid.UUID
}

func NewInt64(v int64) Value     { return Value{kind: ValueInt64, i64: v} }
func NewUint64(v uint64) Value   { return Value{kind: ValueUint64, u64: v} }
func NewFloat64(v float64) Value { return Value{kind: ValueFloat64, f64: v} }
func NewVarchar(v string) Value  { return Value{kind: ValueVarchar, str: v} }
func NewBool(v bool) Value       { return Value{kind: ValueBool, boolean: v} }
func NewUUID(v uuid.UUID) Value  { return Value{kind: ValueUUID, id: v} }
func NewNull() Value             { return Value{kind: ValueNull} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == ValueNull }

func (v Value) AsInt64() int64     { assert.Assert(v.kind == ValueInt64, "not an int64 value"); return v.i64 }
func (v Value) AsUint64() uint64   { assert.Assert(v.kind == ValueUint64, "not a uint64 value"); return v.u64 }
func (v Value) AsFloat64() float64 { assert.Assert(v.kind == ValueFloat64, "not a float64 value"); return v.f64 }
func (v Value) AsVarchar() string  { assert.Assert(v.kind == ValueVarchar, "not a varchar value"); return v.str }
func (v Value) AsBool() bool       { assert.Assert(v.kind == ValueBool, "not a bool value"); return v.boolean }
func (v Value) AsUUID() uuid.UUID  { assert.Assert(v.kind == ValueUUID, "not a uuid value"); return v.id }

// CompareEquals is a 3-valued equality: it returns (equal, known). known is
// false when the two values have mismatched kinds (one or both NULL, or
// distinct non-null kinds), mirroring SQL's unknown-on-NULL comparison
// semantics and the teacher's CmpColumnValue's refusal to compare across
// types.
func (v Value) CompareEquals(other Value) (equal bool, known bool) {
	if v.kind == ValueNull || other.kind == ValueNull {
		return false, false
	}
	if v.kind != other.kind {
		return false, false
	}

	switch v.kind {
	case ValueInt64:
		return v.i64 == other.i64, true
	case ValueUint64:
		return v.u64 == other.u64, true
	case ValueFloat64:
		return v.f64 == other.f64, true
	case ValueVarchar:
		return v.str == other.str, true
	case ValueBool:
		return v.boolean == other.boolean, true
	case ValueUUID:
		return v.id == other.id, true
	}
	panic(fmt.Sprintf("unsupported value kind: %v", v.kind))
}

// Add folds other into v arithmetically. Only defined for the numeric
// kinds; mismatched or non-numeric kinds trip an assertion, matching
// storage.ColumnToFloat's refusal to cast non-numeric columns.
func (v Value) Add(other Value) Value {
	assert.Assert(v.kind == other.kind, "Add requires matching value kinds")

	switch v.kind {
	case ValueInt64:
		return NewInt64(v.i64 + other.i64)
	case ValueUint64:
		return NewUint64(v.u64 + other.u64)
	case ValueFloat64:
		return NewFloat64(v.f64 + other.f64)
	}
	panic(fmt.Sprintf("Add unsupported for value kind: %v", v.kind))
}

// Less provides a total order over matching-kind Int64, Uint64, Float64
// and Varchar values, used by MIN/MAX aggregation folds. Any other kind
// (Bool, UUID, NULL) trips an assertion or panics.
func (v Value) Less(other Value) bool {
	assert.Assert(v.kind == other.kind, "Less requires matching value kinds")

	switch v.kind {
	case ValueInt64:
		return v.i64 < other.i64
	case ValueUint64:
		return v.u64 < other.u64
	case ValueFloat64:
		return v.f64 < other.f64
	case ValueVarchar:
		return v.str < other.str
	}
	panic(fmt.Sprintf("Less unsupported for value kind: %v", v.kind))
}

func (v Value) String() string {
	switch v.kind {
	case ValueInt64:
		return fmt.Sprintf("%d", v.i64)
	case ValueUint64:
		return fmt.Sprintf("%d", v.u64)
	case ValueFloat64:
		return fmt.Sprintf("%g", v.f64)
	case ValueVarchar:
		return v.str
	case ValueBool:
		return fmt.Sprintf("%t", v.boolean)
	case ValueUUID:
		return v.id.String()
	default:
		return "NULL"
	}
}

// HashKey returns a canonical, kind-tagged string encoding of v, suitable
// as a Go map key. Value itself is comparable, but HashValue and
// HashValues hash this single encoding so every variant hashes the same
// way.
func (v Value) HashKey() string {
	switch v.kind {
	case ValueNull:
		return "n:"
	case ValueInt64:
		return fmt.Sprintf("i:%d", v.i64)
	case ValueUint64:
		return fmt.Sprintf("u:%d", v.u64)
	case ValueFloat64:
		return fmt.Sprintf("f:%g", v.f64)
	case ValueVarchar:
		return "s:" + v.str
	case ValueBool:
		return fmt.Sprintf("b:%t", v.boolean)
	case ValueUUID:
		return "d:" + v.id.String()
	}
	panic(fmt.Sprintf("unsupported value kind: %v", v.kind))
}
