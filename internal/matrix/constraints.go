package matrix

// Capability constraints. Each operation asks only for what it uses, so the
// store itself works for any element type while arithmetic, sampling and
// parsing narrow the admissible types.

// Signed matches the signed integer kinds.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned matches the unsigned integer kinds, including index types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer matches every integer kind.
type Integer interface {
	Signed | Unsigned
}

// Float matches the floating point kinds.
type Float interface {
	~float32 | ~float64
}

// Complex matches the complex kinds.
type Complex interface {
	~complex64 | ~complex128
}

// Real is satisfied by the ordered numeric kinds. Random sampling, text
// parsing and one-hot expansion require it.
type Real interface {
	Integer | Float
}

// Numeric is satisfied by every kind supporting +, -, * and /. The
// multiplication engine requires it.
type Numeric interface {
	Integer | Float | Complex
}

// Additive is satisfied by every kind supporting +. Strings concatenate.
type Additive interface {
	Numeric | ~string
}
