package matrix

// Elementwise arithmetic. The allocating forms return a new matrix and leave
// both operands untouched; the InPlace forms overwrite the left operand.
// Operands must have exactly the same shape.

// Add returns a + b.
func Add[T Additive](a, b *Matrix[T]) *Matrix[T] {
	out := a.Clone()
	AddInPlace(out, b)
	return out
}

// Sub returns a - b.
func Sub[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	out := a.Clone()
	SubInPlace(out, b)
	return out
}

// Mul returns the Hadamard product a ⊙ b.
func Mul[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	out := a.Clone()
	MulInPlace(out, b)
	return out
}

// Div returns the elementwise quotient a / b. Integer division by zero
// panics as the language does.
func Div[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	out := a.Clone()
	DivInPlace(out, b)
	return out
}

// AddInPlace sets a = a + b.
func AddInPlace[T Additive](a, b *Matrix[T]) {
	assertSameSize("add", a, b)
	for i, v := range b.elements {
		a.elements[i] += v
	}
}

// SubInPlace sets a = a - b.
func SubInPlace[T Numeric](a, b *Matrix[T]) {
	assertSameSize("sub", a, b)
	for i, v := range b.elements {
		a.elements[i] -= v
	}
}

// MulInPlace sets a = a ⊙ b.
func MulInPlace[T Numeric](a, b *Matrix[T]) {
	assertSameSize("mul", a, b)
	for i, v := range b.elements {
		a.elements[i] *= v
	}
}

// DivInPlace sets a = a / b elementwise.
func DivInPlace[T Numeric](a, b *Matrix[T]) {
	assertSameSize("div", a, b)
	for i, v := range b.elements {
		a.elements[i] /= v
	}
}

// Scale returns a copy of m with every element multiplied by k.
func Scale[T Numeric](m *Matrix[T], k T) *Matrix[T] {
	out := m.Clone()
	for i := range out.elements {
		out.elements[i] *= k
	}
	return out
}
