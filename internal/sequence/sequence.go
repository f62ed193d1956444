// Package sequence provides the ordered reading history each sensor owns.
package sequence

import (
	"fmt"
	"strings"
)

// Number is the set of element types a Sequence can reduce over.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sequence is an ordered, owned list of readings.
// The zero value is an empty sequence ready to use.
type Sequence[T Number] struct {
	values []T
}

// New creates a sequence holding the given values in order
func New[T Number](values ...T) *Sequence[T] {
	s := &Sequence[T]{values: make([]T, 0, len(values))}
	s.values = append(s.values, values...)
	return s
}

// Append adds v as the last element
func (s *Sequence[T]) Append(v T) {
	s.values = append(s.values, v)
}

// Contains reports whether some element equals v exactly
func (s *Sequence[T]) Contains(v T) bool {
	for _, x := range s.values {
		if x == v {
			return true
		}
	}
	return false
}

// Mean returns the sum divided by the count using T's own arithmetic,
// so integer sequences truncate. An empty sequence yields zero.
func (s *Sequence[T]) Mean() T {
	if len(s.values) == 0 {
		return 0
	}
	var sum T
	for _, x := range s.values {
		sum += x
	}
	return sum / T(len(s.values))
}

// RemoveMinimum unlinks the first minimal element and returns it.
// On an empty sequence it returns zero and changes nothing.
func (s *Sequence[T]) RemoveMinimum() T {
	v, _ := s.RemoveMinimumOK()
	return v
}

// RemoveMinimumOK is RemoveMinimum with an explicit presence flag
func (s *Sequence[T]) RemoveMinimumOK() (T, bool) {
	if len(s.values) == 0 {
		return 0, false
	}
	idx := 0
	for i := 1; i < len(s.values); i++ {
		// strict less keeps the first occurrence on ties
		if s.values[i] < s.values[idx] {
			idx = i
		}
	}
	minimum := s.values[idx]
	s.values = append(s.values[:idx], s.values[idx+1:]...)
	return minimum, true
}

// Len returns the number of live elements
func (s *Sequence[T]) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the sequence holds no elements
func (s *Sequence[T]) IsEmpty() bool {
	return len(s.values) == 0
}

// Values returns a copy of the elements in order
func (s *Sequence[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Clone returns a deep copy that shares no storage with s
func (s *Sequence[T]) Clone() *Sequence[T] {
	return New(s.values...)
}

// Release drops every element and returns how many were held
func (s *Sequence[T]) Release() int {
	n := len(s.values)
	clear(s.values)
	s.values = nil
	return n
}

// String renders the elements as "[ a b c ]"
func (s *Sequence[T]) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for _, x := range s.values {
		fmt.Fprintf(&b, "%v ", x)
	}
	b.WriteString("]")
	return b.String()
}
