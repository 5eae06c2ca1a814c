package domain

// updateState is the discriminator of a FieldUpdate.
type updateState uint8

const (
	noChange updateState = iota
	setValue
	clearValue
)

// FieldUpdate is a tri-state partial-update value: leave the field alone,
// set it to a new value, or clear it. The zero value is NoChange.
type FieldUpdate[T any] struct {
	state updateState
	value T
}

// NoChange leaves the field untouched.
func NoChange[T any]() FieldUpdate[T] { return FieldUpdate[T]{} }

// Set replaces the field with v.
func Set[T any](v T) FieldUpdate[T] { return FieldUpdate[T]{state: setValue, value: v} }

// Clear empties an optional field. Clearing a required field is a
// validation error raised by the mutator applying the update.
func Clear[T any]() FieldUpdate[T] { return FieldUpdate[T]{state: clearValue} }

func (f FieldUpdate[T]) IsNoChange() bool { return f.state == noChange }
func (f FieldUpdate[T]) IsSet() bool      { return f.state == setValue }
func (f FieldUpdate[T]) IsClear() bool    { return f.state == clearValue }

// Value returns the set value, if any.
func (f FieldUpdate[T]) Value() (T, bool) {
	if f.state == setValue {
		return f.value, true
	}
	var zero T
	return zero, false
}

// ApplyOptional applies the update to an optional field stored as a pointer.
func ApplyOptional[T any](f FieldUpdate[T], target **T) {
	switch f.state {
	case setValue:
		v := f.value
		*target = &v
	case clearValue:
		*target = nil
	}
}

// ApplyRequired applies the update to a required field. Clear is rejected.
func ApplyRequired[T any](f FieldUpdate[T], target *T, field string) error {
	switch f.state {
	case setValue:
		*target = f.value
	case clearValue:
		return Validationf("cannot clear required field %s", field)
	}
	return nil
}
