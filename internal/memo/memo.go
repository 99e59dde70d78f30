// Package memo wraps factories so they run at most once.
//
// Values are not guarded by a lock: they are built and read from the single
// control goroutine that owns them.
package memo

// Value runs its factory on the first Get and returns the stored result on
// every call after that. The stored value is never recomputed.
type Value[T any] struct {
	factory func() T
	done    bool
	value   T
}

func New[T any](factory func() T) *Value[T] {
	return &Value[T]{factory: factory}
}

func (v *Value[T]) Get() T {
	if !v.done {
		v.value = v.factory()
		v.done = true
		v.factory = nil
	}
	return v.value
}

// Done reports whether the factory has already run.
func (v *Value[T]) Done() bool { return v.done }

// Result is the fallible variant of Value.
// Only a successful result is stored; after a failure the next Get calls the
// factory again.
type Result[T any] struct {
	factory func() (T, error)
	done    bool
	value   T
}

func NewResult[T any](factory func() (T, error)) *Result[T] {
	return &Result[T]{factory: factory}
}

func (r *Result[T]) Get() (T, error) {
	if r.done {
		return r.value, nil
	}
	value, err := r.factory()
	if err != nil {
		var zero T
		return zero, err
	}
	r.value = value
	r.done = true
	r.factory = nil
	return r.value, nil
}

func (r *Result[T]) Done() bool { return r.done }
