package store

// --------------------------------------------------------------------------
// Typed Accessors
// --------------------------------------------------------------------------

// Get returns the value for key as T. A missing key and a value of another type
// both yield (zero, false).
func Get[T any](s IStore, key string) (T, bool) {
	var zero T
	raw, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetOrDefault returns the value for key as T, or def if it is missing or of another type.
func GetOrDefault[T any](s IStore, key string, def T) T {
	if v, ok := Get[T](s, key); ok {
		return v
	}
	return def
}

// GetOrElse is like GetOrDefault, but the fallback is only computed when needed.
func GetOrElse[T any](s IStore, key string, fallback func() T) T {
	if v, ok := Get[T](s, key); ok {
		return v
	}
	return fallback()
}

// GetOrSet returns the value for key as T. If the key is missing, or holds a value of
// another type, the result of create is stored and returned.
func GetOrSet[T any](s IStore, key string, create func() T) (T, error) {
	if v, ok := Get[T](s, key); ok {
		return v, nil
	}
	v := create()
	if err := s.Set(key, v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
