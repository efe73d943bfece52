package envutil

// Option is a function which modifies a Reader. It's used by
// functions like String and Bool so that the caller can easily
// provide defaults and validation.
type Option[T any] func(Reader[T]) Reader[T]

// Default fills in dfl when the variable is not set. A set but unparsable
// variable keeps its error.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		if rdr.present {
			return rdr
		}

		return Reader[T]{key: rdr.key, present: true, err: rdr.err, value: dfl}
	}
}

// Validate allows you to provide a validation function to run
// on the Reader's value. If the validation function returns an
// error, the Reader will return that error.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return Map(rdr, func(val T) (T, error) {
			return val, f(val)
		})
	}
}
