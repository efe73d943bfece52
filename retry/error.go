package retry

// permanentError stops Do without further attempts.
type permanentError struct {
	error
}

func (e *permanentError) Unwrap() error {
	return e.error
}

// Abort marks err as not worth retrying. Do returns err itself, unwrapped.
func Abort(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err}
}
