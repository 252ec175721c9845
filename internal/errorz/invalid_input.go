package errorz

import "strings"

// InvalidInput signals that a provided input is invalid due to the wrapped
// errors. All violations are collected before the error is returned, so the
// message lists every failing rule, not just the first.
type InvalidInput []error

func (e InvalidInput) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, ", ")
}

func (e InvalidInput) Unwrap() []error {
	return e
}

// Keyed ties a violation to the input field that caused it. The key is user
// facing and should name the field the way the submitted form does.
type Keyed struct {
	Key string
	Err error
}

func (k Keyed) Error() string {
	return k.Key + ": " + k.Err.Error()
}

func (k Keyed) Unwrap() error {
	return k.Err
}
