package testerr

import "errors"

// Err is a sentinel error for tests that need a failing dependency.
var Err = errors.New("test error")
