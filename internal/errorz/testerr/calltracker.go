package testerr

// Calltracker decides per call whether a wrapped dependency should fail.
// The zero value never fails.
type Calltracker struct {
	calls  int
	failAt int
	mode   failMode
	err    error
}

type failMode int

const (
	neverFail failMode = iota
	failOnce
	failFrom
)

// NewFailingDeps creates one tracker per failure scenario for a call
// sequence of the given length. Every position in the sequence gets two
// trackers, one that fails only that call and one that fails that call and
// every call after it.
func NewFailingDeps(err error, sequenceLen int) []Calltracker {
	trackers := make([]Calltracker, 0, sequenceLen*2)
	for i := 0; i < sequenceLen; i++ {
		trackers = append(trackers,
			Calltracker{failAt: i, mode: failOnce, err: err},
			Calltracker{failAt: i, mode: failFrom, err: err},
		)
	}

	return trackers
}

func (ct *Calltracker) nextFails() bool {
	if ct.mode == neverFail {
		return false
	}

	call := ct.calls
	ct.calls++

	if ct.mode == failOnce {
		return call == ct.failAt
	}

	return call >= ct.failAt
}

// MaybeFailErrFunc runs f, unless the tracker fails this call.
func MaybeFailErrFunc(ct *Calltracker, f func() error) error {
	if ct.nextFails() {
		return ct.err
	}

	return f()
}

// MaybeFail runs f, unless the tracker fails this call.
func MaybeFail[T any](ct *Calltracker, f func() (T, error)) (T, error) {
	if ct.nextFails() {
		var zero T
		return zero, ct.err
	}

	return f()
}
