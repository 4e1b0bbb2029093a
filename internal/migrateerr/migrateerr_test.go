package migrateerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityByKind(t *testing.T) {
	assert.Equal(t, SeverityCritical, New(KindConnectionError, "boom").Severity())
	assert.Equal(t, SeverityMedium, New(KindQueryError, "boom").Severity())
	assert.Equal(t, SeverityHigh, New(KindFileAccessError, "boom").Severity())
	assert.Equal(t, SeverityLow, New(KindCancelled, "boom").Severity())
}

func TestDecidePropagation(t *testing.T) {
	assert.Equal(t, PropagationAbortRun, Decide(SeverityCritical))
	assert.Equal(t, PropagationAbortPhase, Decide(SeverityHigh))
	assert.Equal(t, PropagationRecover, Decide(SeverityMedium))
	assert.Equal(t, PropagationInform, Decide(SeverityLow))
}

func TestIsFatalUnwrapsThroughStdlibWrap(t *testing.T) {
	inner := New(KindConnectionError, "cannot open")
	wrapped := errors.New("opening source: " + inner.Error())
	assert.False(t, IsFatal(wrapped)) // stdlib errors.New loses the chain

	chained := errFmt(inner)
	assert.True(t, IsFatal(chained))
	assert.False(t, IsFatal(New(KindCancelled, "stop")))
}

func TestSeverityOfUnclassifiedErrorIsCritical(t *testing.T) {
	assert.Equal(t, SeverityCritical, SeverityOf(errors.New("boom")))
	assert.Equal(t, SeverityMedium, SeverityOf(New(KindQueryError, "bad sql")))
}

func errFmt(e *Error) error {
	return wrapStd(e)
}

type wrapErr struct{ err error }

func (w wrapErr) Error() string       { return "context: " + w.err.Error() }
func (w wrapErr) Unwrap() error       { return w.err }
func wrapStd(e error) error           { return wrapErr{err: e} }
