// Package migrateerr implements the error taxonomy and recovery strategies
// from §7: every error raised inside the pipeline carries a stable Kind
// and a Severity, and ErrorPolicy dispatches severity to a propagation
// decision (abort the run / abort the phase / log-and-recover / inform).
package migrateerr

import "fmt"

// Kind is the stable error classification from §7.
type Kind string

const (
	KindConfigError      Kind = "ConfigError"
	KindConnectionError  Kind = "ConnectionError"
	KindQueryError       Kind = "QueryError"
	KindDriverMissing    Kind = "DriverMissing"
	KindMappingError     Kind = "MappingError"
	KindValidationError  Kind = "ValidationError"
	KindFileAccessError  Kind = "FileAccessError"
	KindMemoryError      Kind = "MemoryError"
	KindCancelled        Kind = "Cancelled"
)

// Severity controls propagation policy.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityByKind is the fixed mapping from §7's table; Error always
// derives its severity from its Kind so callers cannot accidentally
// mis-rank an error.
var severityByKind = map[Kind]Severity{
	KindConfigError:     SeverityHigh,
	KindConnectionError: SeverityCritical,
	KindQueryError:      SeverityMedium,
	KindDriverMissing:   SeverityCritical,
	KindMappingError:    SeverityMedium,
	KindValidationError: SeverityMedium,
	KindFileAccessError: SeverityHigh,
	KindMemoryError:     SeverityCritical,
	KindCancelled:       SeverityLow,
}

// Error is the typed error carried through the pipeline.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	cause   error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = map[string]string{}
	}
	e.Context[key] = value
	return e
}

func (e *Error) Severity() Severity { return severityByKind[e.Kind] }

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Propagation describes what the orchestrator should do next.
type Propagation string

const (
	PropagationAbortRun   Propagation = "abort_run"
	PropagationAbortPhase Propagation = "abort_phase"
	PropagationRecover    Propagation = "recover"
	PropagationInform     Propagation = "inform"
)

// Decide maps a severity to the propagation policy from §7.
func Decide(sev Severity) Propagation {
	switch sev {
	case SeverityCritical:
		return PropagationAbortRun
	case SeverityHigh:
		return PropagationAbortPhase
	case SeverityMedium:
		return PropagationRecover
	default:
		return PropagationInform
	}
}

// IsFatal reports whether an error (by its Kind's severity) should
// short-circuit the orchestrator's state machine straight to Done.
func IsFatal(err error) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	switch Decide(e.Severity()) {
	case PropagationAbortRun, PropagationAbortPhase:
		return true
	default:
		return false
	}
}

// SeverityOf reports the severity of err, or SeverityCritical if err is
// not one of this package's typed errors (an unclassified failure is
// treated as the worst case for reporting purposes).
func SeverityOf(err error) Severity {
	var e *Error
	if !asError(err, &e) {
		return SeverityCritical
	}
	return e.Severity()
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
