package engine

import "fmt"

// ErrorKind is a stable identifier surfaced to clients and operators,
// per the error policy in this engine's design.
type ErrorKind string

const (
	NotYourTurn       ErrorKind = "NotYourTurn"
	IllegalAction     ErrorKind = "IllegalAction"
	InsufficientChips ErrorKind = "InsufficientChips"
	NotInHand         ErrorKind = "NotInHand"
	BadInput          ErrorKind = "BadInput"
	StorageFailure    ErrorKind = "StorageFailure"
	DeckExhausted     ErrorKind = "DeckExhausted"
	ChipConservation  ErrorKind = "ChipConservation"
)

// IsFatal reports whether an error of this kind moves the room to the
// quiescent error state rather than being recovered per-action.
func (k ErrorKind) IsFatal() bool {
	return k == StorageFailure || k == DeckExhausted || k == ChipConservation
}

// EngineError is returned by SubmitAction and StartHand. Client-facing
// kinds never mutate engine state; fatal kinds do.
type EngineError struct {
	Kind    ErrorKind
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is the sentinel for e.Kind, so callers can
// write errors.Is(err, engine.ErrNotYourTurn) instead of unwrapping Kind
// by hand.
func (e *EngineError) Is(target error) bool {
	sentinel, ok := target.(*EngineError)
	return ok && sentinel.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...any) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinel EngineErrors, one per ErrorKind, for errors.Is comparisons.
// Their Message is unused; only Kind is compared.
var (
	ErrNotYourTurn       = &EngineError{Kind: NotYourTurn}
	ErrIllegalAction     = &EngineError{Kind: IllegalAction}
	ErrInsufficientChips = &EngineError{Kind: InsufficientChips}
	ErrNotInHand         = &EngineError{Kind: NotInHand}
	ErrBadInput          = &EngineError{Kind: BadInput}
	ErrStorageFailure    = &EngineError{Kind: StorageFailure}
	ErrDeckExhausted     = &EngineError{Kind: DeckExhausted}
	ErrChipConservation  = &EngineError{Kind: ChipConservation}
)
