package mdfs

import "fmt"

// CompileErrorKind is the coarse classification of a CompileError, derived
// from its Code.
type CompileErrorKind string

const (
	KindParse      CompileErrorKind = "parse"
	KindIO         CompileErrorKind = "io"
	KindSemantic   CompileErrorKind = "semantic"
	KindTimeMap    CompileErrorKind = "time_map"
	KindValidation CompileErrorKind = "validation"
)

// kindFromCode maps a stable error code to its CompileErrorKind. Unknown
// codes fall back to KindParse, preserving forward compatibility with
// diagnostics added later.
func kindFromCode(code string) CompileErrorKind {
	switch code {
	case "E1001", "E1002", "E1003", "E1004", "E1005", "E1006", "E1101",
		"E3201", "E3202", "E3203", "E3204":
		return KindParse

	case "E2001", "E2002", "E2003", "E2004":
		return KindIO

	case "E2101", "E4201":
		return KindSemantic

	case "E3001", "E3002", "E3003", "E3004", "E3005":
		return KindTimeMap

	case "E4001", "E4002", "E4003", "E4004", "E4101", "E4102":
		return KindValidation

	default:
		return KindParse
	}
}

// CompileError is the single structured failure record produced by any
// compiler stage. Compilation aborts on the first CompileError encountered;
// there is no multi-diagnostic collection.
type CompileError struct {
	Code    string
	Kind    CompileErrorKind
	Message string
	Line    int

	// Structured fields, populated progressively via the With* builders.
	// Error() remains the authoritative text for humans; these serve
	// programmatic consumers.
	File      string
	Column    int
	StepIndex *int
	Lane      *uint8
	TimeUs    *uint64
	Context   string
	SoundID   string
}

// newError constructs a CompileError with its Kind derived from code.
func newError(code, message string, line int) *CompileError {
	return &CompileError{
		Code:    code,
		Kind:    kindFromCode(code),
		Message: message,
		Line:    line,
	}
}

// Error implements the error interface. The format is fixed and stable:
// "<code>: <message> (line <line>)".
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s (line %d)", e.Code, e.Message, e.Line)
}

func (e *CompileError) WithFile(file string) *CompileError {
	e.File = file
	return e
}

func (e *CompileError) WithColumn(column int) *CompileError {
	e.Column = column
	return e
}

func (e *CompileError) WithStepIndex(stepIndex int) *CompileError {
	v := stepIndex
	e.StepIndex = &v
	return e
}

func (e *CompileError) WithLane(lane uint8) *CompileError {
	v := lane
	e.Lane = &v
	return e
}

func (e *CompileError) WithTimeUs(timeUs uint64) *CompileError {
	v := timeUs
	e.TimeUs = &v
	return e
}

func (e *CompileError) WithContext(context string) *CompileError {
	e.Context = context
	return e
}

func (e *CompileError) WithSoundID(soundID string) *CompileError {
	e.SoundID = soundID
	return e
}
