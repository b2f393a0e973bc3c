package runtime

import "fmt"

// ErrorKind classifies runtime failures so callers can branch on the
// category without parsing messages.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	UndefinedMember
	TypeMismatch
	DivisionByZero
	ModuloByZero
	IndexOutOfBounds
	MissingKey
	WrongArgumentCount
	NotCallable
	NotHashable
	NotIndexable
	ImportCycle
	ModuleNotFound
	InvalidOperation
)

var errorKindNames = map[ErrorKind]string{
	UndefinedVariable:  "UndefinedVariable",
	UndefinedMember:    "UndefinedMember",
	TypeMismatch:       "TypeMismatch",
	DivisionByZero:     "DivisionByZero",
	ModuloByZero:       "ModuloByZero",
	IndexOutOfBounds:   "IndexOutOfBounds",
	MissingKey:         "MissingKey",
	WrongArgumentCount: "WrongArgumentCount",
	NotCallable:        "NotCallable",
	NotHashable:        "NotHashable",
	NotIndexable:       "NotIndexable",
	ImportCycle:        "ImportCycle",
	ModuleNotFound:     "ModuleNotFound",
	InvalidOperation:   "InvalidOperation",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a runtime evaluation error surfaced to the program's caller.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a runtime error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
