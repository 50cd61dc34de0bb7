package errx

import (
	"fmt"
	"sync"
)

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one domain under a common prefix
type Registry struct {
	prefix string

	mu   sync.RWMutex
	defs map[Code]definition
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register defines a code. Registering the same code twice panics.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "_" + code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[full]; exists {
		panic(fmt.Sprintf("errx: code %s registered twice", full))
	}
	r.defs[full] = definition{errType: t, httpStatus: httpStatus, message: message}
	return full
}

// New creates a fresh error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: TypeInternal.HTTPStatus(),
		}
	}

	return &Error{
		Code:       code,
		Type:       def.errType,
		Message:    def.message,
		HTTPStatus: def.httpStatus,
	}
}

// NewWithCause creates an error for code wrapping cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.New(code).WithCause(cause)
}

// Codes returns every code registered so far
func (r *Registry) Codes() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]Code, 0, len(r.defs))
	for c := range r.defs {
		codes = append(codes, c)
	}
	return codes
}
