// ABOUTME: Tagged union of pipeline records: Emitting, Returning and Plain
// ABOUTME: Plus response-kind parsing for composite BASE_STAGE type names

package action

import (
	"errors"
	"strings"
)

// ErrInvalidActionShape is returned for records that have neither a type nor
// any response descriptors.
var ErrInvalidActionShape = errors.New("invalid action shape")

// ResponseKind is the lifecycle stage encoded at the end of a composite type.
type ResponseKind string

const (
	Request ResponseKind = "REQUEST"
	Success ResponseKind = "SUCCESS"
	Failure ResponseKind = "FAILURE"
)

// ResponseKinds lists the stages in dispatch order.
var ResponseKinds = []ResponseKind{Request, Success, Failure}

// Valid reports whether k is one of the known stages.
func (k ResponseKind) Valid() bool {
	switch k {
	case Request, Success, Failure:
		return true
	}
	return false
}

// Kind identifies which variant a Record is.
type Kind int

const (
	KindEmitting Kind = iota + 1
	KindReturning
	KindPlain
)

func (k Kind) String() string {
	switch k {
	case KindEmitting:
		return "emitting"
	case KindReturning:
		return "returning"
	case KindPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// Record is implemented by Emitting, Returning and Plain only.
type Record interface {
	Kind() Kind
	// TimestampOverride returns the explicit timestamp, or "" when absent.
	TimestampOverride() string
	isRecord()
}

// Descriptor describes one possible response to an emitted request.
type Descriptor struct {
	Type string // composite type, e.g. "FETCH_SITE_SUCCESS"
	ID   string // resource id from the descriptor metadata; "" when absent
}

// Emitting is an async request on its way out.
type Emitting struct {
	Descriptors []Descriptor
	Now         string
}

// Returning is an async response that has arrived.
type Returning struct {
	Type string
	ID   string
	Now  string
}

// Field is one extra member of a Plain action, in declaration order.
type Field struct {
	Name  string
	Value any
}

// Plain is a synchronous, non-networked action.
type Plain struct {
	Type   string
	ID     string
	Fields []Field
	Now    string
}

func (Emitting) Kind() Kind  { return KindEmitting }
func (Returning) Kind() Kind { return KindReturning }
func (Plain) Kind() Kind     { return KindPlain }

func (e Emitting) TimestampOverride() string  { return e.Now }
func (r Returning) TimestampOverride() string { return r.Now }
func (p Plain) TimestampOverride() string     { return p.Now }

func (Emitting) isRecord()  {}
func (Returning) isRecord() {}
func (Plain) isRecord()     {}

var (
	_ Record = Emitting{}
	_ Record = Returning{}
	_ Record = Plain{}
)

// SplitType splits a type name at its last underscore. For "FETCH_SITE_SUCCESS"
// it returns ("FETCH_SITE", "SUCCESS"). A name without an underscore has an
// empty base.
func SplitType(typ string) (base, end string) {
	i := strings.LastIndexByte(typ, '_')
	if i < 0 {
		return "", typ
	}
	return typ[:i], typ[i+1:]
}

// ParseComposite returns the base and stage of a composite type name. ok is
// false when the final segment is not a stage or the base is empty.
func ParseComposite(typ string) (base string, kind ResponseKind, ok bool) {
	base, end := SplitType(typ)
	kind = ResponseKind(end)
	if base == "" || !kind.Valid() {
		return "", "", false
	}
	return base, kind, true
}

// TypeName returns the type a record is known by in the pipeline. Emitting
// records are named after their first descriptor.
func TypeName(rec Record) string {
	switch r := rec.(type) {
	case Returning:
		return r.Type
	case Plain:
		return r.Type
	case Emitting:
		if len(r.Descriptors) > 0 {
			return r.Descriptors[0].Type
		}
	}
	return ""
}

// ResponseTypes returns the composite type of every descriptor.
func ResponseTypes(e Emitting) []string {
	types := make([]string, len(e.Descriptors))
	for i, d := range e.Descriptors {
		types[i] = d.Type
	}
	return types
}

// NewRequest builds the Emitting record for an async call on base, with one
// descriptor per stage. id may be empty for global requests.
func NewRequest(base, id string) Emitting {
	descs := make([]Descriptor, 0, len(ResponseKinds))
	for _, k := range ResponseKinds {
		descs = append(descs, Descriptor{Type: base + "_" + string(k), ID: id})
	}
	return Emitting{Descriptors: descs}
}

// Classify reports the variant a record should be treated as, or
// ErrInvalidActionShape. A Plain value whose type is composite is treated as
// Returning, matching how a pipeline record with a BASE_STAGE type behaves.
func Classify(rec Record) (Kind, error) {
	switch r := rec.(type) {
	case Returning:
		if r.Type == "" {
			return 0, ErrInvalidActionShape
		}
		if _, _, ok := ParseComposite(r.Type); ok {
			return KindReturning, nil
		}
		return KindPlain, nil
	case Plain:
		if r.Type == "" {
			return 0, ErrInvalidActionShape
		}
		if _, _, ok := ParseComposite(r.Type); ok {
			return KindReturning, nil
		}
		return KindPlain, nil
	case Emitting:
		if len(r.Descriptors) == 0 {
			return 0, ErrInvalidActionShape
		}
		return KindEmitting, nil
	}
	return 0, ErrInvalidActionShape
}
