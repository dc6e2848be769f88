// ABOUTME: Canonical BASE.IDENTITY.TERMINAL paths derived from action records
// ABOUTME: Resolve classifies the record and builds its path segments

package logpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389/coven-throttle/internal/action"
)

// Global is the identity segment for records without a resource id.
const Global = "GLOBAL"

// Separator joins segments in the dotted string form.
const Separator = "."

// Path is a canonical log address, root segment first.
type Path []string

// String returns the dotted form, e.g. "APPLES.ID_46.REQUEST".
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Terminal returns the final segment, or "" for an empty path.
func (p Path) Terminal() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// WithTerminal returns a copy of p with its final segment replaced.
func (p Path) WithTerminal(seg string) Path {
	if len(p) == 0 {
		return Path{seg}
	}
	out := make(Path, len(p))
	copy(out, p)
	out[len(out)-1] = seg
	return out
}

// Parse splits a dotted path. Empty segments are rejected.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	segs := strings.Split(s, Separator)
	for i, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("path %q: empty segment at %d", s, i)
		}
	}
	return Path(segs), nil
}

// Identity returns "ID_<ID>" uppercased, or Global when id is empty.
func Identity(id string) string {
	if id == "" {
		return Global
	}
	return "ID_" + strings.ToUpper(id)
}

// Resolve derives the canonical path for rec.
func Resolve(rec action.Record) (Path, error) {
	kind, err := action.Classify(rec)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	switch kind {
	case action.KindReturning:
		typ, id := returningParts(rec)
		return asyncPath(typ, id)
	case action.KindEmitting:
		first := rec.(action.Emitting).Descriptors[0]
		return asyncPath(first.Type, first.ID)
	default:
		return plainPath(plainOf(rec)), nil
	}
}

func returningParts(rec action.Record) (typ, id string) {
	switch r := rec.(type) {
	case action.Returning:
		return r.Type, r.ID
	case action.Plain:
		return r.Type, r.ID
	}
	return "", ""
}

func plainOf(rec action.Record) action.Plain {
	switch r := rec.(type) {
	case action.Plain:
		return r
	case action.Returning:
		return action.Plain{Type: r.Type, ID: r.ID, Now: r.Now}
	}
	return action.Plain{}
}

func asyncPath(typ, id string) (Path, error) {
	base, kind, ok := action.ParseComposite(typ)
	if !ok {
		return nil, fmt.Errorf("resolving path: %w: %q is not a BASE_STAGE type", action.ErrInvalidActionShape, typ)
	}
	return Path{base, Identity(id), string(kind)}, nil
}

func plainPath(p action.Plain) Path {
	path := Path{p.Type, Identity(p.ID)}
	if extras := Extras(p); len(extras) > 0 {
		path = append(path, strings.Join(extras, "_"))
	}
	return path
}

// Extras returns the uppercased scalar field values of p in field order.
// Reserved names (type, id, siteID, now) and non-scalar values are skipped.
func Extras(p action.Plain) []string {
	var out []string
	for _, f := range p.Fields {
		switch f.Name {
		case action.FieldType, action.FieldID, action.FieldSiteID, action.FieldNow:
			continue
		}
		if s, ok := scalarString(f.Value); ok {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}
