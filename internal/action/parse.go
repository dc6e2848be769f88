// ABOUTME: Decodes raw JSON pipeline records into the Record tagged union
// ABOUTME: Uses gjson so Plain fields keep their document order

package action

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// CallAPIKey is the member that marks an emitting request record.
const CallAPIKey = "CALL_API"

// Reserved member names on Plain records. They never become extra fields.
const (
	FieldType   = "type"
	FieldID     = "id"
	FieldSiteID = "siteID"
	FieldNow    = "now"
)

// ParseJSON decodes one JSON object into a Record.
func ParseJSON(data []byte) (Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidActionShape)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: record is not an object", ErrInvalidActionShape)
	}

	now := root.Get(FieldNow).String()

	if typ := root.Get(FieldType); typ.Type == gjson.String && typ.Str != "" {
		if _, _, ok := ParseComposite(typ.Str); ok {
			return Returning{
				Type: typ.Str,
				ID:   idString(root.Get("meta.id")),
				Now:  now,
			}, nil
		}
		return parsePlain(root, typ.Str, now), nil
	}

	call := root.Get(CallAPIKey)
	if !call.Exists() {
		return nil, fmt.Errorf("%w: no type and no %s member", ErrInvalidActionShape, CallAPIKey)
	}
	types := call.Get("types")
	if !types.IsArray() || len(types.Array()) == 0 {
		return nil, fmt.Errorf("%w: %s has no response types", ErrInvalidActionShape, CallAPIKey)
	}

	var descs []Descriptor
	for _, t := range types.Array() {
		switch {
		case t.Type == gjson.String:
			descs = append(descs, Descriptor{Type: t.Str})
		case t.IsObject():
			descs = append(descs, Descriptor{
				Type: t.Get("type").String(),
				ID:   idString(t.Get("meta.id")),
			})
		default:
			return nil, fmt.Errorf("%w: unsupported response type entry %s", ErrInvalidActionShape, t.Raw)
		}
	}
	return Emitting{Descriptors: descs, Now: now}, nil
}

func parsePlain(root gjson.Result, typ, now string) Plain {
	p := Plain{Type: typ, Now: now}

	// siteID wins over id when both are set.
	if id := idString(root.Get(FieldSiteID)); id != "" {
		p.ID = id
	} else {
		p.ID = idString(root.Get(FieldID))
	}

	root.ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case FieldType, FieldID, FieldSiteID, FieldNow:
			return true
		}
		p.Fields = append(p.Fields, Field{Name: key.Str, Value: fieldValue(value)})
		return true
	})
	return p
}

// idString renders an id member. Missing, null, false, zero and empty ids are
// all treated as absent.
func idString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		if r.Num == 0 {
			return ""
		}
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	case gjson.True:
		return "true"
	}
	return ""
}

func fieldValue(r gjson.Result) any {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Num
	case gjson.True, gjson.False:
		return r.Bool()
	case gjson.Null:
		return nil
	default:
		return r.Value()
	}
}
