// ABOUTME: Tests for canonical path derivation
// ABOUTME: Covers emitting, returning and plain records plus Path helpers

package logpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/coven-throttle/internal/action"
)

func fakeAction(id, typ string) action.Plain {
	return action.Plain{
		Type: typ,
		ID:   id,
		Fields: []action.Field{
			{Name: "value", Value: "Whatever"},
			{Name: "value2", Value: "Whatever2"},
		},
	}
}

func TestResolve_OutgoingRequest(t *testing.T) {
	path, err := Resolve(action.NewRequest("APPLES", "46"))
	require.NoError(t, err)
	assert.Equal(t, "APPLES.ID_46.REQUEST", path.String())
}

func TestResolve_OutgoingRequestWithoutID(t *testing.T) {
	path, err := Resolve(action.NewRequest("BANANAS", ""))
	require.NoError(t, err)
	assert.Equal(t, Path{"BANANAS", Global, "REQUEST"}, path)
}

func TestResolve_IncomingResponse(t *testing.T) {
	path, err := Resolve(action.Returning{Type: "BASE_SUCCESS", ID: "42"})
	require.NoError(t, err)
	assert.Equal(t, Path{"BASE", "ID_42", "SUCCESS"}, path)
}

func TestResolve_IncomingResponseWithoutID(t *testing.T) {
	path, err := Resolve(action.Returning{Type: "BASE_REQUEST"})
	require.NoError(t, err)
	assert.Equal(t, Path{"BASE", "GLOBAL", "REQUEST"}, path)
}

func TestResolve_MultiWordBase(t *testing.T) {
	path, err := Resolve(action.Returning{Type: "SOME_ACTION_FAILURE", ID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, Path{"SOME_ACTION", "ID_ABC", "FAILURE"}, path)
}

func TestResolve_PlainWithID(t *testing.T) {
	path, err := Resolve(fakeAction("36", "MULTI_ARG"))
	require.NoError(t, err)
	assert.Equal(t, Path{"MULTI_ARG", "ID_36", "WHATEVER_WHATEVER2"}, path)
}

func TestResolve_PlainWithoutID(t *testing.T) {
	path, err := Resolve(fakeAction("", "MULTI_ARG"))
	require.NoError(t, err)
	assert.Equal(t, "MULTI_ARG.GLOBAL.WHATEVER_WHATEVER2", path.String())
}

func TestResolve_PlainWithoutExtrasHasTwoSegments(t *testing.T) {
	path, err := Resolve(action.Plain{Type: "LOGOUT"})
	require.NoError(t, err)
	assert.Equal(t, Path{"LOGOUT", "GLOBAL"}, path)
}

func TestResolve_PlainMixedFields(t *testing.T) {
	p := action.Plain{
		Type: "THIRD_ACTION",
		ID:   "155",
		Fields: []action.Field{
			{Name: "key", Value: "value"},
			{Name: "nested", Value: map[string]any{"a": 1}},
			{Name: "otherKey", Value: 4},
			{Name: "flag", Value: true},
			{Name: "finalKey", Value: "finalValue"},
			{Name: "now", Value: "ignored"},
			{Name: "ratio", Value: 1.5},
		},
	}
	path, err := Resolve(p)
	require.NoError(t, err)
	assert.Equal(t, Path{"THIRD_ACTION", "ID_155", "VALUE_4_FINALVALUE_1.5"}, path)
}

func TestResolve_PlainWithCompositeTypeIsAsync(t *testing.T) {
	path, err := Resolve(action.Plain{Type: "APPLES_SUCCESS", ID: "2"})
	require.NoError(t, err)
	assert.Equal(t, Path{"APPLES", "ID_2", "SUCCESS"}, path)
}

func TestResolve_UsesFirstDescriptor(t *testing.T) {
	rec := action.Emitting{Descriptors: []action.Descriptor{
		{Type: "PEARS_FAILURE", ID: "1"},
		{Type: "PEARS_REQUEST", ID: "2"},
	}}
	path, err := Resolve(rec)
	require.NoError(t, err)
	assert.Equal(t, Path{"PEARS", "ID_1", "FAILURE"}, path)
}

func TestResolve_InvalidShape(t *testing.T) {
	_, err := Resolve(action.Plain{})
	assert.ErrorIs(t, err, action.ErrInvalidActionShape)

	_, err = Resolve(action.Emitting{})
	assert.ErrorIs(t, err, action.ErrInvalidActionShape)

	_, err = Resolve(action.Emitting{Descriptors: []action.Descriptor{{Type: "NOT_ASYNC"}}})
	assert.ErrorIs(t, err, action.ErrInvalidActionShape)
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "GLOBAL", Identity(""))
	assert.Equal(t, "ID_42", Identity("42"))
	assert.Equal(t, "ID_SITE-A", Identity("site-a"))
}

func TestPath_WithTerminal(t *testing.T) {
	p := Path{"APPLES", "ID_2", "REQUEST"}
	q := p.WithTerminal("SUCCESS")

	assert.Equal(t, Path{"APPLES", "ID_2", "SUCCESS"}, q)
	assert.Equal(t, "REQUEST", p.Terminal(), "original path must not change")
	assert.Equal(t, Path{"X"}, Path{}.WithTerminal("X"))
}

func TestParse(t *testing.T) {
	p, err := Parse("APPLES.ID_1.REQUEST")
	require.NoError(t, err)
	assert.Equal(t, Path{"APPLES", "ID_1", "REQUEST"}, p)

	_, err = Parse("")
	assert.Error(t, err)

	_, err = Parse("APPLES..REQUEST")
	assert.Error(t, err)
}
