// Package action defines the records that flow through the dispatch pipeline.
//
// # Record Shapes
//
// A Record is one of three variants:
//
//   - Emitting: an async request about to go out. It has no type of its own,
//     only a list of response descriptors (usually BASE_REQUEST, BASE_SUCCESS,
//     BASE_FAILURE), the first of which names the request.
//   - Returning: an async response that has arrived, typed BASE_REQUEST,
//     BASE_SUCCESS or BASE_FAILURE.
//   - Plain: a synchronous action with an arbitrary type and extra fields.
//
// Every variant may carry an explicit timestamp override (Now) which the
// action log stores verbatim instead of reading the clock.
//
// # Decoding
//
// ParseJSON turns a raw JSON record into one of the variants. Member order is
// preserved for Plain fields because the log path depends on it:
//
//	rec, err := action.ParseJSON([]byte(`{"type":"SAVE","id":3,"name":"draft"}`))
//	// rec is action.Plain{Type: "SAVE", ID: "3", Fields: [{name draft}]}
//
// Emitting records are recognized by a CALL_API member holding a types array.
package action
