// Package logpath derives the canonical log path for an action record.
//
// A path is an ordered list of segments, base first:
//
//	APPLES.ID_46.REQUEST            emitting request for resource 46
//	APPLES.ID_46.SUCCESS            its successful response
//	BANANAS.GLOBAL.FAILURE          failed response with no resource id
//	MULTI_ARG.ID_36.WHATEVER_MORE   plain action with scalar extras
//	KIWIS.GLOBAL                    plain action without extras
//
// Plain actions without scalar extras keep a two-segment path. Everything
// else has exactly three.
package logpath
