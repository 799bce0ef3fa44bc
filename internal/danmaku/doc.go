// Package danmaku defines the comment payload streamed by the danmaku server.
//
// Wire format: one text frame per comment carrying a JSON object
//
//	{"user": "<name>", "text": "<comment>"}
//
// Frames that do not match this shape are dropped by the caller; Decode only
// reports why.
package danmaku
