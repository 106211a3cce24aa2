// Package transfer rebuilds event files sent over the transfer link.
//
// The meet-management PC streams each file as newline-delimited JSON records:
//
//	{"name":"E12.scb","seq":0,"size":512,"content":"<base64>"}
//	{"name":"E12.scb","seq":1,"size":87,"content":"<base64>"}
//	{"name":"E12.scb","final":true}
//
// Chunks may arrive in any order and records of different files may interleave.
// When the final marker has been seen and at least one chunk is buffered, the
// chunks are joined by ascending seq and written atomically into the roster
// directory. Writing an event file invalidates its cached roster.
package transfer
