// Package roster reads the event files shipped by the meet-management PC.
//
// Each event is a plain text file named E<id>.scb. Line 1 is the event title; the
// rest is a sequence of ten-line blocks, eight lane entries followed by two
// separator lines. A lane entry is "SURNAME,Forename   --CLUB" or "--" for an
// empty lane.
//
// Store caches parsed titles and heats per event id. The transfer loop calls
// Invalidate after it overwrites a file, while the console loop reads; the cache
// is safe for that concurrent use.
package roster
