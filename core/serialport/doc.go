// Package serialport opens the two serial links of the relay with go.bug.st/serial.
//
// The scoring console talks 9600 baud with even parity; the transfer link from
// the meet-management PC runs at 115200 baud without parity. Both are opened
// with a short read timeout so that a Read with no pending data returns
// (0, nil) quickly and the caller's loop stays responsive.
package serialport
