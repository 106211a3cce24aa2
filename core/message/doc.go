// Package message defines the JSON messages pushed to display clients.
//
// Every kind is a struct implementing Message. Its MarshalJSON produces the
// exact wire shape the display pages expect, for example
//
//	{"timerSync":{"running":true,"time":12.55,"timestamp":1718200000.25}}
//	{"finishTime":{"lane":3,"time":"01:02.34","place":"1","swimmer":"John SMITH","type":"FINISH","timeNumber":2,"label":"Finish"}}
//
// Producers hand messages to the hub queue; the hub marshals each one once and
// writes the bytes to every client.
package message
