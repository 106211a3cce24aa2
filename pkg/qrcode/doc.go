// Package qrcode renders PNG QR codes with medium error correction.
//
// The relay shows a QR code of the public display URL so that tablets and
// phones around the pool can join the live results without typing an address.
//
//	png, err := qrcode.Generate("http://192.168.1.20:8001/", qrcode.DefaultSize)
//
//	dataURI, err := qrcode.GenerateBase64Image(url, 256) // "data:image/png;base64,..."
//
//	mux.Handle("GET /qrcode.png", qrcode.Handler(url, 0))
//
// Medium correction recovers from roughly 15% damage, enough for a code shown
// on a projector or printed on the poolside notice board.
package qrcode
