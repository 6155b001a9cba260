package utils

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// RenderQRCode encodes the payload as a scannable PNG and returns it as a
// data URL. If PNG rendering fails the raw payload is still returned as a
// base64 data payload so redemption keeps working.
func RenderQRCode(data string) string {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		fmt.Printf("⚠️ QR render failed for %q, using base64 fallback: %v\n", data, err)
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(data))
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
