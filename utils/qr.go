package utils

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCode renders content as a PNG. High error correction keeps codes
// readable on scratched phone screens.
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.High)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	err = png.Encode(buf, qr.Image(size))
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// QRDataURL returns the PNG as a data URL. The output depends only on content
// and size.
func QRDataURL(content string, size int) (string, error) {
	img, err := GenerateQRCode(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}

// DecodeDataURL extracts the PNG bytes from a data URL produced by QRDataURL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	const prefix = "data:image/png;base64,"
	if len(dataURL) > len(prefix) && dataURL[:len(prefix)] == prefix {
		dataURL = dataURL[len(prefix):]
	}
	return base64.StdEncoding.DecodeString(dataURL)
}
