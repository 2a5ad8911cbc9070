package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lshigami/proctorexam/internal/model"
)

// decodeImagePayload decodes a data URL (or bare base64) into raw image
// bytes and their detected MIME type. Non-image payloads are rejected.
func decodeImagePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", fmt.Errorf("empty image payload")
	}
	if idx := strings.LastIndex(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", fmt.Errorf("image payload is not valid base64: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("image payload decoded to zero bytes")
	}

	mtype := mimetype.Detect(raw)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "", fmt.Errorf("payload is %s, not an image", mtype.String())
	}
	return raw, mtype.String(), nil
}

// decodeFrame turns an analyze payload into a decoded color image.
func decodeFrame(payload string) (model.Frame, error) {
	raw, mimeType, err := decodeImagePayload(payload)
	if err != nil {
		return model.Frame{}, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return model.Frame{}, fmt.Errorf("failed to decode %s frame: %w", mimeType, err)
	}
	return model.Frame{Image: img, Raw: raw, MIMEType: mimeType}, nil
}

// imageExtension picks a file extension for a detected image MIME type.
func imageExtension(mimeType string) string {
	if ext := mimetype.Lookup(mimeType); ext != nil && ext.Extension() != "" {
		return ext.Extension()
	}
	return ".jpg"
}
