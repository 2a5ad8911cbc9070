package model

import "image"

type Gaze string

const (
	GazeLeft   Gaze = "left"
	GazeRight  Gaze = "right"
	GazeCenter Gaze = "center"
	GazeNoFace Gaze = "no_face"
)

// Frame is one decoded webcam image. Raw and MIMEType keep the original
// payload for extractors that need the encoded bytes.
type Frame struct {
	Image    image.Image
	Raw      []byte
	MIMEType string
}

// FrameSignals is what the signal extractor reports for one frame.
type FrameSignals struct {
	FaceCount    int  `json:"face_count"`
	Gaze         Gaze `json:"gaze"`
	PhonePresent bool `json:"phone_present"`
}
