package service

import "github.com/lshigami/proctorexam/internal/model"

// ClassifyFrame maps the signals of one frame to the violations it shows.
// Each rule is independent, so a frame yields zero or more codes.
func ClassifyFrame(signals model.FrameSignals, phoneDetectionEnabled bool) []model.ViolationCode {
	codes := make([]model.ViolationCode, 0, 3)

	switch {
	case signals.FaceCount <= 0:
		codes = append(codes, model.CodeNoFace)
	case signals.FaceCount > 1:
		codes = append(codes, model.CodeMultipleFaces)
	}

	switch signals.Gaze {
	case model.GazeLeft:
		codes = append(codes, model.CodeGazeLeft)
	case model.GazeRight:
		codes = append(codes, model.CodeGazeRight)
	}

	if phoneDetectionEnabled && signals.PhonePresent {
		codes = append(codes, model.CodePhoneDetected)
	}
	return codes
}
