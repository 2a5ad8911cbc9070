package model

// ViolationCode identifies the kind of integrity event. The constants below are
// the known vocabulary; any other string a client reports is an unknown
// external code and is still accepted (see IsKnown).
type ViolationCode string

const (
	CodeNoFace             ViolationCode = "no_face"
	CodeMultipleFaces      ViolationCode = "multiple_faces"
	CodeGazeLeft           ViolationCode = "gaze_left"
	CodeGazeRight          ViolationCode = "gaze_right"
	CodePhoneDetected      ViolationCode = "phone_detected"
	CodePermissionsBlocked ViolationCode = "permissions_blocked"
	CodeFullscreenDenied   ViolationCode = "fullscreen_denied"
	CodeFullscreenExit     ViolationCode = "fullscreen_exit"
	CodeTabHidden          ViolationCode = "tab_hidden"
	CodeWindowBlur         ViolationCode = "window_blur"
	CodeNotesDetected      ViolationCode = "notes_detected"
	CodeBookDetected       ViolationCode = "book_detected"
	CodePaperDetected      ViolationCode = "paper_detected"
	CodeAudioNoise         ViolationCode = "audio_noise"

	// CodeUnknown is recorded when a client reports a violation without a type.
	CodeUnknown ViolationCode = "unknown"
)

var knownCodes = map[ViolationCode]struct{}{
	CodeNoFace: {}, CodeMultipleFaces: {}, CodeGazeLeft: {}, CodeGazeRight: {},
	CodePhoneDetected: {}, CodePermissionsBlocked: {}, CodeFullscreenDenied: {},
	CodeFullscreenExit: {}, CodeTabHidden: {}, CodeWindowBlur: {}, CodeNotesDetected: {},
	CodeBookDetected: {}, CodePaperDetected: {}, CodeAudioNoise: {},
}

// severeCodes carry enough evidentiary value to keep a screenshot.
var severeCodes = map[ViolationCode]struct{}{
	CodePhoneDetected: {}, CodeMultipleFaces: {}, CodeNoFace: {}, CodePermissionsBlocked: {},
	CodeFullscreenExit: {}, CodeFullscreenDenied: {}, CodeTabHidden: {}, CodeWindowBlur: {},
	CodeNotesDetected: {}, CodeBookDetected: {}, CodePaperDetected: {},
}

// IsKnown reports whether c belongs to the known vocabulary.
func (c ViolationCode) IsKnown() bool {
	_, ok := knownCodes[c]
	return ok
}

// KnownCodes returns the known vocabulary in no particular order.
func KnownCodes() []ViolationCode {
	out := make([]ViolationCode, 0, len(knownCodes))
	for c := range knownCodes {
		out = append(out, c)
	}
	return out
}

// RetainsScreenshot reports whether a screenshot supplied with c is persisted.
func (c ViolationCode) RetainsScreenshot() bool {
	_, ok := severeCodes[c]
	return ok
}

func (c ViolationCode) String() string {
	return string(c)
}

// ViolationCodesToStrings flattens codes for JSON responses.
func ViolationCodesToStrings(codes []ViolationCode) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, string(c))
	}
	return out
}
