package model

import "testing"

func TestDeriveState(t *testing.T) {
	code := "MATH101"
	empty := ""
	tests := []struct {
		name      string
		sess      *ExamSession
		attempted bool
		want      AttemptState
	}{
		{"no session", nil, false, StateIdle},
		{"no exam", &ExamSession{Status: StateInProgress}, false, StateIdle},
		{"empty exam code", &ExamSession{ExamCode: &empty, Status: StateInProgress}, true, StateIdle},
		{"selected", &ExamSession{ExamCode: &code, Status: StateExamSelected}, false, StateExamSelected},
		{"readiness", &ExamSession{ExamCode: &code, Status: StateReadinessPending}, false, StateReadinessPending},
		{"in progress", &ExamSession{ExamCode: &code, Status: StateInProgress}, false, StateInProgress},
		{"attempt row wins", &ExamSession{ExamCode: &code, Status: StateInProgress}, true, StateSubmitted},
		{"submitted status without row", &ExamSession{ExamCode: &code, Status: StateSubmitted}, false, StateExamSelected},
		{"unknown status", &ExamSession{ExamCode: &code, Status: "bogus"}, false, StateExamSelected},
	}
	for _, tt := range tests {
		if got := DeriveState(tt.sess, tt.attempted); got != tt.want {
			t.Errorf("%s: DeriveState = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestViolationCode(t *testing.T) {
	if !CodePhoneDetected.IsKnown() || ViolationCode("custom").IsKnown() {
		t.Error("IsKnown mismatch")
	}
	for _, c := range []ViolationCode{CodeGazeLeft, CodeGazeRight, CodeAudioNoise, CodeUnknown} {
		if c.RetainsScreenshot() {
			t.Errorf("%s must not retain screenshots", c)
		}
	}
	for _, c := range []ViolationCode{CodePhoneDetected, CodeMultipleFaces, CodeNoFace, CodeTabHidden, CodeNotesDetected} {
		if !c.RetainsScreenshot() {
			t.Errorf("%s must retain screenshots", c)
		}
	}
}
