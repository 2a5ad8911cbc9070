package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/session"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// Every connection to :memory: is a new database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.Exam{},
		&model.Question{},
		&model.ExamAttempt{},
		&model.ExamSession{},
		&model.Violation{},
		&model.PhoneEvidenceClaim{},
		&model.Heartbeat{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.StaticDir = "static"
	cfg.Server.StaticPrefix = "/static"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Proctor.PhoneDetectionDefault = true
	cfg.Proctor.HeartbeatStaleAfter = 30 * time.Second
	return cfg
}

func seedStudent(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{Username: username, PasswordHash: "x", Role: model.RoleStudent}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return u
}

func seedExam(t *testing.T, db *gorm.DB, code string, answers ...string) (model.Exam, []model.Question) {
	t.Helper()
	exam := model.Exam{Code: code, Title: "Exam " + code}
	if err := db.Create(&exam).Error; err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	questions := make([]model.Question, 0, len(answers))
	for i, a := range answers {
		q := model.Question{
			ExamCode: code,
			Text:     fmt.Sprintf("Question %d", i+1),
			Option1:  "A", Option2: "B", Option3: "C", Option4: "D",
			Answer: a,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		questions = append(questions, q)
	}
	return exam, questions
}

func studentSession(u model.User, exam *string) session.Context {
	return session.Context{UserID: u.ID, Username: u.Username, Role: model.RoleStudent, SelectedExam: exam}
}

func strPtr(s string) *string { return &s }

// pngDataURL returns a small valid PNG as a data URL.
func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

type fakeExtractor struct {
	signals model.FrameSignals
	err     error
}

func (f *fakeExtractor) Extract(_ context.Context, _ model.Frame) (model.FrameSignals, error) {
	return f.signals, f.err
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen []model.Violation
}

func (n *recordingNotifier) NotifyViolation(v model.Violation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, v)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.seen)
}
