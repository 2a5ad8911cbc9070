package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

type violationFixture struct {
	db       *gorm.DB
	fs       afero.Fs
	svc      ViolationService
	notifier *recordingNotifier
}

func newViolationFixture(t *testing.T, fs afero.Fs) violationFixture {
	t.Helper()
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	store := NewScreenshotStore(fs, testConfig())
	svc := NewViolationService(db, repository.NewViolationRepository(db), store, notifier)
	return violationFixture{db: db, fs: fs, svc: svc, notifier: notifier}
}

func (f violationFixture) violations(t *testing.T, userID uint) []model.Violation {
	t.Helper()
	var out []model.Violation
	if err := f.db.Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		t.Fatalf("load violations: %v", err)
	}
	return out
}

func countSnapshots(t *testing.T, fs afero.Fs) int {
	t.Helper()
	entries, err := afero.ReadDir(fs, filepath.Join("static", snapshotDir))
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatalf("read snapshot dir: %v", err)
	}
	return len(entries)
}

func TestRecordKeepsOnePhoneScreenshotPerExam(t *testing.T) {
	f := newViolationFixture(t, afero.NewMemMapFs())
	student := seedStudent(t, f.db, "alice")
	sc := studentSession(student, strPtr("MATH101"))
	shot := pngDataURL(t)
	ctx := context.Background()

	first, err := f.svc.Record(ctx, sc, "phone_detected", shot)
	if err != nil {
		t.Fatalf("first Record: %v", err)
	}
	second, err := f.svc.Record(ctx, sc, "phone_detected", shot)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if first.ScreenshotPath == nil {
		t.Fatal("first phone report lost its screenshot")
	}
	if second.ScreenshotPath != nil {
		t.Errorf("second phone report kept screenshot %s", *second.ScreenshotPath)
	}

	rows := f.violations(t, student.ID)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if countSnapshots(t, f.fs) != 1 {
		t.Errorf("snapshot files = %d, want 1", countSnapshots(t, f.fs))
	}

	// Another exam gets its own evidence slot.
	other, err := f.svc.Record(ctx, studentSession(student, strPtr("HIST1")), "phone_detected", shot)
	if err != nil {
		t.Fatalf("other exam Record: %v", err)
	}
	if other.ScreenshotPath == nil {
		t.Error("phone report for a different exam lost its screenshot")
	}
	if f.notifier.count() != 3 {
		t.Errorf("notified %d violations, want 3", f.notifier.count())
	}
}

func TestRecordConcurrentPhoneReports(t *testing.T) {
	f := newViolationFixture(t, afero.NewMemMapFs())
	student := seedStudent(t, f.db, "bob")
	sc := studentSession(student, strPtr("CHEM"))
	shot := pngDataURL(t)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Record(context.Background(), sc, "phone_detected", shot); err != nil {
				t.Errorf("Record: %v", err)
			}
		}()
	}
	wg.Wait()

	rows := f.violations(t, student.ID)
	if len(rows) != n {
		t.Fatalf("rows = %d, want %d", len(rows), n)
	}
	withShot := 0
	for _, v := range rows {
		if v.ScreenshotPath != nil {
			withShot++
		}
	}
	if withShot != 1 {
		t.Errorf("violations with screenshot = %d, want 1", withShot)
	}
	count, err := repository.NewViolationRepository(f.db).CountPhoneScreenshots(context.Background(), student.ID, strPtr("CHEM"))
	if err != nil || count != 1 {
		t.Errorf("CountPhoneScreenshots = %d, %v", count, err)
	}
	if countSnapshots(t, f.fs) != 1 {
		t.Errorf("snapshot files = %d, want 1", countSnapshots(t, f.fs))
	}
}

func TestRecordScreenshotPolicy(t *testing.T) {
	f := newViolationFixture(t, afero.NewMemMapFs())
	student := seedStudent(t, f.db, "carol")
	sc := studentSession(student, strPtr("BIO"))
	shot := pngDataURL(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		typ        string
		screenshot string
		wantType   string
		wantShot   bool
	}{
		{"severe type keeps screenshot", "tab_hidden", shot, "tab_hidden", true},
		{"gaze never keeps screenshot", "gaze_left", shot, "gaze_left", false},
		{"audio never keeps screenshot", "audio_noise", shot, "audio_noise", false},
		{"malformed screenshot still recorded", "multiple_faces", "data:image/png;base64,!!!", "multiple_faces", false},
		{"non-image screenshot still recorded", "no_face", "data:text/plain;base64,aGVsbG8=", "no_face", false},
		{"missing type is unknown", "", "", "unknown", false},
		{"unknown external code accepted", "screen_share_started", shot, "screen_share_started", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.svc.Record(ctx, sc, tt.typ, tt.screenshot)
			if err != nil {
				t.Fatalf("Record: %v", err)
			}
			if v.Type != tt.wantType {
				t.Errorf("type = %s, want %s", v.Type, tt.wantType)
			}
			if (v.ScreenshotPath != nil) != tt.wantShot {
				t.Errorf("screenshot = %v, want present=%v", v.ScreenshotPath, tt.wantShot)
			}
			if v.ExamCode == nil || *v.ExamCode != "BIO" {
				t.Errorf("exam code = %v", v.ExamCode)
			}
		})
	}
	if got := len(f.violations(t, student.ID)); got != len(tests) {
		t.Errorf("rows = %d, want %d", got, len(tests))
	}
}

func TestRecordWithoutSelectedExam(t *testing.T) {
	f := newViolationFixture(t, afero.NewMemMapFs())
	student := seedStudent(t, f.db, "dave")
	sc := studentSession(student, nil)
	shot := pngDataURL(t)

	first, err := f.svc.Record(context.Background(), sc, "phone_detected", shot)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := f.svc.Record(context.Background(), sc, "phone_detected", shot)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ExamCode != nil {
		t.Errorf("exam code = %v, want nil", *first.ExamCode)
	}
	if first.ScreenshotPath == nil || second.ScreenshotPath != nil {
		t.Errorf("screenshots = %v / %v, want only the first", first.ScreenshotPath, second.ScreenshotPath)
	}
}

func TestRecordSurvivesStorageFailure(t *testing.T) {
	f := newViolationFixture(t, afero.NewReadOnlyFs(afero.NewMemMapFs()))
	student := seedStudent(t, f.db, "erin")
	sc := studentSession(student, strPtr("PHYS"))

	v, err := f.svc.Record(context.Background(), sc, "phone_detected", pngDataURL(t))
	if err != nil {
		t.Fatalf("Record must not fail on storage errors: %v", err)
	}
	if v.ScreenshotPath != nil {
		t.Errorf("screenshot path = %s, want nil", *v.ScreenshotPath)
	}
	if got := len(f.violations(t, student.ID)); got != 1 {
		t.Errorf("rows = %d, want 1", got)
	}
	var claims int64
	f.db.Model(&model.PhoneEvidenceClaim{}).Count(&claims)
	if claims != 0 {
		t.Errorf("claims = %d, want 0 after failed write", claims)
	}
}

// flakyStore fails the first Save and delegates afterwards.
type flakyStore struct {
	ScreenshotStore
	mu     sync.Mutex
	failed bool
}

func (s *flakyStore) Save(ctx context.Context, owner uint, data []byte, mimeType string) (string, error) {
	s.mu.Lock()
	if !s.failed {
		s.failed = true
		s.mu.Unlock()
		return "", ErrStorage
	}
	s.mu.Unlock()
	return s.ScreenshotStore.Save(ctx, owner, data, mimeType)
}

func TestPhoneEvidenceSlotSurvivesFailedWrite(t *testing.T) {
	db := newTestDB(t)
	fs := afero.NewMemMapFs()
	store := &flakyStore{ScreenshotStore: NewScreenshotStore(fs, testConfig())}
	svc := NewViolationService(db, repository.NewViolationRepository(db), store, nil)
	student := seedStudent(t, db, "frank")
	sc := studentSession(student, strPtr("ART"))
	shot := pngDataURL(t)

	first, err := svc.Record(context.Background(), sc, "phone_detected", shot)
	if err != nil || first.ScreenshotPath != nil {
		t.Fatalf("first Record = %+v, %v", first, err)
	}
	second, err := svc.Record(context.Background(), sc, "phone_detected", shot)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if second.ScreenshotPath == nil {
		t.Error("evidence slot was not released after the failed write")
	}
}

// racingStore lets another report take the phone slot while the file is
// being written, then delegates.
type racingStore struct {
	ScreenshotStore
	db    *gorm.DB
	mu    sync.Mutex
	saves int
}

func (s *racingStore) Save(ctx context.Context, owner uint, data []byte, mimeType string) (string, error) {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	// Runs on the shared connection, so it only completes when no
	// transaction is open during the write.
	claim := model.PhoneEvidenceClaim{UserID: owner, ExamKey: "LAW"}
	if err := s.db.Create(&claim).Error; err != nil {
		return "", err
	}
	return s.ScreenshotStore.Save(ctx, owner, data, mimeType)
}

func TestPhoneScreenshotDiscardedWhenClaimLost(t *testing.T) {
	db := newTestDB(t)
	fs := afero.NewMemMapFs()
	store := &racingStore{ScreenshotStore: NewScreenshotStore(fs, testConfig()), db: db}
	svc := NewViolationService(db, repository.NewViolationRepository(db), store, nil)
	student := seedStudent(t, db, "hank")
	sc := studentSession(student, strPtr("LAW"))
	shot := pngDataURL(t)

	v, err := svc.Record(context.Background(), sc, "phone_detected", shot)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if v.ScreenshotPath != nil {
		t.Errorf("screenshot path = %s, want nil after losing the claim", *v.ScreenshotPath)
	}
	if n := countSnapshots(t, fs); n != 0 {
		t.Errorf("snapshot files = %d, want 0", n)
	}

	// The slot is visibly taken now, so no file is written at all.
	if _, err := svc.Record(context.Background(), sc, "phone_detected", shot); err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("Save calls = %d, want 1", store.saves)
	}
	var rows int64
	db.Model(&model.Violation{}).Where("user_id = ?", student.ID).Count(&rows)
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}
}

func TestListByUserNewestFirst(t *testing.T) {
	f := newViolationFixture(t, afero.NewMemMapFs())
	student := seedStudent(t, f.db, "gina")
	sc := studentSession(student, strPtr("GEO"))
	for _, typ := range []string{"tab_hidden", "window_blur", "gaze_left"} {
		if _, err := f.svc.Record(context.Background(), sc, typ, ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	list, err := f.svc.ListByUser(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 || list[0].Type != "gaze_left" {
		t.Errorf("list = %+v", list)
	}
}
