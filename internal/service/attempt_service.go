package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
)

const (
	msgSelectExamFirst = "Please search and select an exam before starting."
	msgSignHonorCode   = "Please sign the honor code before continuing."
	msgReadinessChecks = "Complete system readiness checks (focus + audio device scan) before starting the exam."
)

func errAlreadyAttempted(code string) error {
	return conflict("You have already attempted exam %s. Only one attempt is allowed.", code)
}

// AttemptService drives a student through
// Idle -> ExamSelected -> ReadinessPending -> InProgress -> Submitted.
// The effective state is re-derived from the store on every call.
type AttemptService interface {
	Dashboard(ctx context.Context, sc session.Context) (*dto.DashboardDTO, error)
	SelectExam(ctx context.Context, sc session.Context, code string) (*dto.SessionStateDTO, error)
	EnterReadiness(ctx context.Context, sc session.Context) (*dto.SessionStateDTO, error)
	CompleteReadiness(ctx context.Context, sc session.Context, req dto.ReadinessDTO) (*dto.SessionStateDTO, error)
	ExamContent(ctx context.Context, sc session.Context) (*dto.ExamContentDTO, error)
	Submit(ctx context.Context, sc session.Context, answers map[string]string) (*dto.SubmitResultDTO, error)
}

type attemptService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.ExamAttemptRepository
	sessionRepo  repository.ExamSessionRepository
	now          func() time.Time
}

func NewAttemptService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.ExamAttemptRepository,
	sessionRepo repository.ExamSessionRepository,
) AttemptService {
	return &attemptService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		sessionRepo:  sessionRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// snapshot is the persisted session plus the derived state.
type snapshot struct {
	sess      *model.ExamSession
	attempted bool
	state     model.AttemptState
}

func (s *attemptService) load(ctx context.Context, sc session.Context) (snapshot, error) {
	if sc.UserID == 0 || !sc.IsStudent() {
		return snapshot{}, ErrUnauthorized
	}
	sess, err := s.sessionRepo.FindByUser(ctx, sc.UserID)
	if err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Msg("load: failed to read exam session")
		return snapshot{}, fmt.Errorf("failed to load exam session: %w", err)
	}
	snap := snapshot{sess: sess}
	if sess != nil && sess.ExamCode != nil && *sess.ExamCode != "" {
		snap.attempted, err = s.attemptRepo.Exists(ctx, sc.UserID, *sess.ExamCode)
		if err != nil {
			log.Error().Err(err).Uint("userID", sc.UserID).Str("examCode", *sess.ExamCode).Msg("load: failed to check attempt")
			return snapshot{}, fmt.Errorf("failed to check attempt: %w", err)
		}
	}
	snap.state = model.DeriveState(sess, snap.attempted)
	return snap, nil
}

func (snap snapshot) examCode() string {
	if snap.sess == nil || snap.sess.ExamCode == nil {
		return ""
	}
	return *snap.sess.ExamCode
}

func (s *attemptService) stateDTO(ctx context.Context, snap snapshot, message string) (*dto.SessionStateDTO, error) {
	out := &dto.SessionStateDTO{
		State:     string(snap.state),
		Attempted: snap.attempted,
		Message:   message,
	}
	if code := snap.examCode(); code != "" {
		exam, err := s.examRepo.FindByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to load exam: %w", err)
		}
		if exam != nil {
			var examDTO dto.ExamResponseDTO
			if err := copier.Copy(&examDTO, exam); err != nil {
				return nil, fmt.Errorf("failed to map exam: %w", err)
			}
			out.SelectedExam = &examDTO
		}
	}
	return out, nil
}

func (s *attemptService) Dashboard(ctx context.Context, sc session.Context) (*dto.DashboardDTO, error) {
	snap, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	state, err := s.stateDTO(ctx, snap, "")
	if err != nil {
		return nil, err
	}

	rows, err := s.attemptRepo.FindByUser(ctx, sc.UserID)
	if err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Msg("Dashboard: failed to load attempts")
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	attempts := make([]dto.AttemptSummaryDTO, 0, len(rows))
	for _, r := range rows {
		summary := dto.AttemptSummaryDTO{ExamCode: r.ExamCode, Score: r.Score, SubmittedAt: r.SubmittedAt}
		if r.ExamTitle != nil {
			summary.ExamTitle = *r.ExamTitle
		}
		attempts = append(attempts, summary)
	}

	return &dto.DashboardDTO{Username: sc.Username, Session: *state, Attempts: attempts}, nil
}

func (s *attemptService) SelectExam(ctx context.Context, sc session.Context, code string) (*dto.SessionStateDTO, error) {
	snap, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalidInput("Please enter a valid exam code.")
	}
	exam, err := s.examRepo.FindByCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("examCode", code).Msg("SelectExam: failed to look up exam")
		return nil, fmt.Errorf("failed to look up exam: %w", err)
	}
	if exam == nil {
		log.Info().Uint("userID", sc.UserID).Str("examCode", code).Msg("SelectExam: unknown exam code, selection unchanged")
		return nil, notFound("No exam found for code %s.", code)
	}

	sess := &model.ExamSession{UserID: sc.UserID, ExamCode: &exam.Code, Status: model.StateExamSelected}
	if snap.sess != nil {
		sess.ID = snap.sess.ID
		sess.CreatedAt = snap.sess.CreatedAt
	}
	if err := s.sessionRepo.Upsert(ctx, sess); err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Msg("SelectExam: failed to persist selection")
		return nil, fmt.Errorf("failed to save selection: %w", err)
	}

	snap.sess = sess
	snap.attempted, err = s.attemptRepo.Exists(ctx, sc.UserID, exam.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check attempt: %w", err)
	}
	snap.state = model.DeriveState(sess, snap.attempted)
	log.Info().Uint("userID", sc.UserID).Str("examCode", exam.Code).Str("state", string(snap.state)).Msg("SelectExam: exam selected")
	return s.stateDTO(ctx, snap, fmt.Sprintf("Exam %s loaded. Review details below and start when ready.", exam.Code))
}

func (s *attemptService) EnterReadiness(ctx context.Context, sc session.Context) (*dto.SessionStateDTO, error) {
	snap, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	switch snap.state {
	case model.StateIdle:
		return nil, invalidInput(msgSelectExamFirst)
	case model.StateSubmitted:
		return nil, errAlreadyAttempted(snap.examCode())
	case model.StateExamSelected:
		sess := *snap.sess
		sess.Status = model.StateReadinessPending
		sess.Signature = ""
		sess.FocusVerified = false
		sess.AudioVerified = false
		sess.ReadyAt = nil
		if err := s.sessionRepo.Upsert(ctx, &sess); err != nil {
			log.Error().Err(err).Uint("userID", sc.UserID).Msg("EnterReadiness: failed to persist state")
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		snap.sess = &sess
		snap.state = model.StateReadinessPending
	}
	return s.stateDTO(ctx, snap, "")
}

func (s *attemptService) CompleteReadiness(ctx context.Context, sc session.Context, req dto.ReadinessDTO) (*dto.SessionStateDTO, error) {
	snap, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	switch snap.state {
	case model.StateIdle:
		return nil, invalidInput(msgSelectExamFirst)
	case model.StateSubmitted:
		return nil, errAlreadyAttempted(snap.examCode())
	case model.StateInProgress:
		return s.stateDTO(ctx, snap, "")
	}

	sess := *snap.sess
	signature := strings.TrimSpace(req.Signature)
	var gateErr error
	switch {
	case signature == "":
		gateErr = invalidInput(msgSignHonorCode)
	case !req.FocusCheckVerified || !req.AudioCheckVerified:
		gateErr = invalidInput(msgReadinessChecks)
	}
	if gateErr != nil {
		if sess.Status != model.StateReadinessPending {
			sess.Status = model.StateReadinessPending
			if err := s.sessionRepo.Upsert(ctx, &sess); err != nil {
				return nil, fmt.Errorf("failed to save session: %w", err)
			}
		}
		log.Info().Uint("userID", sc.UserID).Str("examCode", snap.examCode()).Msg("CompleteReadiness: readiness gate not satisfied")
		return nil, gateErr
	}

	readyAt := s.now()
	sess.Status = model.StateInProgress
	sess.Signature = signature
	sess.FocusVerified = true
	sess.AudioVerified = true
	sess.ReadyAt = &readyAt
	if err := s.sessionRepo.Upsert(ctx, &sess); err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Msg("CompleteReadiness: failed to persist state")
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	snap.sess = &sess
	snap.state = model.StateInProgress
	log.Info().Uint("userID", sc.UserID).Str("examCode", snap.examCode()).Msg("CompleteReadiness: exam started")
	return s.stateDTO(ctx, snap, "")
}

// requireInProgress applies the entry guard shared by exam content and submission.
func (s *attemptService) requireInProgress(snap snapshot) error {
	switch snap.state {
	case model.StateIdle:
		return invalidInput(msgSelectExamFirst)
	case model.StateSubmitted:
		return errAlreadyAttempted(snap.examCode())
	case model.StateInProgress:
		return nil
	default:
		return invalidInput(msgReadinessChecks)
	}
}

func (s *attemptService) ExamContent(ctx context.Context, sc session.Context) (*dto.ExamContentDTO, error) {
	snap, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.requireInProgress(snap); err != nil {
		return nil, err
	}
	code := snap.examCode()

	exam, err := s.examRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	questions, err := s.questionRepo.FindByExamCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("examCode", code).Msg("ExamContent: failed to load questions")
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if exam == nil || len(questions) == 0 {
		return nil, notFound("No questions found for exam code %s.", code)
	}

	out := &dto.ExamContentDTO{Questions: make([]dto.QuestionResponseDTO, 0, len(questions))}
	if err := copier.Copy(&out.Exam, exam); err != nil {
		return nil, fmt.Errorf("failed to map exam: %w", err)
	}
	for _, q := range questions {
		out.Questions = append(out.Questions, dto.QuestionResponseDTO{
			ID:       q.ID,
			ExamCode: q.ExamCode,
			Question: q.Text,
			Option1:  q.Option1,
			Option2:  q.Option2,
			Option3:  q.Option3,
			Option4:  q.Option4,
		})
	}
	return out, nil
}

func (s *attemptService) Submit(ctx context.Context, sc session.Context, answers map[string]string) (*dto.SubmitResultDTO, error) {
	snap, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.requireInProgress(snap); err != nil {
		return nil, err
	}
	code := snap.examCode()

	questions, err := s.questionRepo.FindByExamCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("examCode", code).Msg("Submit: failed to load questions")
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	score := scoreAnswers(questions, answers)

	attempt := model.ExamAttempt{UserID: sc.UserID, ExamCode: code, Score: score, SubmittedAt: s.now()}
	created, err := s.attemptRepo.CreateIfAbsent(ctx, &attempt)
	if err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Str("examCode", code).Msg("Submit: failed to insert attempt")
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	if !created {
		log.Warn().Uint("userID", sc.UserID).Str("examCode", code).Msg("Submit: concurrent submission rejected")
		return nil, errAlreadyAttempted(code)
	}

	sess := *snap.sess
	sess.Status = model.StateSubmitted
	if err := s.sessionRepo.Upsert(ctx, &sess); err != nil {
		// The attempt row alone makes the state terminal.
		log.Warn().Err(err).Uint("userID", sc.UserID).Msg("Submit: failed to persist session status")
	}

	log.Info().Uint("userID", sc.UserID).Str("examCode", code).Int("score", score).Int("total", len(questions)).Msg("Submit: exam submitted")
	return &dto.SubmitResultDTO{
		ExamCode:    code,
		Score:       score,
		Total:       len(questions),
		SubmittedAt: attempt.SubmittedAt,
		State:       string(model.StateSubmitted),
	}, nil
}

// scoreAnswers counts answers that exactly match the stored key of a question
// of this exam. Unknown or malformed ids score nothing.
func scoreAnswers(questions []model.Question, answers map[string]string) int {
	byID := make(map[uint]string, len(questions))
	for _, q := range questions {
		byID[q.ID] = q.Answer
	}
	score := 0
	for rawID, answer := range answers {
		id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			continue
		}
		if correct, ok := byID[uint(id)]; ok && correct == answer {
			score++
		}
	}
	return score
}
