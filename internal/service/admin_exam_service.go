package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var csvQuestionHeaders = []string{"question", "option1", "option2", "option3", "option4", "answer"}

type AdminService interface {
	CreateExam(ctx context.Context, req dto.ExamCreateDTO) (*dto.ExamResponseDTO, error)
	AddQuestion(ctx context.Context, examCode string, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	ImportQuestionsCSV(ctx context.Context, examCode string, r io.Reader) (*dto.ImportResultDTO, error)
	ListExams(ctx context.Context) ([]dto.ExamResponseDTO, error)
	ListStudents(ctx context.Context) ([]dto.StudentSummaryDTO, error)
	StudentDetail(ctx context.Context, userID uint) (*dto.StudentDetailDTO, error)
}

type adminService struct {
	examRepo      repository.ExamRepository
	questionRepo  repository.QuestionRepository
	attemptRepo   repository.ExamAttemptRepository
	userRepo      repository.UserRepository
	violationRepo repository.ViolationRepository
	riskService   RiskService
	heartbeats    HeartbeatService
}

func NewAdminService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.ExamAttemptRepository,
	userRepo repository.UserRepository,
	violationRepo repository.ViolationRepository,
	riskService RiskService,
	heartbeats HeartbeatService,
) AdminService {
	return &adminService{
		examRepo:      examRepo,
		questionRepo:  questionRepo,
		attemptRepo:   attemptRepo,
		userRepo:      userRepo,
		violationRepo: violationRepo,
		riskService:   riskService,
		heartbeats:    heartbeats,
	}
}

func normalizeExamCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *adminService) CreateExam(ctx context.Context, req dto.ExamCreateDTO) (*dto.ExamResponseDTO, error) {
	exam := model.Exam{
		Code:        normalizeExamCode(req.Code),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	if exam.Code == "" || exam.Title == "" {
		return nil, invalidInput("Exam code and title are required.")
	}

	created, err := s.examRepo.CreateIfAbsent(ctx, &exam)
	if err != nil {
		log.Error().Err(err).Str("examCode", exam.Code).Msg("CreateExam: failed to insert exam")
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	if !created {
		return nil, conflict("Exam code %s already exists.", exam.Code)
	}
	log.Info().Str("examCode", exam.Code).Msg("CreateExam: exam created")

	var out dto.ExamResponseDTO
	if err := copier.Copy(&out, &exam); err != nil {
		return nil, fmt.Errorf("failed to map exam: %w", err)
	}
	return &out, nil
}

func (s *adminService) requireExam(ctx context.Context, code string) (string, error) {
	code = normalizeExamCode(code)
	if code == "" {
		return "", invalidInput("Exam code is required.")
	}
	exam, err := s.examRepo.FindByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to look up exam: %w", err)
	}
	if exam == nil {
		return "", notFound("Exam code %s not found. Create the exam first.", code)
	}
	return exam.Code, nil
}

func (s *adminService) AddQuestion(ctx context.Context, examCode string, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	q := model.Question{
		Text:    strings.TrimSpace(req.Question),
		Option1: strings.TrimSpace(req.Option1),
		Option2: strings.TrimSpace(req.Option2),
		Option3: strings.TrimSpace(req.Option3),
		Option4: strings.TrimSpace(req.Option4),
		Answer:  strings.TrimSpace(req.Answer),
	}
	if q.Text == "" || q.Option1 == "" || q.Option2 == "" || q.Option3 == "" || q.Option4 == "" || q.Answer == "" {
		return nil, invalidInput("All question fields are required.")
	}
	code, err := s.requireExam(ctx, examCode)
	if err != nil {
		return nil, err
	}
	q.ExamCode = code

	if err := s.questionRepo.Create(ctx, &q); err != nil {
		log.Error().Err(err).Str("examCode", code).Msg("AddQuestion: failed to insert question")
		return nil, fmt.Errorf("failed to add question: %w", err)
	}
	log.Info().Str("examCode", code).Uint("questionID", q.ID).Msg("AddQuestion: question added")
	return &dto.QuestionResponseDTO{
		ID: q.ID, ExamCode: q.ExamCode, Question: q.Text,
		Option1: q.Option1, Option2: q.Option2, Option3: q.Option3, Option4: q.Option4,
	}, nil
}

func (s *adminService) ImportQuestionsCSV(ctx context.Context, examCode string, r io.Reader) (*dto.ImportResultDTO, error) {
	code, err := s.requireExam(ctx, examCode)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, invalidInput("CSV must include question, option1, option2, option3, option4, answer headers.")
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, h := range csvQuestionHeaders {
		if _, ok := index[h]; !ok {
			return nil, invalidInput("CSV must include question, option1, option2, option3, option4, answer headers.")
		}
	}

	field := func(row []string, name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var questions []model.Question
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidInput("CSV line %d could not be parsed.", line)
		}
		text := field(row, "question")
		if text == "" {
			continue
		}
		questions = append(questions, model.Question{
			ExamCode: code,
			Text:     text,
			Option1:  field(row, "option1"),
			Option2:  field(row, "option2"),
			Option3:  field(row, "option3"),
			Option4:  field(row, "option4"),
			Answer:   field(row, "answer"),
		})
	}

	if len(questions) > 0 {
		if err := s.questionRepo.CreateBatch(ctx, questions); err != nil {
			log.Error().Err(err).Str("examCode", code).Int("rows", len(questions)).Msg("ImportQuestionsCSV: failed to insert questions")
			return nil, fmt.Errorf("failed to import questions: %w", err)
		}
	}
	log.Info().Str("examCode", code).Int("added", len(questions)).Msg("ImportQuestionsCSV: questions imported")
	return &dto.ImportResultDTO{ExamCode: code, Added: len(questions)}, nil
}

func (s *adminService) ListExams(ctx context.Context) ([]dto.ExamResponseDTO, error) {
	exams, err := s.examRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exams: %w", err)
	}
	out := make([]dto.ExamResponseDTO, 0, len(exams))
	if err := copier.Copy(&out, &exams); err != nil {
		return nil, fmt.Errorf("failed to map exams: %w", err)
	}
	return out, nil
}

func (s *adminService) ListStudents(ctx context.Context) ([]dto.StudentSummaryDTO, error) {
	risks, err := s.riskService.AllStudentRisks(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.attemptRepo.CountByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	attempts, err := s.attemptRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	countByUser := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByUser[c.UserID] = c.Attempts
	}
	lastByUser := make(map[uint]time.Time)
	for _, a := range attempts {
		if last, ok := lastByUser[a.UserID]; !ok || a.SubmittedAt.After(last) {
			lastByUser[a.UserID] = a.SubmittedAt
		}
	}

	out := make([]dto.StudentSummaryDTO, 0, len(risks))
	for _, r := range risks {
		summary := dto.StudentSummaryDTO{
			UserID:    r.UserID,
			Username:  r.Username,
			Attempts:  countByUser[r.UserID],
			RiskScore: r.Score,
		}
		if last, ok := lastByUser[r.UserID]; ok {
			last := last
			summary.LastAttemptAt = &last
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *adminService) StudentDetail(ctx context.Context, userID uint) (*dto.StudentDetailDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user.Role != model.RoleStudent) {
		return nil, notFound("Student %d not found.", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	risk, err := s.riskService.StudentRisk(ctx, userID)
	if err != nil {
		return nil, err
	}
	risk.Username = user.Username

	rows, err := s.attemptRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	attempts := make([]dto.AttemptSummaryDTO, 0, len(rows))
	liveness := make([]dto.LivenessDTO, 0, len(rows))
	for _, r := range rows {
		summary := dto.AttemptSummaryDTO{ExamCode: r.ExamCode, Score: r.Score, SubmittedAt: r.SubmittedAt}
		if r.ExamTitle != nil {
			summary.ExamTitle = *r.ExamTitle
		}
		attempts = append(attempts, summary)

		code := r.ExamCode
		l, err := s.heartbeats.Liveness(ctx, userID, &code)
		if err != nil {
			return nil, err
		}
		liveness = append(liveness, l)
	}

	violations, err := s.violationRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load violations: %w", err)
	}
	violationDTOs := make([]dto.ViolationDTO, 0, len(violations))
	if err := copier.Copy(&violationDTOs, &violations); err != nil {
		return nil, fmt.Errorf("failed to map violations: %w", err)
	}

	byExam, err := s.violationRepo.CountByExam(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count violations: %w", err)
	}
	perExam := make(map[string]int64, len(byExam))
	for _, c := range byExam {
		key := "N/A"
		if c.ExamCode != nil && *c.ExamCode != "" {
			key = *c.ExamCode
		}
		perExam[key] += c.Count
	}

	return &dto.StudentDetailDTO{
		UserID:          user.ID,
		Username:        user.Username,
		Risk:            risk,
		Attempts:        attempts,
		Violations:      violationDTOs,
		ViolationCounts: perExam,
		Liveness:        liveness,
	}, nil
}
