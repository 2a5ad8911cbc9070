package admin

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lshigami/proctorexam/internal/controller"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/service"
	"github.com/lshigami/proctorexam/internal/ws"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	adminService     service.AdminService
	heartbeatService service.HeartbeatService
	hub              *ws.Hub
}

func NewAdminController(adminService service.AdminService, heartbeatService service.HeartbeatService, hub *ws.Hub) *AdminController {
	return &AdminController{adminService: adminService, heartbeatService: heartbeatService, hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ListExams godoc
// @Summary (Admin) List exams
// @Tags Admin - Exams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ExamResponseDTO
// @Router /admin/exams [get]
func (c *AdminController) ListExams(ctx *gin.Context) {
	exams, err := c.adminService.ListExams(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "Admin ListExams", err)
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// CreateExam godoc
// @Summary (Admin) Create an exam
// @Description The exam code is stored upper-cased and must be unique.
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam body dto.ExamCreateDTO true "Exam"
// @Success 201 {object} dto.ExamResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Exam code and title are required"
// @Failure 409 {object} dto.ErrorResponse "Exam code already exists"
// @Router /admin/exams [post]
func (c *AdminController) CreateExam(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Admin CreateExam", err)
		return
	}
	exam, err := c.adminService.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateExam", err)
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to an exam
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Exam code"
// @Param question body dto.QuestionCreateDTO true "Question"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "All question fields are required"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /admin/exams/{code}/questions [post]
func (c *AdminController) AddQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Admin AddQuestion", err)
		return
	}
	q, err := c.adminService.AddQuestion(ctx.Request.Context(), ctx.Param("code"), req)
	if err != nil {
		controller.RespondError(ctx, "Admin AddQuestion", err)
		return
	}
	ctx.JSON(http.StatusCreated, q)
}

// ImportQuestions godoc
// @Summary (Admin) Import questions from CSV
// @Description CSV header must include question, option1, option2, option3, option4, answer. Rows without a question are skipped.
// @Tags Admin - Exams
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param code path string true "Exam code"
// @Param form_file formData file true "CSV file"
// @Success 201 {object} dto.ImportResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /admin/exams/{code}/questions/import [post]
func (c *AdminController) ImportQuestions(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("form_file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Exam code and CSV file are required."})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Only CSV files are supported for form uploads."})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		controller.RespondError(ctx, "Admin ImportQuestions", err)
		return
	}
	defer f.Close()

	result, err := c.adminService.ImportQuestionsCSV(ctx.Request.Context(), ctx.Param("code"), f)
	if err != nil {
		controller.RespondError(ctx, "Admin ImportQuestions", err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListStudents godoc
// @Summary (Admin) Students with attempt counts and risk scores
// @Tags Admin - Students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StudentSummaryDTO
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	students, err := c.adminService.ListStudents(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "Admin ListStudents", err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

func parseStudentID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid student id"})
		return 0, false
	}
	return uint(id), true
}

// StudentDetail godoc
// @Summary (Admin) Student detail
// @Description Attempts, violations (newest first), per-exam violation counts, risk breakdown and liveness.
// @Tags Admin - Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student id"
// @Success 200 {object} dto.StudentDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/students/{id} [get]
func (c *AdminController) StudentDetail(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}
	detail, err := c.adminService.StudentDetail(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "Admin StudentDetail", err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// StudentLiveness godoc
// @Summary (Admin) Last heartbeat of a student for an exam
// @Tags Admin - Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student id"
// @Param exam_code query string false "Exam code; omit for heartbeats sent without a selected exam"
// @Success 200 {object} dto.LivenessDTO
// @Router /admin/students/{id}/liveness [get]
func (c *AdminController) StudentLiveness(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}
	var examCode *string
	if code := strings.ToUpper(strings.TrimSpace(ctx.Query("exam_code"))); code != "" {
		examCode = &code
	}
	liveness, err := c.heartbeatService.Liveness(ctx.Request.Context(), id, examCode)
	if err != nil {
		controller.RespondError(ctx, "Admin StudentLiveness", err)
		return
	}
	ctx.JSON(http.StatusOK, liveness)
}

// LiveFeed godoc
// @Summary (Admin) Live violation feed
// @Description WebSocket. One JSON message {"type":"violation","data":{...}} per recorded violation. Pass the token as ?token=.
// @Tags Admin - Students
// @Param token query string true "Admin JWT"
// @Router /admin/live [get]
func (c *AdminController) LiveFeed(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Admin LiveFeed: websocket upgrade failed")
		return
	}
	c.hub.AddConnection(conn)
	defer c.hub.RemoveConnection(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
