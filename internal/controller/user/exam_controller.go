package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/proctorexam/internal/controller"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/service"
)

// ExamController exposes the student side of the attempt state machine.
type ExamController struct {
	attemptService service.AttemptService
}

func NewExamController(attemptService service.AttemptService) *ExamController {
	return &ExamController{attemptService: attemptService}
}

// Dashboard godoc
// @Summary Student dashboard
// @Description Selected exam, derived session state and attempt history.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /student/dashboard [get]
func (c *ExamController) Dashboard(ctx *gin.Context) {
	sc, ok := controller.MustSession(ctx)
	if !ok {
		return
	}
	resp, err := c.attemptService.Dashboard(ctx.Request.Context(), sc)
	if err != nil {
		controller.RespondError(ctx, "Dashboard", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SelectExam godoc
// @Summary Select an exam by code
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body dto.SelectExamDTO true "Exam code"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Empty exam code"
// @Failure 404 {object} dto.ErrorResponse "Unknown exam code, selection unchanged"
// @Router /student/exams/select [post]
func (c *ExamController) SelectExam(ctx *gin.Context) {
	sc, ok := controller.MustSession(ctx)
	if !ok {
		return
	}
	var req dto.SelectExamDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "SelectExam", err)
		return
	}
	resp, err := c.attemptService.SelectExam(ctx.Request.Context(), sc, req.Code)
	if err != nil {
		controller.RespondError(ctx, "SelectExam", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Readiness godoc
// @Summary Enter the readiness check
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "No exam selected"
// @Failure 409 {object} dto.ErrorResponse "Exam already attempted"
// @Router /student/exams/readiness [get]
func (c *ExamController) Readiness(ctx *gin.Context) {
	sc, ok := controller.MustSession(ctx)
	if !ok {
		return
	}
	resp, err := c.attemptService.EnterReadiness(ctx.Request.Context(), sc)
	if err != nil {
		controller.RespondError(ctx, "Readiness", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Start godoc
// @Summary Complete readiness and start the exam
// @Description Requires the honor code signature and both client checks.
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param readiness body dto.ReadinessDTO true "Readiness gate"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Readiness gate not satisfied"
// @Failure 409 {object} dto.ErrorResponse "Exam already attempted"
// @Router /student/exams/start [post]
func (c *ExamController) Start(ctx *gin.Context) {
	sc, ok := controller.MustSession(ctx)
	if !ok {
		return
	}
	var req dto.ReadinessDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Start", err)
		return
	}
	resp, err := c.attemptService.CompleteReadiness(ctx.Request.Context(), sc, req)
	if err != nil {
		controller.RespondError(ctx, "Start", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CurrentExam godoc
// @Summary Questions of the exam in progress
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ExamContentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Exam has no questions"
// @Failure 409 {object} dto.ErrorResponse "Exam already attempted"
// @Router /student/exams/current [get]
func (c *ExamController) CurrentExam(ctx *gin.Context) {
	sc, ok := controller.MustSession(ctx)
	if !ok {
		return
	}
	resp, err := c.attemptService.ExamContent(ctx.Request.Context(), sc)
	if err != nil {
		controller.RespondError(ctx, "CurrentExam", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary Submit answers of the exam in progress
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answers body dto.SubmitExamDTO true "Question id to answer"
// @Success 200 {object} dto.SubmitResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Exam already attempted"
// @Router /student/exams/current/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	sc, ok := controller.MustSession(ctx)
	if !ok {
		return
	}
	var req dto.SubmitExamDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Submit", err)
		return
	}
	resp, err := c.attemptService.Submit(ctx.Request.Context(), sc, req.Answers)
	if err != nil {
		controller.RespondError(ctx, "Submit", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
