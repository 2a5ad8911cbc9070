package proctor

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/proctorexam/internal/controller"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/service"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
)

// ProctorController serves the endpoints polled by the exam page.
type ProctorController struct {
	proctorService   service.ProctorService
	violationService service.ViolationService
	heartbeatService service.HeartbeatService
}

func NewProctorController(
	proctorService service.ProctorService,
	violationService service.ViolationService,
	heartbeatService service.HeartbeatService,
) *ProctorController {
	return &ProctorController{
		proctorService:   proctorService,
		violationService: violationService,
		heartbeatService: heartbeatService,
	}
}

func emptyAnalysis() dto.AnalyzeFrameResponseDTO {
	return dto.AnalyzeFrameResponseDTO{Violations: []string{}, Score: 0}
}

func logDenied(ctx *gin.Context, status int, message string) {
	log.Debug().
		Str("path", ctx.FullPath()).
		Str("client_ip", ctx.ClientIP()).
		Int("status", status).
		Str("reason", message).
		Msg("Proctor: request rejected")
}

// DenyAnalysis rejects an analyze request with the empty analysis body.
func DenyAnalysis(ctx *gin.Context, status int, message string) {
	logDenied(ctx, status, message)
	ctx.AbortWithStatusJSON(status, emptyAnalysis())
}

// DenyStatus rejects a violation or heartbeat request.
func DenyStatus(ctx *gin.Context, status int, message string) {
	logDenied(ctx, status, message)
	ctx.AbortWithStatusJSON(status, dto.StatusResponse{Status: "unauthorized"})
}

// Analyze godoc
// @Summary Analyze one webcam frame
// @Description Runs vision inference on a data-URL frame and returns the violation codes and their weighted score. Nothing is stored.
// @Tags Proctor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param frame body dto.AnalyzeFrameDTO true "Frame as data URL"
// @Success 200 {object} dto.AnalyzeFrameResponseDTO
// @Failure 400 {object} dto.AnalyzeFrameResponseDTO "Missing or undecodable image"
// @Failure 403 {object} dto.AnalyzeFrameResponseDTO "Not an authenticated student"
// @Failure 503 {object} dto.AnalyzeFrameResponseDTO "Vision model unavailable"
// @Router /proctor/analyze [post]
func (c *ProctorController) Analyze(ctx *gin.Context) {
	sc, ok := session.From(ctx)
	if !ok {
		DenyAnalysis(ctx, http.StatusForbidden, "")
		return
	}
	var req dto.AnalyzeFrameDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Image == "" {
		ctx.JSON(http.StatusBadRequest, emptyAnalysis())
		return
	}

	resp, err := c.proctorService.Analyze(ctx.Request.Context(), sc, req)
	if err != nil {
		ctx.JSON(controller.StatusFor(err), emptyAnalysis())
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReportViolation godoc
// @Summary Report a violation
// @Description Appends a violation for the currently selected exam. Screenshots are kept only for severe types, and only the first phone_detected screenshot per exam.
// @Tags Proctor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param violation body dto.ReportViolationDTO false "Violation type and optional screenshot"
// @Success 200 {object} dto.StatusResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed JSON"
// @Failure 403 {object} dto.StatusResponse
// @Router /proctor/violation [post]
func (c *ProctorController) ReportViolation(ctx *gin.Context) {
	sc, ok := session.From(ctx)
	if !ok {
		DenyStatus(ctx, http.StatusForbidden, "")
		return
	}
	var req dto.ReportViolationDTO
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		controller.BindError(ctx, "ReportViolation", err)
		return
	}

	if _, err := c.violationService.Record(ctx.Request.Context(), sc, req.Type, req.Screenshot); err != nil {
		controller.RespondError(ctx, "ReportViolation", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// Heartbeat godoc
// @Summary Record a liveness ping
// @Tags Proctor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatusResponse
// @Failure 403 {object} dto.StatusResponse
// @Router /proctor/heartbeat [post]
func (c *ProctorController) Heartbeat(ctx *gin.Context) {
	sc, ok := session.From(ctx)
	if !ok {
		DenyStatus(ctx, http.StatusForbidden, "")
		return
	}
	if err := c.heartbeatService.Ping(ctx.Request.Context(), sc); err != nil {
		log.Error().Err(err).Uint("userID", sc.UserID).Msg("Heartbeat: ping failed")
		controller.RespondError(ctx, "Heartbeat", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}
