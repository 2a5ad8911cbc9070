package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/lshigami/proctorexam/internal/service"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
)

// DenyFunc writes the rejection body and aborts the request.
type DenyFunc func(ctx *gin.Context, status int, message string)

// JSONError is the default DenyFunc.
func JSONError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message})
}

// Options configures Authenticate.
type Options struct {
	Role model.Role
	// MissingStatus is returned for absent or invalid tokens. A valid token
	// with the wrong role always gets 403.
	MissingStatus int
	Deny          DenyFunc
}

// Authenticate validates the JWT, loads the student's exam session and stores
// a session.Context on the request.
func Authenticate(authService service.AuthService, sessionRepo repository.ExamSessionRepository, opts Options) gin.HandlerFunc {
	if opts.MissingStatus == 0 {
		opts.MissingStatus = http.StatusUnauthorized
	}
	if opts.Deny == nil {
		opts.Deny = JSONError
	}
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			opts.Deny(c, opts.MissingStatus, "authorization required")
			return
		}
		claims, err := authService.ValidateToken(token)
		if err != nil {
			opts.Deny(c, opts.MissingStatus, "invalid or expired token")
			return
		}
		if opts.Role != "" && claims.Role != opts.Role {
			opts.Deny(c, http.StatusForbidden, "insufficient role")
			return
		}

		sc := session.Context{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
			Status:   model.StateIdle,
		}
		if claims.Role == model.RoleStudent {
			sess, err := sessionRepo.FindByUser(c.Request.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Uint("userID", claims.UserID).Msg("Authenticate: failed to load exam session")
				opts.Deny(c, http.StatusInternalServerError, "failed to load session")
				return
			}
			if sess != nil {
				sc.SelectedExam = sess.ExamCode
				sc.Status = sess.Status
			}
		}

		session.Set(c, sc)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}
