// Package session carries the authenticated identity of one request.
package session

import (
	"github.com/gin-gonic/gin"
	"github.com/lshigami/proctorexam/internal/model"
)

const ginKey = "session"

// Context is built by the authentication middleware for every request and
// passed explicitly into service calls.
type Context struct {
	UserID       uint
	Username     string
	Role         model.Role
	SelectedExam *string
	// Status is the persisted session status. It does not account for a
	// submitted attempt; services derive the effective state.
	Status model.AttemptState
}

// ExamKey returns the selected exam code, or "" when none is selected.
func (c Context) ExamKey() string {
	if c.SelectedExam == nil {
		return ""
	}
	return *c.SelectedExam
}

func (c Context) IsStudent() bool {
	return c.Role == model.RoleStudent
}

func (c Context) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// Set stores sc on the gin context.
func Set(ctx *gin.Context, sc Context) {
	ctx.Set(ginKey, sc)
}

// From returns the session stored by the middleware, if any.
func From(ctx *gin.Context) (Context, bool) {
	v, ok := ctx.Get(ginKey)
	if !ok {
		return Context{}, false
	}
	sc, ok := v.(Context)
	return sc, ok
}
