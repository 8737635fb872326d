package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Respond sends a ProblemDetail response with proper content type.
func Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" && c.Request != nil && c.Request.URL != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts err to a ProblemDetail and responds.
func RespondError(c *gin.Context, err error) {
	Respond(c, ProblemFromError(err))
}

// ProblemFromError maps error kinds onto Problem Details. Unknown errors become 500s.
func ProblemFromError(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	if IsNotFound(err) {
		return ErrNotFoundProblem.WithDetail(err.Error())
	}
	return ErrInternalProblem.WithDetail(err.Error())
}
