package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := stderrors.New("deadline exceeded")
	err := fmt.Errorf("load: %w", Internal("Failed to load user", cause))

	assert.True(t, Is(err, "INTERNAL_ERROR"))
	assert.False(t, Is(err, "NOT_FOUND"))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestConstructorsSetStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("User", nil).Status)
	assert.Equal(t, "User not found", NotFound("User", nil).Message)
	assert.Equal(t, http.StatusForbidden, Forbidden("no", nil).Status)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("slow down").Status)
	assert.Equal(t, "BAD_REQUEST: bad", BadRequest("bad", nil).Error())
}
