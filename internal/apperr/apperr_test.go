package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("project", 7)))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", Validation("count must be between %d and %d", 1, 5))))
	assert.Equal(t, KindUnhandled, KindOf(errors.New("boom")))
	assert.True(t, Is(Render(errors.New("font")), KindRender))
	assert.False(t, Is(nil, KindRender))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "project 7 not found", NotFound("project", 7).Error())

	cause := errors.New("disk full")
	err := Render(cause)
	assert.Equal(t, "report rendering failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}
