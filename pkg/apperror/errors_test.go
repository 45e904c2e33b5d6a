package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("course not found"), http.StatusNotFound},
		{Forbidden("you can only update your own courses"), http.StatusForbidden},
		{Conflict("order 3 is already taken"), http.StatusConflict},
		{Invalid("quiz questions are required"), http.StatusBadRequest},
		{Unauthorized("invalid token"), http.StatusUnauthorized},
		{Unavailable("database unreachable", errors.New("dial tcp")), http.StatusServiceUnavailable},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapErrorToStatus(tc.err), tc.err.Error())
	}
}

func TestAppErrorUnwrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Unavailable("store unavailable", cause)

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "store unavailable", err.Error())
}

func TestFromStore(t *testing.T) {
	err := FromStore(gorm.ErrRecordNotFound, "lesson not found", "")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "lesson not found", err.Error())

	err = FromStore(gorm.ErrDuplicatedKey, "", "order already taken in this course")
	assert.True(t, errors.Is(err, ErrConflict))

	raw := errors.New("pq: syntax error at or near SELECT")
	err = FromStore(raw, "", "")
	assert.True(t, errors.Is(err, ErrInternal))
	// the raw driver message never becomes the user-facing message
	assert.Equal(t, "unexpected storage error", err.Error())

	assert.NoError(t, FromStore(nil, "", ""))
}
