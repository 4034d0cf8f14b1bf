package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := New(ErrListenerBind, "failed to bind listener")
	assert.Equal(t, "[LISTENER_BIND_FAILED] failed to bind listener", err.Error())

	withDetails := NewWithDetails(ErrInvalidPort, "port out of range", "port 0")
	assert.Equal(t, "[INVALID_PORT] port out of range: port 0", withDetails.Error())
}

func TestWrap_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrDatastoreConnect, "failed to connect datastore", cause)

	require.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, ErrDatastoreConnect))
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, New(ErrLifecycleInvalidState, "x").GetHTTPStatus())
	assert.Equal(t, http.StatusBadRequest, New(ErrInvalidPort, "x").GetHTTPStatus())
	assert.Equal(t, http.StatusNotFound, New(ErrNotFound, "x").GetHTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, New(ErrDatastoreConnect, "x").GetHTTPStatus())

	override := &StewardError{Code: ErrInternal, Message: "x", HTTPStatus: http.StatusTeapot}
	assert.Equal(t, http.StatusTeapot, override.GetHTTPStatus())
}

func TestGetCode_NonStewardError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(fmt.Errorf("plain")))
	assert.False(t, IsStewardError(fmt.Errorf("plain")))
	assert.True(t, IsStewardError(New(ErrInternal, "x")))
}
