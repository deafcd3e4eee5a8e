package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_HTTPStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindCallerError:      400,
		KindAuthorization:    403,
		KindRateLimit:        429,
		KindStateConflict:    409,
		KindDataIntegrity:    500,
		KindTransientStorage: 409,
		KindEmissionFailure:  200,
		ErrorKind("bogus"):   500,
	}

	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), "kind %q", kind)
	}
}

func TestErrorKind_EmitsErrorEvent(t *testing.T) {
	assert.False(t, KindStateConflict.EmitsErrorEvent())
	assert.False(t, KindEmissionFailure.EmitsErrorEvent())
	assert.True(t, KindCallerError.EmitsErrorEvent())
	assert.True(t, KindDataIntegrity.EmitsErrorEvent())
}

func TestKindOf_DirectCombatError(t *testing.T) {
	err := ErrStateConflict("sector has no active encounter")
	assert.Equal(t, KindStateConflict, KindOf(err))
}

func TestKindOf_WrappedCombatError(t *testing.T) {
	cause := ErrCaller("bad request")
	wrapped := fmt.Errorf("while handling request: %w", cause)

	assert.Equal(t, KindCallerError, KindOf(wrapped))
}

func TestKindOf_ForeignErrorDefaultsToDataIntegrity(t *testing.T) {
	assert.Equal(t, KindDataIntegrity, KindOf(errors.New("some unrelated failure")))
}

func TestKindOf_NilError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestCombatError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrTransientStorage("failed to persist encounter", cause)

	assert.Contains(t, err.Error(), "transient_storage")
	assert.Contains(t, err.Error(), "failed to persist encounter")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCombatError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("scan failure")
	err := ErrDataIntegrity("failed to scan row", cause)

	assert.ErrorIs(t, err, cause)
}
