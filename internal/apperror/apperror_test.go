package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("employee not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)

	wrapped := fmt.Errorf("reconcile: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	var appErr *Error
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.False(t, errors.As(errors.New("plain"), &appErr))
}

func TestFromStore(t *testing.T) {
	assert.NoError(t, FromStore(nil, "x", KindBlockedDelete))
	assert.ErrorIs(t, FromStore(gorm.ErrRecordNotFound, "x", KindBlockedDelete), ErrNotFound)
	assert.ErrorIs(t, FromStore(gorm.ErrDuplicatedKey, "x", KindBlockedDelete), ErrConflict)
	assert.ErrorIs(t, FromStore(gorm.ErrForeignKeyViolated, "x", KindBlockedDelete), ErrBlockedDelete)
	assert.ErrorIs(t, FromStore(gorm.ErrForeignKeyViolated, "x", KindInvalidReference), ErrInvalidReference)

	other := errors.New("disk full")
	assert.Equal(t, other, FromStore(other, "x", KindBlockedDelete))

	// the cause stays reachable
	assert.ErrorIs(t, FromStore(gorm.ErrDuplicatedKey, "x", KindBlockedDelete), gorm.ErrDuplicatedKey)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "[CONFLICT] already there", Conflict("already there").Error())
	assert.Equal(t, "[MALFORMED_INPUT] bad date: boom", Wrap(KindMalformedInput, "bad date", errors.New("boom")).Error())
}
