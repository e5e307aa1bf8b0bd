package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pombredanne/pycense/internal/box"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppError_Categorizes(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ErrCodeUnknownSetting, CategoryValidation, SeverityWarning},
		{ErrCodeNotFound, CategoryService, SeverityInfo},
		{ErrCodeStorageFailure, CategoryStorage, SeverityError},
		{ErrCodeEditorFailed, CategoryExternal, SeverityError},
		{ErrCodeInternalError, CategoryService, SeverityCritical},
		{ErrorCode("SOMETHING_ELSE"), CategorySystem, SeverityError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "boom")
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
			assert.False(t, err.Timestamp.IsZero())
		})
	}
}

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := StorageError("save profile", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "STORAGE_FAILURE: Storage operation failed: save profile", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsAppError(wrapped))
	assert.Same(t, err, GetAppError(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodeStorageFailure))
	assert.False(t, HasCode(wrapped, ErrCodeNotFound))
}

func TestGetAppError_ConvertsPlainErrors(t *testing.T) {
	appErr := GetAppError(stderrors.New("plain"))
	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.Equal(t, "plain", appErr.Message)
}

func TestFromSettingError(t *testing.T) {
	_, err := box.Canonical("topbegin")
	converted := FromSettingError(err)

	require.True(t, HasCode(converted, ErrCodeUnknownSetting))
	assert.True(t, stderrors.Is(converted, box.ErrUnknownSetting))
	assert.Contains(t, GetAppError(converted).Details, box.TopBegin)

	_, err = box.ParseValue("width", "wide")
	converted = FromSettingError(err)
	assert.True(t, HasCode(converted, ErrCodeInvalidInput))
	assert.True(t, stderrors.Is(converted, box.ErrInvalidValue))

	assert.NoError(t, FromSettingError(nil))
	other := stderrors.New("other")
	assert.Same(t, other, FromSettingError(other))
}

func TestCLIErrorHandler(t *testing.T) {
	h := NewCLIErrorHandler(false, nil)
	err := NotFoundError("license 'gpl'").WithDetails("did you mean [mit]?")

	out := h.HandleError(err).Error()
	assert.Contains(t, out, "INFO: license 'gpl' not found")
	assert.Contains(t, out, "did you mean [mit]?")

	cause := stderrors.New("exit status 1")
	quiet := h.FormatError(EditorError("vi", cause))
	assert.False(t, strings.Contains(quiet, "caused by"))

	loud := NewCLIErrorHandler(true, nil).FormatError(EditorError("vi", cause))
	assert.Contains(t, loud, "caused by: exit status 1")
}

func TestTUIErrorHandler(t *testing.T) {
	h := NewTUIErrorHandler(true)
	err := ValidationError("bad").WithDetails("really bad")
	assert.Equal(t, "bad\nDetails: really bad", h.FormatError(err))
	assert.Equal(t, "bad", NewTUIErrorHandler(false).FormatError(err))
}
