package errors

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// CLIErrorHandler handles errors for the command-line interface
type CLIErrorHandler struct {
	Verbose bool
	logger  *zap.Logger
}

// NewCLIErrorHandler creates a new CLI error handler. A nil logger disables
// logging.
func NewCLIErrorHandler(verbose bool, logger *zap.Logger) *CLIErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIErrorHandler{
		Verbose: verbose,
		logger:  logger,
	}
}

// HandleError logs err and returns it formatted for display
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("severity", string(appErr.Severity)),
		zap.String("category", string(appErr.Category)),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Cause))
	}
	for key, value := range appErr.Context {
		fields = append(fields, zap.Any(key, value))
	}
	h.logger.Debug(appErr.Message, fields...)

	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for terminal display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	var msg string
	switch appErr.Severity {
	case SeverityCritical:
		msg = criticalStyle.Render("CRITICAL: " + appErr.Message)
	case SeverityError:
		msg = errorStyle.Render("ERROR: " + appErr.Message)
	case SeverityWarning:
		msg = warningStyle.Render("WARNING: " + appErr.Message)
	case SeverityInfo:
		msg = infoStyle.Render("INFO: " + appErr.Message)
	default:
		msg = errorStyle.Render(appErr.Message)
	}

	if appErr.Details != "" {
		msg += "\n  " + detailStyle.Render(appErr.Details)
	}
	if h.Verbose && appErr.Cause != nil {
		msg += "\n  " + detailStyle.Render("caused by: "+appErr.Cause.Error())
	}
	return msg
}

// TUIErrorHandler handles errors shown inside the interactive picker
type TUIErrorHandler struct {
	ShowDetails bool
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool) *TUIErrorHandler {
	return &TUIErrorHandler{
		ShowDetails: showDetails,
	}
}

// HandleError handles errors for TUI interface
func (h *TUIErrorHandler) HandleError(err error) error {
	return GetAppError(err)
}

// FormatError formats an error for TUI display
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s\nDetails: %s", message, appErr.Details)
	}
	return message
}

// GetErrorStyle returns the style matching the error's severity
func (h *TUIErrorHandler) GetErrorStyle(err error) lipgloss.Style {
	switch GetAppError(err).Severity {
	case SeverityCritical:
		return criticalStyle
	case SeverityWarning:
		return warningStyle
	case SeverityInfo:
		return infoStyle
	default:
		return errorStyle
	}
}
