package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	apperrors "github.com/pombredanne/pycense/internal/errors"
)

// writeAll is swapped out in tests.
var writeAll = clipboard.WriteAll

// Copy copies text to the system clipboard. Failures carry installation
// hints for the current platform.
func Copy(text string) error {
	if !IsClipboardAvailable() {
		return apperrors.ClipboardError(fmt.Errorf("no clipboard utility on %s", runtime.GOOS)).
			WithDetails(GetInstallInstructions())
	}
	if err := writeAll(text); err != nil {
		return apperrors.ClipboardError(err).WithDetails(GetInstallInstructions())
	}
	return nil
}

// CopyWithFallback attempts to copy to clipboard and returns a message
func CopyWithFallback(text string) (string, error) {
	if err := Copy(text); err != nil {
		return "", err
	}
	return "Copied to clipboard!", nil
}

// IsClipboardAvailable reports whether a clipboard backend was found.
func IsClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
