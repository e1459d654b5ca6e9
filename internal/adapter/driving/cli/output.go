package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

const separatorWidth = 50

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	noticeColor  = color.New(color.FgYellow)
	headingColor = color.New(color.FgGreen, color.Bold)
)

func (h *Handler) writeSuccess(format string, args ...any) {
	successColor.Fprintln(h.out, "✓ "+fmt.Sprintf(format, args...))
}

func (h *Handler) writeNotice(format string, args ...any) {
	noticeColor.Fprintln(h.out, fmt.Sprintf(format, args...))
}

// writeCheck prints one health check line prefixed by its status symbol.
func (h *Handler) writeCheck(check model.HealthCheck) {
	var symbol string
	c := successColor
	switch check.Status {
	case model.HealthPassing:
		symbol = "✓"
	case model.HealthWarning:
		symbol, c = "⚠", noticeColor
	case model.HealthFailing:
		symbol, c = "✗", errorColor
	}
	fmt.Fprintf(h.out, "%s %-10s %s\n", c.Sprint(symbol), check.Name, check.Detail)
}

func (h *Handler) writeHeading(text string) {
	headingColor.Fprintln(h.out, text)
}

func (h *Handler) writeSeparator() {
	fmt.Fprintln(h.out, strings.Repeat("─", separatorWidth))
}

// writeError prints the translated message for err. It is the only place a
// command failure reaches the user.
func (h *Handler) writeError(err error) {
	h.logger.Debug("command error", "error", err)
	errorColor.Fprintln(h.errOut, "✗ "+errorMessage(err))
}

// deliverPassword copies password to the clipboard, or prints it when
// noCopy is set.
func (h *Handler) deliverPassword(label, password string, noCopy bool) error {
	if noCopy {
		h.writeHeading(label)
		fmt.Fprintln(h.out, password)
		return nil
	}
	if err := h.clipboard.WriteAll(password); err != nil {
		return fmt.Errorf("copy password to clipboard: %w", err)
	}
	h.writeSuccess("Password copied to clipboard!")
	return nil
}
