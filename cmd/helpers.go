package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	stdinReader  = bufio.NewReader(os.Stdin)
	errNoInput   = errors.New("no input provided")
	timeLayout   = "2006-01-02 15:04:05"
	maxDescWidth = 48
)

// promptConfirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Delete this file? [y/N]: ")
func promptConfirm(prompt string) bool {
	_, _ = fmt.Fprint(os.Stdout, prompt)

	response, _ := readLine()

	return response == "y" || response == "Y"
}

// promptLine prints prompt to stderr and reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	return readLine()
}

func readLine() (string, error) {
	line, err := stdinReader.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", errNoInput
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads a password without echo when stdin is a terminal, or a
// single line when input is piped.
func readPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(os.Stderr) // New line after password input

		if err != nil {
			return "", err
		}

		return string(password), nil
	}

	return readLine()
}

// readNewPassword prompts twice and insists both entries match.
func readNewPassword(prompt string) (string, error) {
	password, err := readPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}

	return password, nil
}

// readInput returns inline data, the contents of path, or stdin, in that
// order of preference.
func readInput(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}

	if path != "" && path != "-" {
		abs, err := expandPath(path)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(stdinReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errNoInput
	}

	return data, nil
}

// expandPath expands ~ to the user's home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("path is empty")
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		path = filepath.Join(home, path[1:])
	}

	// Make path absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	return absPath, nil
}

// printEmptyResult prints a "no results" message with a create hint
func printEmptyResult(resourceType, createCmd string) {
	_, _ = fmt.Fprintf(os.Stdout, "No %s yet.\n", resourceType)
	_, _ = fmt.Fprintf(os.Stdout, "Create one with: %s\n", createCmd)
}

// printField prints an aligned "label: value" line
func printField(label, value string) {
	_, _ = fmt.Fprintf(os.Stdout, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label+":")), value)
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

// formatTime renders t in local time, or "-" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format(timeLayout)
}
