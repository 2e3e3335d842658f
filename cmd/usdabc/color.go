package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"usdabc/internal/convert"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorStatus(status convert.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	switch status {
	case convert.StatusConverted:
		return ansiGreen + label + ansiReset
	case convert.StatusFailed:
		return ansiRed + label + ansiReset
	case convert.StatusSkipped:
		return ansiYellow + label + ansiReset
	default:
		return ansiDim + label + ansiReset
	}
}

func colorSeverity(severity convert.Severity, colorize bool) string {
	label := string(severity)
	if !colorize {
		return label
	}
	switch severity {
	case convert.SeverityError:
		return ansiRed + label + ansiReset
	case convert.SeverityWarning:
		return ansiYellow + label + ansiReset
	default:
		return ansiDim + label + ansiReset
	}
}
