package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	timestampColor = color.New(color.FgHiBlack)
	infoColor      = color.New(color.FgBlue)
	successColor   = color.New(color.FgGreen)
	warningColor   = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	methodColor    = color.New(color.FgMagenta)
	debugColor     = color.New(color.FgHiBlack)
)

func prefix() string {
	return timestampColor.Sprintf("[%s]", time.Now().Format("15:04:05"))
}

// Info log une information générale (bleu)
func Info(message string, args ...interface{}) {
	fmt.Printf("%s %s\n", prefix(), infoColor.Sprintf(message, args...))
}

// Success log un succès (vert)
func Success(message string, args ...interface{}) {
	fmt.Printf("%s %s\n", prefix(), successColor.Sprint("✓ "+fmt.Sprintf(message, args...)))
}

// Warning log un avertissement (jaune)
func Warning(message string, args ...interface{}) {
	fmt.Printf("%s %s\n", prefix(), warningColor.Sprint("⚠ "+fmt.Sprintf(message, args...)))
}

// Error log une erreur (rouge) sur stderr
func Error(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", prefix(), errorColor.Sprint("✗ "+fmt.Sprintf(message, args...)))
}

// Request log un appel HTTP sortant avec durée
func Request(method, url string, statusCode int, duration time.Duration) {
	var statusColor *color.Color
	switch {
	case statusCode >= 200 && statusCode < 300:
		statusColor = successColor
	case statusCode >= 400 && statusCode < 500:
		statusColor = warningColor
	default:
		statusColor = errorColor
	}

	// Formater la durée
	durationStr := ""
	if duration < time.Millisecond {
		durationStr = fmt.Sprintf("%.0fµs", float64(duration.Microseconds()))
	} else if duration < time.Second {
		durationStr = fmt.Sprintf("%.0fms", float64(duration.Milliseconds()))
	} else {
		durationStr = fmt.Sprintf("%.2fs", duration.Seconds())
	}

	fmt.Printf("%s %s %-60s %s %s\n",
		prefix(),
		methodColor.Sprintf("%-6s", method),
		url,
		statusColor.Sprintf("[%d]", statusCode),
		timestampColor.Sprintf("(%s)", durationStr))
}

// Debug log un message de debug (gris) - utilisé seulement en développement
func Debug(message string, args ...interface{}) {
	fmt.Printf("%s %s\n", prefix(), debugColor.Sprint("DEBUG: "+fmt.Sprintf(message, args...)))
}
