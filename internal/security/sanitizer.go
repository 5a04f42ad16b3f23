// Package security implements the input and output protections around the
// workflow: sanitization, prompt injection detection, PII redaction, per
// customer rate limiting and model cost tracking.
package security

import (
	"context"
	"regexp"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Control characters are stripped from input; newlines and tabs survive.
var controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)ignore\s+the\s+above`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?prior`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a`),
	regexp.MustCompile(`(?i)act\s+as\s+if`),
	regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`),
	regexp.MustCompile(`(?i)system\s*:\s*`),
	regexp.MustCompile(`(?i)<\s*/?system\s*>`),
	regexp.MustCompile(`(?i)###\s*instruction`),
	regexp.MustCompile(`(?i)override`),
}

type piiPattern struct {
	kind        string
	pattern     *regexp.Regexp
	replacement string
}

var piiPatterns = []piiPattern{
	{"cpf", regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`), "[CPF_REDACTED]"},
	{"cnpj", regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`), "[CNPJ_REDACTED]"},
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL_REDACTED]"},
	{"phone", regexp.MustCompile(`\b\(?\d{2}\)?\s*\d{4,5}-?\d{4}\b`), "[PHONE_REDACTED]"},
	{"card_number", regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`), "[CARD_REDACTED]"},
}

// Sanitizer bounds and cleans free-text input before it reaches the workflow.
type Sanitizer struct {
	maxInputLength int
}

func NewSanitizer(maxInputLength int) *Sanitizer {
	return &Sanitizer{maxInputLength: maxInputLength}
}

// Sanitize truncates to the configured length, strips control characters and
// trims surrounding whitespace.
func (s *Sanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	runes := []rune(text)
	if len(runes) > s.maxInputLength {
		text = string(runes[:s.maxInputLength])
	}

	text = controlCharPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DetectInjection reports whether the text matches a known prompt injection
// pattern.
func DetectInjection(ctx context.Context, text string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			ctxzap.Warn(ctx, "prompt injection detected", zap.String("pattern", pattern.String()))
			return true
		}
	}
	return false
}

// RedactPII replaces document numbers, emails, phone numbers and card
// numbers with redaction markers.
func RedactPII(ctx context.Context, text string) string {
	result := text
	for _, p := range piiPatterns {
		if matches := p.pattern.FindAllString(result, -1); len(matches) > 0 {
			ctxzap.Info(ctx, "pii redacted",
				zap.String("type", p.kind),
				zap.Int("count", len(matches)),
			)
			result = p.pattern.ReplaceAllString(result, p.replacement)
		}
	}
	return result
}
