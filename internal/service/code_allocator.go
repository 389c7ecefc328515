//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"

	"shortlink/backend/internal/model"
	"shortlink/backend/internal/repository"
	"shortlink/backend/pkg/logger"
)

const (
	CodeLength          = 8
	MaxCustomCodeLength = 64
	DefaultMaxAttempts  = 5

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// reservedCodes collide with fixed routes.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"health":  {},
	"swagger": {},
}

// CodeGenerator draws one candidate code.
type CodeGenerator func() (string, error)

// CodeAllocator stores a link under a unique code.
type CodeAllocator interface {
	// Allocate persists draft with a fresh random short code, retrying on
	// collision. A taken custom code fails with *CodeConflictError and no retry.
	Allocate(ctx context.Context, draft model.ShortLink) (model.ShortLink, error)
}

type codeAllocator struct {
	links       repository.LinkRepository
	generate    CodeGenerator
	maxAttempts int
}

func NewCodeAllocator(links repository.LinkRepository, maxAttempts int) CodeAllocator {
	return NewCodeAllocatorWithGenerator(links, maxAttempts, GenerateCode)
}

func NewCodeAllocatorWithGenerator(links repository.LinkRepository, maxAttempts int, generate CodeGenerator) CodeAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &codeAllocator{links: links, generate: generate, maxAttempts: maxAttempts}
}

func (a *codeAllocator) Allocate(ctx context.Context, draft model.ShortLink) (model.ShortLink, error) {
	if draft.CustomCode != nil {
		if err := ValidateCustomCode(*draft.CustomCode); err != nil {
			return model.ShortLink{}, err
		}
	}

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		code, err := a.generate()
		if err != nil {
			return model.ShortLink{}, fmt.Errorf("generate code: %w", err)
		}
		// Both codes are reserved in one namespace, so a draw equal to the
		// custom code would be reported as a custom-code conflict.
		if draft.CustomCode != nil && code == *draft.CustomCode {
			logger.Debug("short code equals custom code", "module", "service", "action", "allocate", "resource", "code", "result", "retry", "attempt", attempt)
			continue
		}

		link := draft
		link.ID = 0
		link.ShortCode = code
		err = a.links.Create(ctx, &link)
		if err == nil {
			return link, nil
		}

		var dup *repository.DuplicateCodeError
		if !errors.As(err, &dup) {
			return model.ShortLink{}, fmt.Errorf("create link: %w", err)
		}
		if dup.Custom {
			return model.ShortLink{}, &CodeConflictError{Code: dup.Code}
		}
		logger.Debug("short code collision", "module", "service", "action", "allocate", "resource", "code", "result", "retry", "attempt", attempt)
	}

	logger.Error("short code allocation exhausted", "module", "service", "action", "allocate", "resource", "code", "result", "failed", "attempts", a.maxAttempts)
	return model.ShortLink{}, fmt.Errorf("%w after %d attempts", ErrExhausted, a.maxAttempts)
}

// GenerateCode returns CodeLength characters drawn uniformly from [A-Za-z0-9].
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidateCustomCode rejects codes that cannot be used as a single path segment.
func ValidateCustomCode(code string) error {
	switch {
	case code == "":
		return &ValidationError{Field: "customCode", Reason: "must not be empty"}
	case strings.TrimSpace(code) != code:
		return &ValidationError{Field: "customCode", Reason: "must not have surrounding whitespace"}
	case utf8.RuneCountInString(code) > MaxCustomCodeLength:
		return &ValidationError{Field: "customCode", Reason: fmt.Sprintf("must be at most %d characters", MaxCustomCodeLength)}
	case !utf8.ValidString(code):
		return &ValidationError{Field: "customCode", Reason: "must be valid UTF-8"}
	}
	for _, r := range code {
		if r == '/' || r == '\\' || r == '?' || r == '#' || r == '%' || unicode.IsControl(r) || unicode.IsSpace(r) {
			return &ValidationError{Field: "customCode", Reason: "contains a forbidden character"}
		}
	}
	if _, ok := reservedCodes[strings.ToLower(code)]; ok {
		return &ValidationError{Field: "customCode", Reason: "is reserved"}
	}
	if code == "." || code == ".." {
		return &ValidationError{Field: "customCode", Reason: "is reserved"}
	}
	return nil
}
