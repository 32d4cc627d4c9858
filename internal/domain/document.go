package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Document is the shared entity a room collaborates on. The store owns it;
// the sync engine only fetches and updates by id.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrTitleTooLong   = errors.New("title exceeds maximum length")
	ErrContentTooLong = errors.New("content exceeds maximum length")
)

// ValidateTitle trims the title and checks its bounds.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// ValidateContent checks the content bound. Empty content is valid.
func ValidateContent(content string) error {
	if len(content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}
