// Package sanitizer cleans visitor-supplied header text before it is stored
// or pushed to owners.
package sanitizer

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxHeaderLength bounds stored User-Agent and Referer values, in runes.
const MaxHeaderLength = 512

var strictPolicy = bluemonday.StrictPolicy()

// HeaderText returns value as plain text of at most MaxHeaderLength runes,
// with markup and control characters removed.
func HeaderText(value string) string {
	value = strings.ToValidUTF8(value, "\uFFFD")
	if strings.Contains(value, "<") {
		value = StripTags(value)
	}
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	return Truncate(strings.TrimSpace(value), MaxHeaderLength)
}

// StripTags keeps only the text of input. Script and style content is dropped.
func StripTags(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
