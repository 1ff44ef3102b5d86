package http

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	nameMinLen    = 2
	nameMaxLen    = 80
	contentMaxLen = 5000
	dobLayout     = "2006-01-02"
)

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= nameMinLen && n <= nameMaxLen
}

func parseDOB(dob string) (time.Time, bool) {
	t, err := time.Parse(dobLayout, strings.TrimSpace(dob))
	if err != nil || t.After(time.Now()) {
		return time.Time{}, false
	}
	return t, true
}

func validOtp(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func validNoteContent(content string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	return n >= 1 && n <= contentMaxLen
}
