package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidRole     = errors.New("invalid role")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters long")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 8 {
		return Password{}, ErrPasswordTooWeak
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

// Phone is a normalized phone number. Normalization keeps users findable by
// phone regardless of input format: separators are stripped, an international
// "00" prefix becomes "+", an existing "+" prefix is preserved, and a national
// trunk "0" opening the group after the country code is dropped.
type Phone struct {
	value string
}

func NewPhone(s string) (Phone, error) {
	normalized := normalizePhone(s)
	if len(normalized) < 7 {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{value: normalized}, nil
}

func (p Phone) Value() string {
	return p.value
}

func normalizePhone(s string) string {
	s = strings.TrimSpace(s)

	plus := strings.HasPrefix(s, "+")
	if plus {
		s = s[1:]
	}

	groups := strings.FieldsFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if len(groups) == 0 {
		return ""
	}

	if !plus && strings.HasPrefix(groups[0], "00") {
		groups[0] = groups[0][2:]
		plus = true
	}
	if plus && groups[0] == "" {
		groups = groups[1:]
	}
	// The country code can only be told apart from the national number when
	// the caller separated them, so the trunk zero is dropped per group.
	if plus && len(groups) > 1 && strings.HasPrefix(groups[1], "0") {
		groups[1] = groups[1][1:]
	}

	d := strings.Join(groups, "")
	if plus && d != "" {
		return "+" + d
	}
	return d
}

type Credentials struct {
	email    Email
	password Password
}

func NewCredentials(email, password string) (Credentials, error) {
	e, err := NewEmail(email)
	if err != nil {
		return Credentials{}, err
	}
	p, err := NewPassword(password)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{email: e, password: p}, nil
}

func (c Credentials) Email() Email       { return c.email }
func (c Credentials) Password() Password { return c.password }
