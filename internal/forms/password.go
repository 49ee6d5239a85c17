package forms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 8

var commonPasswords = map[string]bool{
	"password": true, "password1": true, "12345678": true, "123456789": true,
	"qwertyuiop": true, "qwerty123": true, "iloveyou": true, "11111111": true,
	"abc12345": true, "letmein1": true, "sunshine": true, "football": true,
}

// PasswordProblems lists every rule password breaks; nil means it is acceptable.
func PasswordProblems(password, username string) []string {
	var problems []string

	lower := strings.ToLower(password)
	name := strings.ToLower(username)
	if name != "" && (lower == name || (utf8.RuneCountInString(name) >= 3 && strings.Contains(lower, name))) {
		problems = append(problems, "The password is too similar to the username.")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if commonPasswords[lower] {
		problems = append(problems, "This password is too common.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
