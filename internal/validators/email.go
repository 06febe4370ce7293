package validators

import (
	"net/mail"
	"strings"
)

// IsEmail accepts a bare address such as "a@b.co", without a display name.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}
