package email

import "strings"

// RedactEmail masks an address for logging: "john@gmail.com" becomes
// "j***@gmail.com". Input without an "@" is masked entirely.
func RedactEmail(addr string) string {
	if addr == "" {
		return ""
	}

	local, domain, ok := strings.Cut(addr, "@")
	if !ok {
		return "***"
	}
	if local == "" {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}
