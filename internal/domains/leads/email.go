package leads

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// personalDomains are consumer mailbox providers; the resume is for
// recruiters and should go to work addresses.
var personalDomains = map[string]struct{}{
	"gmail.com": {}, "googlemail.com": {},
	"yahoo.com": {}, "yahoo.co.uk": {}, "yahoo.co.in": {}, "ymail.com": {},
	"hotmail.com": {}, "hotmail.co.uk": {},
	"outlook.com": {}, "outlook.co.uk": {},
	"live.com": {}, "live.co.uk": {}, "msn.com": {},
	"icloud.com": {}, "me.com": {}, "mac.com": {},
	"aol.com":        {},
	"protonmail.com": {}, "proton.me": {}, "pm.me": {},
	"mail.com": {}, "zoho.com": {},
	"gmx.com": {}, "gmx.net": {},
	"fastmail.com": {}, "tutanota.com": {}, "hey.com": {},
	"yandex.com": {}, "rediffmail.com": {},
	"qq.com": {}, "163.com": {}, "126.com": {}, "sina.com": {},
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Domain is everything after the first @, lowercased.
func Domain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}

func IsPersonalEmail(email string) bool {
	_, personal := personalDomains[Domain(email)]
	return personal
}
