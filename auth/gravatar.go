package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives a deterministic avatar URL from an email address.
// The email is trimmed and lowercased before hashing, per the gravatar
// convention; the query parameters request a 200px, PG-rated image with the
// "mystery man" fallback.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", digest)
}
