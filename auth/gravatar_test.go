package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURLNormalizesEmail(t *testing.T) {
	base := GravatarURL("someone@example.com")

	assert.Equal(t, base, GravatarURL("SOMEONE@example.com"))
	assert.Equal(t, base, GravatarURL("  someone@example.com  "))
	assert.NotEqual(t, base, GravatarURL("else@example.com"))
}

func TestGravatarURLParams(t *testing.T) {
	url := GravatarURL("someone@example.com")

	assert.Contains(t, url, "https://www.gravatar.com/avatar/")
	assert.Contains(t, url, "s=200")
	assert.Contains(t, url, "r=pg")
	assert.Contains(t, url, "d=mm")
}
