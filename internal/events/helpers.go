package events

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

// GenerateSlug converts an event title to a URL-friendly slug
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)

	reg := regexp.MustCompile(`[^\w\s-]`)
	slug = reg.ReplaceAllString(slug, "")

	reg = regexp.MustCompile(`[\s_-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	// Trim hyphens from start and end
	return strings.Trim(slug, "-")
}

const slugSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomSlugSuffix returns a short random suffix used to disambiguate
// duplicate slugs.
func randomSlugSuffix(n int) (string, error) {
	suffix := make([]byte, n)
	for i := range suffix {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugSuffixChars))))
		if err != nil {
			return "", err
		}
		suffix[i] = slugSuffixChars[num.Int64()]
	}
	return string(suffix), nil
}
