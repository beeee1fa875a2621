package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// maxNumericSuffix is how many sequential suffixes are tried before falling back to a random one.
const maxNumericSuffix = 99

// usernameBase lower-cases the name parts and keeps only ASCII letters and digits.
func usernameBase(firstName, lastName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(firstName + lastName) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// pickUsername returns base if free, otherwise base1..base99, otherwise base plus a random number.
func (s *AuthService) pickUsername(ctx context.Context, firstName, lastName string) (string, error) {
	base := usernameBase(firstName, lastName)
	taken, err := s.users.UsernamesWithPrefix(ctx, base)
	if err != nil {
		return "", err
	}
	if _, ok := taken[base]; !ok {
		return base, nil
	}
	for i := 1; i <= maxNumericSuffix; i++ {
		candidate := base + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
	}
	return randomUsername(base)
}

func randomUsername(base string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return base + strconv.FormatInt(n.Int64()+1000, 10), nil
}
