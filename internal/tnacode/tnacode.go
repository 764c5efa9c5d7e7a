// Package tnacode generates and validates masking address codes of the
// shape TNA-AAAA0000: four uppercase letters followed by four digits.
package tnacode

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

var codePattern = regexp.MustCompile(`^TNA-[A-Z]{4}[0-9]{4}$`)

// Generate returns a fresh code from a uniform random source. Collisions are
// not retried here; the database unique index on the code column is the
// authoritative backstop and issuance retries with a new code on conflict.
func Generate() string {
	buf := make([]byte, 0, 12)
	buf = append(buf, 'T', 'N', 'A', '-')
	for i := 0; i < 4; i++ {
		buf = append(buf, letters[randIndex(len(letters))])
	}
	for i := 0; i < 4; i++ {
		buf = append(buf, digits[randIndex(len(digits))])
	}
	return string(buf)
}

// Validate reports whether code matches the generation shape exactly.
func Validate(code string) bool {
	return codePattern.MatchString(code)
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the platform source is broken
		panic(err)
	}
	return int(v.Int64())
}
