package sharecode

import "math/rand"

const Length = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a short random code for a shared comparison link.
// Uniqueness is not guaranteed here; the store rejects collisions and the
// caller regenerates.
func Generate() string {
	code := make([]byte, Length)
	for i := range code {
		code[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(code)
}
