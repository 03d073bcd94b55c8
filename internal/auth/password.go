package auth

import "golang.org/x/crypto/bcrypt"

// minHashCost is the lowest acceptable bcrypt work factor.
const minHashCost = 10

// HashPassword hashes a plaintext password with bcrypt. Costs below the
// minimum are raised to it so a misconfigured deployment cannot weaken
// stored hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < minHashCost {
		cost = minHashCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// A malformed or truncated hash counts as a mismatch rather than an error,
// so a corrupted row can neither bypass auth nor fail a request.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
