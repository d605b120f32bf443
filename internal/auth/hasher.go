package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the bcrypt work factor. Adaptive and salted per hash;
// raising it transparently re-hashes on the next password change.
const BcryptCost = 10

// Hasher is the one-way credential hash used by the user service.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher implements Hasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher at the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: BcryptCost}
}

// Hash produces a salted bcrypt hash. It does not fail for any
// well-formed password shorter than bcrypt's 72-byte input limit.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. It never returns an
// error: a malformed hash compares as false. bcrypt's comparison is
// constant-time with respect to the password bytes.
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
