package auth

import "golang.org/x/crypto/bcrypt"

var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// PasswordHasher stores passwords as bcrypt hashes.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using cost. Costs outside bcrypt's
// accepted range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("zentasks-dummy-password"), cost)
	if err != nil {
		panic(err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}
}

// Hash returns the bcrypt hash of password, or ErrPasswordTooLong past 72 bytes.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. Any hash error counts as
// a mismatch.
func (h *PasswordHasher) Compare(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CompareDummy burns the same work as Compare against a fixed hash. Login
// calls it for unknown emails so both failures take similar time.
func (h *PasswordHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
