package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordHasher hashes and verifies digests at a fixed bcrypt cost.
type PasswordHasher struct {
	cost  int
	dummy string
}

// NewPasswordHasher clamps cost into the range bcrypt accepts and prepares the
// digest CompareDummy checks against, so unknown accounts cost one comparison.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	h := &PasswordHasher{cost: cost}
	if digest, err := HashPassword("helpdesk-unknown-account", cost); err == nil {
		h.dummy = digest
	}
	return h
}

// Cost returns the bcrypt work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted digest of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	return HashPassword(plain, h.cost)
}

// Compare verifies plain against hashed.
func (h *PasswordHasher) Compare(hashed, plain string) error {
	return ComparePassword(hashed, plain)
}

// CompareDummy spends the same work as Compare against a digest no password
// matches. Used when the account does not exist.
func (h *PasswordHasher) CompareDummy(plain string) {
	if h.dummy == "" {
		return
	}
	_ = ComparePassword(h.dummy, plain)
}
