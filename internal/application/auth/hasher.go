package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher puerto para hashear y verificar contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// BcryptHasher implementación con bcrypt. Cost 0 usa bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

// Hash genera el hash bcrypt de plain.
func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara hash y texto plano.
func (h BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
