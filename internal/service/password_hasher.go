package service

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashea contraseñas con bcrypt. Cada hash lleva su propio salt.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify nunca devuelve error: un hash malformado simplemente no coincide.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyNone compara contra un hash descartable del mismo costo y siempre
// devuelve false. Se usa cuando la cuenta no existe, para que el tiempo de
// respuesta no revele que emails estan registrados.
func (h *PasswordHasher) VerifyNone(plaintext string) bool {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("todo-api-unused"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plaintext))
	return false
}
