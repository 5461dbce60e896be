package domain

import "time"

// TokenAccessAuth es el proposito de los tokens emitidos en registro y login.
const TokenAccessAuth = "auth"

// AccountToken es una entrada de la lista de tokens activos de una cuenta.
type AccountToken struct {
	Access string `json:"access"`
	Token  string `json:"token"`
}

// Account representa un usuario registrado. La lista Tokens es la unica
// fuente de verdad sobre que tokens siguen vigentes.
type Account struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Tokens       []AccountToken `json:"-"`
	CreatedAt    time.Time      `json:"-"`
}

// HasToken indica si el par (access, token) esta presente en la cuenta.
func (a Account) HasToken(access, token string) bool {
	for _, t := range a.Tokens {
		if t.Access == access && t.Token == token {
			return true
		}
	}
	return false
}
