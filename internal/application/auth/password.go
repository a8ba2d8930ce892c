package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash se compara cuando el email no existe.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("password-inexistente"), bcrypt.DefaultCost)

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
