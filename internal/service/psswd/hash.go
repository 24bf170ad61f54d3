package psswd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHash хеширует пароли и одноразовые коды bcrypt'ом. Значение типа задает cost;
// нулевое значение означает bcrypt.DefaultCost.
type PasswordHash int

func (p PasswordHash) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

// ComparePassword сравнивает открытое значение с хешем. Пустой хеш никогда не совпадает.
func (p PasswordHash) ComparePassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (p PasswordHash) cost() int {
	if int(p) < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return int(p)
}
