// Package refcode генерирует шестизначные реферальные коды пользователей.
// Код читается и диктуется вслух, поэтому состоит только из цифр;
// уникальность обеспечивается ограничением в базе и повторной генерацией.
package refcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpan = 900000

// New возвращает случайный шестизначный код в диапазоне 100000-999999.
func New() (string, error) {
	const op = "refcode.New"
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
