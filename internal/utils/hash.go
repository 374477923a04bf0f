package utils

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword is used by cmd/hashpw when provisioning the users file.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
