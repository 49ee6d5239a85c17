package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is lowered by tests to keep fixtures fast.
var PasswordHashCost = bcrypt.DefaultCost

// HashPassword 生成 bcrypt 哈希
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

// CheckPasswordHash 校验明文密码与哈希是否匹配
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
