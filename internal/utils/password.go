package utils

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const TamanhoMinimoSenha = 8

var ErrSenhaCurta = errors.New("a senha deve ter pelo menos 8 caracteres")

// HashSenha valida o tamanho mínimo e retorna o hash bcrypt da senha.
func HashSenha(senha string) (string, error) {
	if utf8.RuneCountInString(senha) < TamanhoMinimoSenha {
		return "", ErrSenhaCurta
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckSenha compara hash bcrypt com a senha em texto e retorna true se bater
func CheckSenha(hash, senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
