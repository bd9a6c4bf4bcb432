package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const caracteresSenha = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GerarSenhaTemporaria gera uma senha aleatória de 12 caracteres para o
// primeiro acesso do cliente.
func GerarSenhaTemporaria() (string, error) {
	const length = 12
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(caracteresSenha))))
		if err != nil {
			return "", err
		}
		result[i] = caracteresSenha[num.Int64()]
	}
	return string(result), nil
}

// NormalizarEmail remove espaços e converte para minúsculas.
func NormalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
