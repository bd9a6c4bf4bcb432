package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenha(t *testing.T) {
	hash, err := HashSenha("segredo123")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", hash)
	assert.True(t, CheckSenha(hash, "segredo123"))
	assert.False(t, CheckSenha(hash, "outra"))

	_, err = HashSenha("curta")
	assert.ErrorIs(t, err, ErrSenhaCurta)
}

func TestGerarSenhaTemporaria(t *testing.T) {
	vistas := map[string]bool{}
	for i := 0; i < 20; i++ {
		s, err := GerarSenhaTemporaria()
		require.NoError(t, err)
		assert.Len(t, s, 12)
		for _, c := range s {
			assert.True(t, strings.ContainsRune(caracteresSenha, c))
		}
		vistas[s] = true
	}
	assert.Greater(t, len(vistas), 1)
}

func TestNormalizarEmail(t *testing.T) {
	assert.Equal(t, "ana@exemplo.com", NormalizarEmail("  Ana@Exemplo.COM "))
}
