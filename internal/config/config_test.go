package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escreverEnv(t *testing.T, conteudo string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(conteudo), 0o600))
	return path
}

func TestCarregar(t *testing.T) {
	t.Run("valores padrão", func(t *testing.T) {
		cfg, err := Carregar(filepath.Join(t.TempDir(), "nao-existe.env"))
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Porta)
		assert.Equal(t, uint(5432), cfg.DBPort)
		assert.Equal(t, 50.0, cfg.PercentualMaxCliente)
		assert.Equal(t, 100.0, cfg.PercentualMaxParceria)
		assert.Equal(t, "America/Sao_Paulo", cfg.Localizacao().String())
	})

	t.Run("ambiente tem precedência sobre o arquivo", func(t *testing.T) {
		path := escreverEnv(t, "PORT=9000\nCOMISSAO_PERCENTUAL_MAX_CLIENTE=40\nCORS_ORIGINS=https://a.com,https://b.com\n")
		t.Setenv("PORT", "9100")

		cfg, err := Carregar(path)
		require.NoError(t, err)
		assert.Equal(t, "9100", cfg.Porta)
		assert.Equal(t, 40.0, cfg.PercentualMaxCliente)
		assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.CORSOrigens)
		assert.Equal(t, 40.0, cfg.LimitePercentualCliente().Maximo)
		assert.Equal(t, 100.0, cfg.LimitePercentualParceria().Maximo)
	})

	t.Run("percentual máximo abaixo do mínimo", func(t *testing.T) {
		t.Setenv("COMISSAO_PERCENTUAL_MAX_PARCERIA", "0")
		_, err := Carregar()
		assert.Error(t, err)
	})

	t.Run("fuso inválido", func(t *testing.T) {
		t.Setenv("FUSO_HORARIO", "Lua/Base_Alfa")
		_, err := Carregar()
		assert.Error(t, err)
	})
}

func TestProviderRecarregar(t *testing.T) {
	path := escreverEnv(t, "COMISSAO_PERCENTUAL_MAX_CLIENTE=50\n")
	p, err := NovoProvider(path)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Atual().PercentualMaxCliente)

	require.NoError(t, os.WriteFile(path, []byte("COMISSAO_PERCENTUAL_MAX_CLIENTE=30\n"), 0o600))
	require.NoError(t, p.Recarregar())
	assert.Equal(t, 30.0, p.Atual().PercentualMaxCliente)

	t.Run("erro mantém a configuração anterior", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("COMISSAO_PERCENTUAL_MAX_CLIENTE=0\n"), 0o600))
		assert.Error(t, p.Recarregar())
		assert.Equal(t, 30.0, p.Atual().PercentualMaxCliente)
	})

	t.Run("handler responde 422 quando a recarga falha", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RecarregarHandler(p).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/config/recarregar", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("handler recarrega", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("COMISSAO_PERCENTUAL_MAX_CLIENTE=25\n"), 0o600))
		rr := httptest.NewRecorder()
		RecarregarHandler(p).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/config/recarregar", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 25.0, p.Atual().PercentualMaxCliente)
	})
}
