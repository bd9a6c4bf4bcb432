// Package testutil reúne auxiliares compartilhados pelos testes dos handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trafegoporcents/api-gestao/internal/auth"
)

// NovoBanco abre um SQLite em memória exclusivo do teste e migra os modelos.
func NovoBanco(t *testing.T, modelos ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(modelos) > 0 {
		require.NoError(t, db.AutoMigrate(modelos...))
	}
	return db
}

var (
	Admin    = auth.Identidade{UserID: 1, Email: "admin@trafegoporcents.com", Papel: auth.PapelAdmin}
	Gestor   = auth.Identidade{UserID: 2, Email: "gestor@trafegoporcents.com", Papel: auth.PapelGestor}
	Vendedor = auth.Identidade{UserID: 3, Email: "vendedor@trafegoporcents.com", Papel: auth.PapelVendedor}
)

// Cliente devolve uma identidade de cliente final com o e-mail dado.
func Cliente(email string) auth.Identidade {
	return auth.Identidade{UserID: 10, Email: email, Papel: auth.PapelCliente}
}

// Requisicao executa method/path no router como se id estivesse autenticado.
// body é serializado como JSON quando não for nil.
func Requisicao(t *testing.T, r *mux.Router, id *auth.Identidade, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if id != nil {
		req = req.WithContext(auth.ComIdentidade(req.Context(), *id))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// Decodificar lê o corpo JSON da resposta em v.
func Decodificar(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

// Status falha o teste com o corpo da resposta quando o código não bate.
func Status(t *testing.T, want int, rr *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rr.Code, rr.Body.String())
}
