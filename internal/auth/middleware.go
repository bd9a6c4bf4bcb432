package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxIdentidade ctxKey = "identidade"

// ComIdentidade grava a identidade no contexto.
func ComIdentidade(ctx context.Context, id Identidade) context.Context {
	return context.WithValue(ctx, ctxIdentidade, id)
}

// IdentidadeDe lê a identidade gravada pelo middleware.
func IdentidadeDe(ctx context.Context) (Identidade, bool) {
	id, ok := ctx.Value(ctxIdentidade).(Identidade)
	return id, ok
}

func (e *Emissor) MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")

		var id Identidade
		if claims, err := e.Validar(raw); err == nil {
			id = claims.Identidade()
		} else if e.externo != nil {
			ext, errExt := e.externo.Validar(r.Context(), raw)
			if errExt != nil {
				http.Error(w, "Token inválido", http.StatusUnauthorized)
				return
			}
			id = ext
		} else {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ComIdentidade(r.Context(), id)))
	})
}

// RequirePapel libera a rota apenas para os papéis informados.
func RequirePapel(papeis ...Papel) func(http.Handler) http.Handler {
	permitidos := make(map[Papel]bool, len(papeis))
	for _, p := range papeis {
		permitidos[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentidadeDe(r.Context())
			if !ok {
				http.Error(w, "Não autenticado", http.StatusUnauthorized)
				return
			}
			if !permitidos[id.Papel] {
				http.Error(w, "Acesso negado para o seu perfil", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin é RequirePapel(PapelAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return RequirePapel(PapelAdmin)(next)
}
