package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsExternas são os campos usados dos tokens emitidos pelo provedor de
// autenticação externo (BaaS).
type ClaimsExternas struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ResolvedorUsuario encontra o usuário local dono de um e-mail.
type ResolvedorUsuario interface {
	IdentidadePorEmail(ctx context.Context, email string) (Identidade, error)
}

// Externo valida tokens do provedor externo contra o JWKS publicado por ele.
// O papel nunca vem do token: é sempre o do usuário local com o mesmo e-mail.
type Externo struct {
	jwks     keyfunc.Keyfunc
	audience string
	usuarios ResolvedorUsuario
}

// NovoExterno baixa o JWKS de url e mantém as chaves atualizadas em segundo plano
// até ctx ser cancelado.
func NovoExterno(ctx context.Context, url, audience string, usuarios ResolvedorUsuario) (*Externo, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{url})
	if err != nil {
		return nil, fmt.Errorf("jwks externo: %w", err)
	}
	return NovoExternoComKeyfunc(k, audience, usuarios), nil
}

func NovoExternoComKeyfunc(k keyfunc.Keyfunc, audience string, usuarios ResolvedorUsuario) *Externo {
	return &Externo{jwks: k, audience: audience, usuarios: usuarios}
}

func (x *Externo) Validar(ctx context.Context, raw string) (Identidade, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if x.audience != "" {
		opts = append(opts, jwt.WithAudience(x.audience))
	}

	var claims ClaimsExternas
	token, err := jwt.ParseWithClaims(raw, &claims, x.jwks.Keyfunc, opts...)
	if err != nil {
		return Identidade{}, fmt.Errorf("token externo inválido: %w", err)
	}
	if !token.Valid {
		return Identidade{}, errors.New("token externo inválido")
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return Identidade{}, errors.New("token externo sem e-mail")
	}
	return x.usuarios.IdentidadePorEmail(ctx, email)
}
