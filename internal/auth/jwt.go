package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Papel string

const (
	PapelAdmin    Papel = "admin"
	PapelGestor   Papel = "gestor"
	PapelVendedor Papel = "vendedor"
	PapelCliente  Papel = "cliente"
)

func (p Papel) Valido() bool {
	switch p {
	case PapelAdmin, PapelGestor, PapelVendedor, PapelCliente:
		return true
	}
	return false
}

// Identidade é o usuário autenticado da requisição.
type Identidade struct {
	UserID uint
	Email  string
	Papel  Papel
}

func (i Identidade) EhAdmin() bool { return i.Papel == PapelAdmin }

// Claims do access token
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Papel  Papel  `json:"papel"`
	jwt.RegisteredClaims
}

// Tempo de vida do access token
const AccessTTL = 15 * time.Minute

// GerarAccessToken gera um JWT RS256 com kid, iss, aud, iat, nbf e jti.
func (e *Emissor) GerarAccessToken(id Identidade) (string, error) {
	if !id.Papel.Valido() {
		return "", fmt.Errorf("papel inválido: %q", id.Papel)
	}
	now := e.agora()

	claims := &Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Papel:  id.Papel,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.issuer,
			Audience:  []string{e.audience},
			Subject:   fmt.Sprint(id.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	tok := jwt.NewWithClaims(signMethod(), claims)
	tok.Header["kid"] = e.kid
	return tok.SignedString(e.priv)
}

// Validar confere assinatura, iss, aud e exp.
func (e *Emissor) Validar(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(e.issuer),
		jwt.WithAudience(e.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(e.agora),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		k, _ := t.Header["kid"].(string)
		if k == "" {
			return nil, errors.New("kid ausente")
		}
		pub, ok := e.getPub(k)
		if !ok {
			return nil, errors.New("kid desconhecido")
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}

	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("claims inválidas")
	}
	if !c.Papel.Valido() {
		return nil, errors.New("papel inválido")
	}
	return c, nil
}

func (c *Claims) Identidade() Identidade {
	return Identidade{UserID: c.UserID, Email: c.Email, Papel: c.Papel}
}
