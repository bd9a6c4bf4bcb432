package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trafegoporcents/api-gestao/internal/config"
)

// Emissor assina e valida os access tokens da API.
type Emissor struct {
	priv     *rsa.PrivateKey
	pubKeys  map[string]*rsa.PublicKey // kid -> pub
	kid      string
	issuer   string
	audience string
	externo  *Externo
	agora    func() time.Time
}

func NovoEmissor(priv *rsa.PrivateKey, kid, issuer, audience string) (*Emissor, error) {
	if priv == nil {
		return nil, errors.New("chave privada ausente")
	}
	if kid == "" || issuer == "" || audience == "" {
		return nil, errors.New("kid, issuer e audience são obrigatórios")
	}
	return &Emissor{
		priv:     priv,
		pubKeys:  map[string]*rsa.PublicKey{kid: &priv.PublicKey},
		kid:      kid,
		issuer:   issuer,
		audience: audience,
		agora:    time.Now,
	}, nil
}

// CarregarEmissor lê a chave em AUTH_RSA_PRIVATE_PATH. Sem caminho configurado,
// gera uma chave efêmera (tokens deixam de valer a cada reinício).
func CarregarEmissor(cfg config.Config) (*Emissor, error) {
	kid := cfg.AuthKID
	if cfg.AuthChavePrivada == "" {
		slog.Warn("AUTH_RSA_PRIVATE_PATH não definido, usando chave RSA efêmera")
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("gerar chave: %w", err)
		}
		if kid == "" {
			kid = "efemera"
		}
		return NovoEmissor(priv, kid, cfg.AuthIssuer, cfg.AuthAudience)
	}

	b, err := os.ReadFile(cfg.AuthChavePrivada)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	priv, err := ParseChavePrivada(b)
	if err != nil {
		return nil, err
	}
	return NovoEmissor(priv, kid, cfg.AuthIssuer, cfg.AuthAudience)
}

// ParseChavePrivada aceita PEM em PKCS#1 ou PKCS#8.
func ParseChavePrivada(b []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("pem decode private key failed")
	}

	var pk any
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		pk = k
	} else if k8, err2 := x509.ParsePKCS8PrivateKey(block.Bytes); err2 == nil {
		pk = k8
	} else {
		return nil, fmt.Errorf("parse private key: %v / %v", err, err2)
	}

	priv, ok := pk.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return priv, nil
}

// AceitarExterno habilita a validação de tokens emitidos pelo provedor externo.
func (e *Emissor) AceitarExterno(x *Externo) { e.externo = x }

func (e *Emissor) getPub(kid string) (*rsa.PublicKey, bool) {
	p, ok := e.pubKeys[kid]
	return p, ok
}

func signMethod() jwt.SigningMethod { return jwt.SigningMethodRS256 }
