package usuario

import "github.com/trafegoporcents/api-gestao/internal/auth"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CriarUsuarioRequest struct {
	Nome     string     `json:"nome"`
	Email    string     `json:"email"`
	Senha    string     `json:"senha"`
	Telefone string     `json:"telefone"`
	Papel    auth.Papel `json:"papel"`
}

type AlterarSenhaRequest struct {
	SenhaAtual string `json:"senhaAtual"`
	NovaSenha  string `json:"novaSenha"`
}
