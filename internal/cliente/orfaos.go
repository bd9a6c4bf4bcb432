package cliente

import (
	"log/slog"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
	"github.com/trafegoporcents/api-gestao/internal/usuario"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

// RecuperarOrfaos cria o registro em todos_clientes para cada usuário cliente
// que ainda não tem um. E-mails internos ficam de fora. Rodar de novo não
// cria nada.
func (r *Repository) RecuperarOrfaos() ([]Cliente, error) {
	recuperados := []Cliente{}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		usuarios, err := usuario.NewRepository().ListAll(tx, auth.PapelCliente)
		if err != nil {
			return err
		}
		repo := r.WithDB(tx)
		existentes, err := repo.EmailsCadastrados()
		if err != nil {
			return err
		}

		for _, u := range usuarios {
			email := strings.ToLower(strings.TrimSpace(u.Email))
			if email == "" || existentes[email] || strings.HasSuffix(email, DominioInterno) {
				continue
			}
			nome := strings.TrimSpace(u.Nome)
			if nome == "" {
				nome = email
			}
			c := Cliente{
				NomeCliente:    nome,
				EmailCliente:   email,
				Telefone:       u.Telefone,
				StatusCampanha: statuscampanha.PreenchimentoFormulario,
				ValorComissao:  comissao.ValorPadrao,
				Comissao:       comissao.StatusPendente,
				SiteStatus:     SiteStatusPendente,
				OrigemCadastro: OrigemRecuperacao,
			}
			if err := repo.Create(&c); err != nil {
				return err
			}
			existentes[email] = true
			recuperados = append(recuperados, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recuperados, nil
}

// POST /admin/clientes/orfaos
func (h *Handler) RecuperarOrfaos(w http.ResponseWriter, r *http.Request) {
	recuperados, err := h.Repo.RecuperarOrfaos()
	if err != nil {
		slog.Error("recuperar clientes órfãos", "erro", err)
		http.Error(w, "Erro ao recuperar clientes órfãos", http.StatusInternalServerError)
		return
	}
	emails := make([]string, 0, len(recuperados))
	for _, c := range recuperados {
		emails = append(emails, c.EmailCliente)
		h.alterado(r.Context(), c.ID)
	}
	if len(emails) > 0 {
		slog.Info("clientes órfãos recuperados", "quantidade", len(emails))
	}
	utils.WriteJSON(w, http.StatusOK, OrfaosResposta{Recuperados: len(emails), Emails: emails})
}
