package cliente

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/prazo"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
	"github.com/trafegoporcents/api-gestao/internal/usuario"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

// POST /vendas/cliente-novo
// Cadastra o cliente vendido com a comissão fixa da tabela e cria o acesso
// dele ao painel na mesma transação.
func (h *Handler) VendaClienteNovo(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	var in ClienteNovoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	in.NomeCliente = strings.TrimSpace(in.NomeCliente)
	in.EmailCliente = strings.ToLower(strings.TrimSpace(in.EmailCliente))
	if in.NomeCliente == "" {
		http.Error(w, ErrNomeObrigatorio.Error(), http.StatusBadRequest)
		return
	}
	if in.EmailCliente == "" {
		http.Error(w, ErrEmailObrigatorio.Error(), http.StatusBadRequest)
		return
	}
	if err := comissao.ValidarValorVenda(in.ValorVenda); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.FindByEmail(in.EmailCliente); err == nil {
		if h.Alertas != nil {
			h.Alertas.EmailDuplicado(r.Context(), in.EmailCliente, ident.Email)
		}
		http.Error(w, "Já existe cliente com este email", http.StatusConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error("verificar email do cliente", "email", in.EmailCliente, "erro", err)
		http.Error(w, "Erro ao verificar cliente", http.StatusInternalServerError)
		return
	}

	gestor := comissao.CalcularComissaoFixaPorTipo(in.ValorVenda, comissao.TipoGestor)
	vendedor := comissao.CalcularComissaoFixaPorTipo(in.ValorVenda, comissao.TipoVendedor)
	hoje := h.hoje()
	dataVenda := prazo.DataCivil(hoje)
	valorVenda := in.ValorVenda

	c := Cliente{
		NomeCliente:       in.NomeCliente,
		EmailCliente:      in.EmailCliente,
		Telefone:          in.Telefone,
		Vendedor:          strings.ToLower(ident.Email),
		EmailGestor:       strings.ToLower(strings.TrimSpace(in.EmailGestor)),
		StatusCampanha:    statuscampanha.ClienteNovo,
		DataVenda:         &dataVenda,
		ValorComissao:     gestor,
		Comissao:          comissao.StatusInicial(gestor),
		ValorVendaInicial: &valorVenda,
		SiteStatus:        SiteStatusPendente,
		OrigemCadastro:    OrigemVendedor,
	}

	tx := h.Repo.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Falha ao iniciar transação", http.StatusInternalServerError)
		return
	}

	if err := h.Repo.WithDB(tx).Create(&c); err != nil {
		_ = tx.Rollback()
		slog.Error("criar cliente novo", "email", c.EmailCliente, "erro", err)
		http.Error(w, "Erro ao criar cliente", http.StatusInternalServerError)
		return
	}

	resp := ClienteNovoResposta{ComissaoVendedor: vendedor, ComissaoGestor: gestor}
	if _, err := usuario.NewRepository().FindByEmail(tx, c.EmailCliente); errors.Is(err, gorm.ErrRecordNotFound) {
		_, senha, err := usuario.CriarCliente(tx, c.NomeCliente, c.EmailCliente, c.Telefone)
		if err != nil {
			_ = tx.Rollback()
			slog.Error("criar usuário do cliente", "email", c.EmailCliente, "erro", err)
			http.Error(w, "Erro ao criar acesso do cliente", http.StatusInternalServerError)
			return
		}
		resp.UsuarioCriado = true
		resp.SenhaTemporaria = senha
	} else if err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao verificar usuário do cliente", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao confirmar transação", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)

	slog.Info("venda cliente novo", "cliente_id", c.ID, "vendedor", c.Vendedor, "valor_venda", in.ValorVenda)
	resp.Cliente = Detalhar(c, hoje)
	utils.WriteJSON(w, http.StatusCreated, resp)
}
