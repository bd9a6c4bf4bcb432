package cliente

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

const (
	FluxoCliente  = "cliente"
	FluxoParceria = "parceria"
)

// PATCH /clientes/{id}/comissao/valor
// Edição manual do valor pelo admin.
func (h *Handler) AtualizarValorComissao(w http.ResponseWriter, r *http.Request) {
	c, _ := h.carregar(w, r)
	if c == nil {
		return
	}
	var in ComissaoValorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := comissao.ValidarValorManual(in.ValorComissao); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	valor := comissao.Arredondar(in.ValorComissao)
	if err := h.Repo.Updates(c.ID, map[string]any{"valor_comissao": valor}); err != nil {
		slog.Error("atualizar valor da comissão", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao atualizar comissão", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)
	c.ValorComissao = valor
	utils.WriteJSON(w, http.StatusOK, Detalhar(*c, h.hoje()))
}

// PATCH /clientes/{id}/comissao/percentual
// O próprio cliente (ou o admin) confirma o percentual; com valor de venda
// inicial gravado a comissão é recalculada.
func (h *Handler) AtualizarPercentualComissao(w http.ResponseWriter, r *http.Request) {
	c, ident := h.carregar(w, r)
	if c == nil {
		return
	}
	if !ident.EhAdmin() && !(ident.Papel == auth.PapelCliente && mesmoEmail(c.EmailCliente, ident.Email)) {
		http.Error(w, "Apenas o próprio cliente pode confirmar o percentual", http.StatusForbidden)
		return
	}
	var in ComissaoPercentualInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.Config.Atual().LimitePercentualCliente().Validar(in.Percentual); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	percentual := in.Percentual
	campos := map[string]any{"comissao_percentual": percentual}
	if c.ValorVendaInicial != nil {
		valor := comissao.CalcularComissaoPercentual(*c.ValorVendaInicial, percentual)
		campos["valor_comissao"] = valor
		c.ValorComissao = valor
	}
	if err := h.Repo.Updates(c.ID, campos); err != nil {
		slog.Error("atualizar percentual da comissão", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao atualizar comissão", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)
	c.ComissaoPercentual = &percentual
	utils.WriteJSON(w, http.StatusOK, Detalhar(*c, h.hoje()))
}

// PATCH /clientes/{id}/comissao/status
// Regra: não permite rebaixar uma comissão já "Pago".
func (h *Handler) AtualizarStatusComissao(w http.ResponseWriter, r *http.Request) {
	c, _ := h.carregar(w, r)
	if c == nil {
		return
	}
	var in ComissaoStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if !comissao.StatusValido(in.Comissao) {
		http.Error(w, "Status de comissão inválido", http.StatusBadRequest)
		return
	}
	if c.Comissao == comissao.StatusPago && in.Comissao != comissao.StatusPago {
		http.Error(w, "Comissão já paga não pode ser rebaixada", http.StatusConflict)
		return
	}

	campos := map[string]any{
		"comissao":      in.Comissao,
		"comissao_paga": in.Comissao == comissao.StatusPago,
	}
	if err := h.Repo.Updates(c.ID, campos); err != nil {
		slog.Error("atualizar status da comissão", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao atualizar comissão", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)
	c.Comissao = in.Comissao
	c.ComissaoPaga = in.Comissao == comissao.StatusPago
	utils.WriteJSON(w, http.StatusOK, Detalhar(*c, h.hoje()))
}

// POST /comissoes/simular
func (h *Handler) SimularComissao(w http.ResponseWriter, r *http.Request) {
	var in SimulacaoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	if in.Percentual == nil {
		if err := comissao.ValidarValorVenda(in.ValorVenda); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gestor := comissao.CalcularComissaoFixaPorTipo(in.ValorVenda, comissao.TipoGestor)
		vendedor := comissao.CalcularComissaoFixaPorTipo(in.ValorVenda, comissao.TipoVendedor)
		utils.WriteJSON(w, http.StatusOK, SimulacaoResposta{
			ValorVenda:       in.ValorVenda,
			Comissao:         gestor,
			ComissaoGestor:   &gestor,
			ComissaoVendedor: &vendedor,
		})
		return
	}

	cfg := h.Config.Atual()
	limite := cfg.LimitePercentualCliente()
	switch in.Fluxo {
	case "", FluxoCliente:
	case FluxoParceria:
		limite = cfg.LimitePercentualParceria()
	default:
		http.Error(w, "Fluxo inválido, use cliente ou parceria", http.StatusBadRequest)
		return
	}
	if in.ValorVenda <= 0 {
		http.Error(w, "valorVenda deve ser maior que zero", http.StatusBadRequest)
		return
	}
	if err := limite.Validar(*in.Percentual); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	utils.WriteJSON(w, http.StatusOK, SimulacaoResposta{
		ValorVenda: in.ValorVenda,
		Percentual: in.Percentual,
		Comissao:   comissao.CalcularComissaoPercentual(in.ValorVenda, *in.Percentual),
	})
}
