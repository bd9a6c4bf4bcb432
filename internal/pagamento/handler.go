package pagamento

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

type Handler struct {
	Repo       *Repository
	Clientes   *cliente.Repository
	Observador cliente.Observador
	Agora      func() time.Time
}

func NewHandler(db *gorm.DB, obs cliente.Observador) *Handler {
	if obs == nil {
		obs = cliente.SemCache{}
	}
	return &Handler{
		Repo:       NewRepository(db),
		Clientes:   cliente.NewRepository(db),
		Observador: obs,
		Agora:      time.Now,
	}
}

// DTO usado no POST /clientes/{id}/pagamentos
type PagamentoCreateDTO struct {
	ValorPago     float64 `json:"valorPago"`
	Observacoes   string  `json:"observacoes"`
	DataPagamento string  `json:"dataPagamento"` // opcional, RFC3339 ou AAAA-MM-DD
}

func (h *Handler) clienteDaRota(w http.ResponseWriter, r *http.Request) *cliente.Cliente {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do cliente inválido", http.StatusBadRequest)
		return nil
	}
	c, err := h.Clientes.FindByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return nil
	}
	if err != nil {
		http.Error(w, "Erro ao buscar cliente", http.StatusInternalServerError)
		return nil
	}
	ident, _ := auth.IdentidadeDe(r.Context())
	if !cliente.PodeVer(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return nil
	}
	return c
}

// POST /clientes/{id}/pagamentos
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	c := h.clienteDaRota(w, r)
	if c == nil {
		return
	}
	ident, _ := auth.IdentidadeDe(r.Context())

	var in PagamentoCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if math.IsNaN(in.ValorPago) || in.ValorPago <= 0 {
		http.Error(w, "valorPago deve ser maior que zero", http.StatusBadRequest)
		return
	}
	quando := h.Agora()
	if in.DataPagamento != "" {
		t, err := time.Parse(time.RFC3339, in.DataPagamento)
		if err != nil {
			t, err = time.Parse("2006-01-02", in.DataPagamento)
		}
		if err != nil {
			http.Error(w, "dataPagamento inválida", http.StatusBadRequest)
			return
		}
		quando = t
	}

	tx := h.Repo.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Falha ao iniciar transação", http.StatusInternalServerError)
		return
	}
	p, err := h.Repo.WithDB(tx).Registrar(c.ID, in.ValorPago, ident.Email, in.Observacoes, quando)
	if err != nil {
		_ = tx.Rollback()
		slog.Error("registrar pagamento", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao registrar pagamento", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao confirmar transação", http.StatusInternalServerError)
		return
	}
	h.Observador.ClienteAlterado(r.Context(), c.ID)

	utils.WriteJSON(w, http.StatusCreated, p)
}

// GET /clientes/{id}/pagamentos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	c := h.clienteDaRota(w, r)
	if c == nil {
		return
	}
	list, err := h.Repo.ListByClienteID(c.ID)
	if err != nil {
		http.Error(w, "Erro ao buscar pagamentos", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// DELETE /pagamentos/{pid}
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(mux.Vars(r)["pid"])
	if err != nil {
		http.Error(w, "ID do pagamento inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repo.FindByID(uint(pid))
	if err != nil {
		http.Error(w, "Pagamento não encontrado", http.StatusNotFound)
		return
	}

	tx := h.Repo.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Falha ao iniciar transação", http.StatusInternalServerError)
		return
	}
	repo := h.Repo.WithDB(tx)
	if err := repo.DeleteByID(p.ID); err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao remover pagamento", http.StatusInternalServerError)
		return
	}
	if err := repo.RecalcTotalForCliente(p.ClienteID); err != nil {
		_ = tx.Rollback()
		slog.Error("recalcular total pago", "cliente_id", p.ClienteID, "erro", err)
		http.Error(w, "Erro ao recalcular total pago", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao confirmar transação", http.StatusInternalServerError)
		return
	}
	h.Observador.ClienteAlterado(r.Context(), p.ClienteID)
	w.WriteHeader(http.StatusNoContent)
}

// PUT /clientes/{id}/ultimo-pago
// Só um cliente fica marcado como último pago.
func (h *Handler) MarcarUltimoPago(w http.ResponseWriter, r *http.Request) {
	c := h.clienteDaRota(w, r)
	if c == nil {
		return
	}
	var desmarcados []uint
	err := h.Clientes.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		desmarcados, err = h.Clientes.WithDB(tx).MarcarUltimoPago(c.ID)
		return err
	})
	if err != nil {
		slog.Error("marcar último pago", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao marcar último pago", http.StatusInternalServerError)
		return
	}
	for _, id := range desmarcados {
		h.Observador.ClienteAlterado(r.Context(), id)
	}
	h.Observador.ClienteAlterado(r.Context(), c.ID)
	utils.WriteJSON(w, http.StatusOK, map[string]any{"id": c.ID, "ehUltimoPago": true})
}

// DELETE /clientes/{id}/ultimo-pago
func (h *Handler) DesmarcarUltimoPago(w http.ResponseWriter, r *http.Request) {
	c := h.clienteDaRota(w, r)
	if c == nil {
		return
	}
	if err := h.Clientes.Updates(c.ID, map[string]any{"eh_ultimo_pago": false}); err != nil {
		http.Error(w, "Erro ao desmarcar último pago", http.StatusInternalServerError)
		return
	}
	h.Observador.ClienteAlterado(r.Context(), c.ID)
	utils.WriteJSON(w, http.StatusOK, map[string]any{"id": c.ID, "ehUltimoPago": false})
}

// GET /comissoes/totais?gestor=
// Gestor sempre recebe os próprios totais.
func (h *Handler) Totais(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	f := cliente.Filtro{EmailGestor: r.URL.Query().Get("gestor")}
	if !ident.EhAdmin() {
		if strings.TrimSpace(ident.Email) == "" {
			http.Error(w, "Acesso negado", http.StatusForbidden)
			return
		}
		f.EmailGestor = ident.Email
	}
	list, err := h.Clientes.List(f)
	if err != nil {
		http.Error(w, "Erro ao calcular totais", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, CalcularTotais(list))
}

// RegistrarRotas monta as rotas de pagamentos em um router já autenticado.
func RegistrarRotas(r *mux.Router, h *Handler) {
	admin := auth.RequireAdmin
	gestao := auth.RequirePapel(auth.PapelAdmin, auth.PapelGestor)

	r.Handle("/clientes/{id:[0-9]+}/pagamentos", admin(http.HandlerFunc(h.Registrar))).Methods("POST")
	r.Handle("/clientes/{id:[0-9]+}/pagamentos", gestao(http.HandlerFunc(h.Listar))).Methods("GET")
	r.Handle("/pagamentos/{pid:[0-9]+}", admin(http.HandlerFunc(h.Remover))).Methods("DELETE")
	r.Handle("/clientes/{id:[0-9]+}/ultimo-pago", admin(http.HandlerFunc(h.MarcarUltimoPago))).Methods("PUT")
	r.Handle("/clientes/{id:[0-9]+}/ultimo-pago", admin(http.HandlerFunc(h.DesmarcarUltimoPago))).Methods("DELETE")
	r.Handle("/comissoes/totais", gestao(http.HandlerFunc(h.Totais))).Methods("GET")
}
