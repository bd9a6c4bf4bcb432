package saque

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/pagamento"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

var (
	ErrNaoEntregue      = errors.New("a campanha ainda não foi entregue")
	ErrJaSolicitado     = errors.New("saque já solicitado ou comissão já paga")
	ErrSolicitacaoFinal = errors.New("solicitação já processada")
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Observador cliente.Observador
	Agora      func() time.Time
}

func NewHandler(db *gorm.DB, obs cliente.Observador) *Handler {
	if obs == nil {
		obs = cliente.SemCache{}
	}
	return &Handler{DB: db, Repository: NewRepository(), Observador: obs, Agora: time.Now}
}

type StatusInput struct {
	Status      string `json:"status"`
	Observacoes string `json:"observacoes"`
}

// PodeSolicitar aplica as regras de saque sobre o cliente.
func PodeSolicitar(c *cliente.Cliente) error {
	if !statuscampanha.PermiteSaque(c.StatusCampanha) {
		return ErrNaoEntregue
	}
	switch c.Comissao {
	case comissao.StatusPendente, comissao.StatusAPagar, "":
		return nil
	}
	return ErrJaSolicitado
}

// POST /clientes/{id}/saques
func (h *Handler) Solicitar(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do cliente inválido", http.StatusBadRequest)
		return
	}
	clientes := cliente.NewRepository(h.DB)
	c, err := clientes.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return
	}
	if !cliente.PodeEditar(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}
	if err := PodeSolicitar(c); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	s, err := h.registrar(c, ident.Email)
	if errors.Is(err, ErrJaSolicitado) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("solicitar saque", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao solicitar saque", http.StatusInternalServerError)
		return
	}
	h.Observador.ClienteAlterado(r.Context(), c.ID)

	slog.Info("saque solicitado", "cliente_id", c.ID, "saque_id", s.ID, "valor", s.ValorComissao)
	utils.WriteJSON(w, http.StatusCreated, s)
}

// registrar reserva a comissão e cria a solicitação na mesma transação. A
// reserva é condicional: entre duas solicitações simultâneas só uma passa.
func (h *Handler) registrar(c *cliente.Cliente, solicitante string) (*SolicitacaoSaque, error) {
	s := SolicitacaoSaque{
		ClienteID:     c.ID,
		EmailGestor:   c.EmailGestor,
		ValorComissao: c.ValorComissaoEfetivo(),
		Status:        StatusPendente,
		SolicitadoPor: solicitante,
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	ok, err := h.Repository.ReservarComissao(tx, c.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if !ok {
		_ = tx.Rollback()
		return nil, ErrJaSolicitado
	}
	if err := h.Repository.Salvar(tx, &s); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return &s, nil
}

// GET /saques?status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", StatusPendente, StatusAprovado, StatusRejeitado, StatusPago:
	default:
		http.Error(w, "Status inválido", http.StatusBadRequest)
		return
	}
	list, err := h.Repository.Listar(h.DB, status)
	if err != nil {
		http.Error(w, "Erro ao listar saques", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /clientes/{id}/saques
func (h *Handler) ListarPorCliente(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do cliente inválido", http.StatusBadRequest)
		return
	}
	c, err := cliente.NewRepository(h.DB).FindByID(uint(id))
	if err != nil {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return
	}
	if !cliente.PodeVer(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}
	list, err := h.Repository.ListarPorCliente(h.DB, c.ID)
	if err != nil {
		http.Error(w, "Erro ao listar saques", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// PATCH /saques/{id}/status
// aprovado, rejeitado ou pago. Rejeitado e pago são finais.
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	var in StatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	switch in.Status {
	case StatusAprovado, StatusRejeitado, StatusPago:
	default:
		http.Error(w, "Status inválido, use aprovado, rejeitado ou pago", http.StatusBadRequest)
		return
	}

	s, err := h.Repository.BuscarPorID(h.DB, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Solicitação não encontrada", http.StatusNotFound)
		return
	}
	if s.Final() || !transicaoValida(s.Status, in.Status) {
		http.Error(w, ErrSolicitacaoFinal.Error(), http.StatusConflict)
		return
	}

	agora := h.Agora()
	s.Status = in.Status
	s.ProcessadoEm = &agora
	s.ProcessadoPor = ident.Email
	if in.Observacoes != "" {
		s.Observacoes = in.Observacoes
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Falha ao iniciar transação", http.StatusInternalServerError)
		return
	}
	if err := h.Repository.Atualizar(tx, s); err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao atualizar solicitação", http.StatusInternalServerError)
		return
	}

	switch in.Status {
	case StatusPago:
		_, err = pagamento.NewRepository(tx).Registrar(s.ClienteID, s.ValorComissao, ident.Email, "Saque "+s.ID, agora)
	case StatusRejeitado:
		err = cliente.NewRepository(tx).Updates(s.ClienteID, map[string]any{
			"comissao":         comissao.StatusPendente,
			"saque_solicitado": false,
		})
	}
	if err != nil {
		_ = tx.Rollback()
		slog.Error("processar saque", "saque_id", s.ID, "status", in.Status, "erro", err)
		http.Error(w, "Erro ao processar saque", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "Erro ao confirmar transação", http.StatusInternalServerError)
		return
	}
	h.Observador.ClienteAlterado(r.Context(), s.ClienteID)
	utils.WriteJSON(w, http.StatusOK, s)
}

// RegistrarRotas monta as rotas de saque em um router já autenticado.
func RegistrarRotas(r *mux.Router, h *Handler) {
	admin := auth.RequireAdmin
	gestao := auth.RequirePapel(auth.PapelAdmin, auth.PapelGestor)

	r.Handle("/clientes/{id:[0-9]+}/saques", gestao(http.HandlerFunc(h.Solicitar))).Methods("POST")
	r.Handle("/clientes/{id:[0-9]+}/saques", gestao(http.HandlerFunc(h.ListarPorCliente))).Methods("GET")
	r.Handle("/saques", admin(http.HandlerFunc(h.Listar))).Methods("GET")
	r.Handle("/saques/{id}/status", admin(http.HandlerFunc(h.AtualizarStatus))).Methods("PATCH")
}
