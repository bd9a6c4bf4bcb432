package venda

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/config"
	"github.com/trafegoporcents/api-gestao/internal/prazo"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

type Handler struct {
	Repo     *Repository
	Clientes *cliente.Repository
	Config   *config.Provider
	Agora    func() time.Time
}

func NewHandler(db *gorm.DB, cfg *config.Provider) *Handler {
	return &Handler{
		Repo:     NewRepository(db),
		Clientes: cliente.NewRepository(db),
		Config:   cfg,
		Agora:    time.Now,
	}
}

// DTO usado no POST /clientes/{id}/vendas
type VendaCreateDTO struct {
	ProdutoVendido string  `json:"produtoVendido"`
	ValorVenda     float64 `json:"valorVenda"`
	Percentual     float64 `json:"percentual"`
	DataVenda      string  `json:"dataVenda"` // AAAA-MM-DD, vazio = hoje
}

type ListaVendas struct {
	Vendas        []VendaCliente `json:"vendas"`
	TotalComissao float64        `json:"totalComissao"`
}

func (h *Handler) clienteDaRota(w http.ResponseWriter, r *http.Request) (*cliente.Cliente, auth.Identidade) {
	ident, _ := auth.IdentidadeDe(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do cliente inválido", http.StatusBadRequest)
		return nil, ident
	}
	c, err := h.Clientes.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return nil, ident
	}
	if !cliente.PodeVer(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return nil, ident
	}
	return c, ident
}

// POST /clientes/{id}/vendas
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	c, ident := h.clienteDaRota(w, r)
	if c == nil {
		return
	}
	var in VendaCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	in.ProdutoVendido = strings.TrimSpace(in.ProdutoVendido)
	if in.ProdutoVendido == "" {
		http.Error(w, "produtoVendido é obrigatório", http.StatusBadRequest)
		return
	}
	if in.ValorVenda <= 0 {
		http.Error(w, "valorVenda deve ser maior que zero", http.StatusBadRequest)
		return
	}
	cfg := h.Config.Atual()
	if err := cfg.LimitePercentualParceria().Validar(in.Percentual); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dataVenda := prazo.DataCivil(h.Agora().In(cfg.Localizacao()))
	if in.DataVenda != "" {
		t, ok := prazo.ParseData(in.DataVenda)
		if !ok {
			http.Error(w, "dataVenda inválida", http.StatusBadRequest)
			return
		}
		dataVenda = prazo.DataCivil(t)
	}

	v := VendaCliente{
		ClienteID:      c.ID,
		ProdutoVendido: in.ProdutoVendido,
		ValorVenda:     in.ValorVenda,
		Percentual:     in.Percentual,
		ValorComissao:  comissao.CalcularComissaoPercentual(in.ValorVenda, in.Percentual),
		DataVenda:      &dataVenda,
		RegistradoPor:  ident.Email,
	}
	if err := h.Repo.Create(&v); err != nil {
		http.Error(w, "Erro ao registrar venda", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, v)
}

// GET /clientes/{id}/vendas
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	c, _ := h.clienteDaRota(w, r)
	if c == nil {
		return
	}
	vs, err := h.Repo.FindByCliente(c.ID)
	if err != nil {
		http.Error(w, "Erro ao listar vendas", http.StatusInternalServerError)
		return
	}
	total, err := h.Repo.TotalComissao(c.ID)
	if err != nil {
		http.Error(w, "Erro ao somar comissões", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ListaVendas{Vendas: vs, TotalComissao: comissao.Arredondar(total)})
}

// RegistrarRotas monta as rotas de vendas de parceria em um router já autenticado.
func RegistrarRotas(r *mux.Router, h *Handler) {
	r.HandleFunc("/clientes/{id:[0-9]+}/vendas", h.Criar).Methods("POST")
	r.HandleFunc("/clientes/{id:[0-9]+}/vendas", h.Listar).Methods("GET")
}
