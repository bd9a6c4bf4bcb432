package cliente

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/config"
	"github.com/trafegoporcents/api-gestao/internal/notificacao"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

// Alertador envia alertas ao webhook configurado.
type Alertador interface {
	Enviar(ctx context.Context, a notificacao.Alerta) error
	EmailDuplicado(ctx context.Context, email, vendedor string)
}

type Handler struct {
	Repo    *Repository
	Config  *config.Provider
	Cache   Cache
	Eventos Eventos
	Alertas Alertador
	Agora   func() time.Time
}

func NewHandler(repo *Repository, cfg *config.Provider, cache Cache, alertas Alertador) *Handler {
	if cache == nil {
		cache = SemCache{}
	}
	return &Handler{
		Repo:    repo,
		Config:  cfg,
		Cache:   cache,
		Alertas: alertas,
		Agora:   time.Now,
	}
}

// hoje é o instante atual no fuso do negócio.
func (h *Handler) hoje() time.Time {
	return h.Agora().In(h.Config.Atual().Localizacao())
}

func (h *Handler) alterado(ctx context.Context, id uint) {
	h.Cache.ClienteAlterado(ctx, id)
}

// carregar lê o cliente {id} da rota e confere se a identidade pode vê-lo.
// Em caso de falha já respondeu e devolve nil.
func (h *Handler) carregar(w http.ResponseWriter, r *http.Request) (*Cliente, auth.Identidade) {
	ident, _ := auth.IdentidadeDe(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return nil, ident
	}
	c, err := h.Repo.FindByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return nil, ident
	}
	if err != nil {
		slog.Error("buscar cliente", "cliente_id", id, "erro", err)
		http.Error(w, "Erro ao buscar cliente", http.StatusInternalServerError)
		return nil, ident
	}
	if !PodeVer(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return nil, ident
	}
	return c, ident
}

// POST /clientes
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	var in ClienteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	c := Cliente{SiteStatus: SiteStatusPendente, OrigemCadastro: OrigemManual}
	if err := in.aplicar(&c, ident.EhAdmin()); err != nil {
		erroDeInput(w, err)
		return
	}
	if ident.Papel == auth.PapelGestor {
		if c.EmailGestor != "" && !mesmoEmail(c.EmailGestor, ident.Email) {
			http.Error(w, "Gestor só pode cadastrar clientes próprios", http.StatusForbidden)
			return
		}
		c.EmailGestor = ident.Email
	}

	if _, err := h.Repo.FindByEmail(c.EmailCliente); err == nil {
		http.Error(w, "Já existe cliente com este email", http.StatusConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error("verificar email duplicado", "email", c.EmailCliente, "erro", err)
		http.Error(w, "Erro ao verificar cliente", http.StatusInternalServerError)
		return
	}
	if err := h.Repo.Create(&c); err != nil {
		slog.Error("criar cliente", "email", c.EmailCliente, "erro", err)
		http.Error(w, "Erro ao criar cliente", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)

	utils.WriteJSON(w, http.StatusCreated, Detalhar(c, h.hoje()))
}

// GET /clientes?gestor=&status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !statuscampanha.Valido(status) {
		http.Error(w, "Status inválido", http.StatusBadRequest)
		return
	}
	f, ok := filtroPara(ident, q.Get("gestor"), status)
	if !ok {
		utils.WriteJSON(w, http.StatusOK, []ClienteDetalhado{})
		return
	}

	list, err := h.Repo.List(f)
	if err != nil {
		slog.Error("listar clientes", "erro", err)
		http.Error(w, "Erro ao listar clientes", http.StatusInternalServerError)
		return
	}
	hoje := h.hoje()
	out := make([]ClienteDetalhado, 0, len(list))
	for _, c := range list {
		out = append(out, Detalhar(c, hoje))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// GET /clientes/{id}
// Lê do cache quando disponível; a avaliação de prazo é sempre recalculada.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	c, versao, ok := lerDoCache(r.Context(), h.Cache, uint(id))
	if !ok {
		c, err = h.Repo.FindByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Cliente não encontrado", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("buscar cliente", "cliente_id", id, "erro", err)
			http.Error(w, "Erro ao buscar cliente", http.StatusInternalServerError)
			return
		}
		gravarNoCache(r.Context(), h.Cache, versao, c)
	}
	if !PodeVer(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Detalhar(*c, h.hoje()))
}

// PUT /clientes/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	c, ident := h.carregar(w, r)
	if c == nil {
		return
	}
	if !PodeEditar(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}
	var in ClienteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	gestorAnterior := c.EmailGestor
	if err := in.aplicar(c, ident.EhAdmin()); err != nil {
		erroDeInput(w, err)
		return
	}
	if !ident.EhAdmin() {
		c.EmailGestor = gestorAnterior
	}
	outro, err := h.Repo.FindByEmail(c.EmailCliente)
	switch {
	case err == nil && outro.ID != c.ID:
		http.Error(w, "Já existe cliente com este email", http.StatusConflict)
		return
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		slog.Error("verificar email duplicado", "email", c.EmailCliente, "erro", err)
		http.Error(w, "Erro ao verificar cliente", http.StatusInternalServerError)
		return
	}

	if err := h.Repo.Save(c); err != nil {
		slog.Error("atualizar cliente", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao atualizar cliente", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)
	utils.WriteJSON(w, http.StatusOK, Detalhar(*c, h.hoje()))
}

// DELETE /clientes/{id}
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repo.DeleteByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Cliente não encontrado", http.StatusNotFound)
			return
		}
		slog.Error("remover cliente", "cliente_id", id, "erro", err)
		http.Error(w, "Erro ao remover cliente", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), uint(id))
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /clientes/{id}/status
// Qualquer status da lista é aceito a partir de qualquer outro.
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	c, ident := h.carregar(w, r)
	if c == nil {
		return
	}
	if !PodeEditar(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}
	var in StatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if !statuscampanha.Valido(in.StatusCampanha) {
		http.Error(w, "Status inválido", http.StatusBadRequest)
		return
	}

	campos := map[string]any{"status_campanha": in.StatusCampanha}
	if in.StatusCampanha == statuscampanha.Problema {
		campos["descricao_problema"] = in.DescricaoProblema
	}
	if err := h.Repo.Updates(c.ID, campos); err != nil {
		slog.Error("atualizar status", "cliente_id", c.ID, "erro", err)
		http.Error(w, "Erro ao atualizar status", http.StatusInternalServerError)
		return
	}
	h.alterado(r.Context(), c.ID)

	c.StatusCampanha = in.StatusCampanha
	if in.StatusCampanha == statuscampanha.Problema {
		c.DescricaoProblema = in.DescricaoProblema
	}
	utils.WriteJSON(w, http.StatusOK, Detalhar(*c, h.hoje()))
}

// atrasados devolve os clientes visíveis à identidade cujo prazo venceu.
func (h *Handler) atrasados(ident auth.Identidade, gestor string) ([]ClienteDetalhado, error) {
	f, ok := filtroPara(ident, gestor, "")
	if !ok {
		return nil, nil
	}
	list, err := h.Repo.List(f)
	if err != nil {
		return nil, err
	}
	hoje := h.hoje()
	out := []ClienteDetalhado{}
	for _, c := range list {
		d := Detalhar(c, hoje)
		if d.Prazo.Atrasado() {
			out = append(out, d)
		}
	}
	return out, nil
}

// GET /clientes/atrasados?gestor=
func (h *Handler) ListarAtrasados(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	out, err := h.atrasados(ident, r.URL.Query().Get("gestor"))
	if err != nil {
		slog.Error("listar atrasados", "erro", err)
		http.Error(w, "Erro ao listar clientes atrasados", http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []ClienteDetalhado{}
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /notificacoes/atrasos
func (h *Handler) NotificarAtrasos(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentidadeDe(r.Context())
	out, err := h.atrasados(ident, "")
	if err != nil {
		slog.Error("listar atrasados", "erro", err)
		http.Error(w, "Erro ao listar clientes atrasados", http.StatusInternalServerError)
		return
	}

	itens := make([]map[string]any, 0, len(out))
	for _, d := range out {
		itens = append(itens, map[string]any{
			"id":          d.ID,
			"nomeCliente": d.NomeCliente,
			"emailGestor": d.EmailGestor,
			"status":      d.StatusCampanha,
			"diasAtraso":  d.Prazo.Dias,
		})
	}
	if len(itens) > 0 && h.Alertas != nil {
		err := h.Alertas.Enviar(r.Context(), notificacao.Alerta{
			Tipo:     notificacao.TipoAtrasos,
			Mensagem: fmt.Sprintf("%d cliente(s) com prazo de entrega vencido", len(itens)),
			Dados:    map[string]any{"clientes": itens},
		})
		if err != nil {
			slog.Error("enviar alerta de atrasos", "erro", err)
			http.Error(w, "Falha ao enviar alerta", http.StatusBadGateway)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"atrasados": len(itens)})
}

// erroDeInput traduz os erros de ClienteInput.aplicar em status HTTP.
func erroDeInput(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrComissaoRestrita) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}
