package comentario

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

// Handler encapsula o DB e o Repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// CriarComentarioRequest define o corpo da requisição para criar um comentário.
type CriarComentarioRequest struct {
	Texto           string `json:"texto"`
	IsSystemComment bool   `json:"isSystemComment,omitempty"`
}

func (h *Handler) clienteVisivel(w http.ResponseWriter, r *http.Request, id uint) bool {
	c, err := cliente.NewRepository(h.DB).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return false
	}
	if err != nil {
		http.Error(w, "Erro ao buscar cliente", http.StatusInternalServerError)
		return false
	}
	ident, _ := auth.IdentidadeDe(r.Context())
	if !cliente.PodeVer(ident, c) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return false
	}
	return true
}

// CriarComentario trata POST /clientes/{id}/comentarios
func (h *Handler) CriarComentario(w http.ResponseWriter, r *http.Request) {
	clienteID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de cliente inválido", http.StatusBadRequest)
		return
	}
	var req CriarComentarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	req.Texto = strings.TrimSpace(req.Texto)
	if req.Texto == "" {
		http.Error(w, "O campo 'texto' é obrigatório", http.StatusBadRequest)
		return
	}
	if !h.clienteVisivel(w, r, uint(clienteID)) {
		return
	}

	ident, _ := auth.IdentidadeDe(r.Context())
	if req.IsSystemComment && !ident.EhAdmin() {
		http.Error(w, "Apenas admin cria comentário de sistema", http.StatusForbidden)
		return
	}

	c := Comentario{
		ClienteID:  uint(clienteID),
		Texto:      req.Texto,
		AutorID:    ident.UserID,
		AutorEmail: ident.Email,
		AutorPapel: string(ident.Papel),
		IsSystem:   req.IsSystemComment,
	}
	if err := h.Repository.Criar(h.DB, &c); err != nil {
		http.Error(w, "Erro ao criar comentário", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toDTO(c))
}

// ListarPorCliente trata GET /clientes/{id}/comentarios
func (h *Handler) ListarPorCliente(w http.ResponseWriter, r *http.Request) {
	clienteID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de cliente inválido", http.StatusBadRequest)
		return
	}
	if !h.clienteVisivel(w, r, uint(clienteID)) {
		return
	}
	comentarios, err := h.Repository.ListarPorCliente(h.DB, uint(clienteID))
	if err != nil {
		http.Error(w, "Erro ao listar comentários", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toDTOs(comentarios))
}

// doAutor carrega o comentário {id} e confere se quem chama é o autor ou admin.
func (h *Handler) doAutor(w http.ResponseWriter, r *http.Request) *Comentario {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return nil
	}
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "Comentário não encontrado", http.StatusNotFound)
		return nil
	}
	ident, _ := auth.IdentidadeDe(r.Context())
	if !ident.EhAdmin() && (c.IsSystem || c.AutorID != ident.UserID) {
		http.Error(w, "Apenas o autor pode alterar o comentário", http.StatusForbidden)
		return nil
	}
	return c
}

// Atualizar trata PUT /comentarios/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	c := h.doAutor(w, r)
	if c == nil {
		return
	}
	var payload struct {
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Erro ao decodificar JSON", http.StatusBadRequest)
		return
	}
	payload.Texto = strings.TrimSpace(payload.Texto)
	if payload.Texto == "" {
		http.Error(w, "O campo 'texto' é obrigatório", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Atualizar(h.DB, c.ID, payload.Texto); err != nil {
		http.Error(w, "Erro ao atualizar comentário", http.StatusInternalServerError)
		return
	}
	c.Texto = payload.Texto
	utils.WriteJSON(w, http.StatusOK, toDTO(*c))
}

// RemoverComentario trata DELETE /comentarios/{id}
func (h *Handler) RemoverComentario(w http.ResponseWriter, r *http.Request) {
	c := h.doAutor(w, r)
	if c == nil {
		return
	}
	if err := h.Repository.Remover(h.DB, c.ID); err != nil {
		http.Error(w, "Erro ao remover comentário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegistrarRotas monta as rotas de comentários em um router já autenticado.
func RegistrarRotas(r *mux.Router, h *Handler) {
	r.HandleFunc("/clientes/{id:[0-9]+}/comentarios", h.CriarComentario).Methods("POST")
	r.HandleFunc("/clientes/{id:[0-9]+}/comentarios", h.ListarPorCliente).Methods("GET")
	r.HandleFunc("/comentarios/{id:[0-9]+}", h.Atualizar).Methods("PUT")
	r.HandleFunc("/comentarios/{id:[0-9]+}", h.RemoverComentario).Methods("DELETE")
}
