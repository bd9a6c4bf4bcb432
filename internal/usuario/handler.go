package usuario

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/config"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Sessoes    *auth.Sessoes
}

func NewHandler(db *gorm.DB, sessoes *auth.Sessoes) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Sessoes:    sessoes,
	}
}

// POST /auth/login
// Valida email/senha, emite access token RS256 e seta refresh token em cookie httpOnly.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.FindByEmail(h.DB, utils.NormalizarEmail(req.Email))
	if err != nil || !utils.CheckSenha(user.Senha, req.Password) {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}
	if !user.Ativo {
		http.Error(w, "usuário inativo", http.StatusForbidden)
		return
	}

	resp, err := h.Sessoes.IssueTokensOnLogin(w, user.Identidade())
	if err != nil {
		slog.Error("emitir tokens", "usuario", user.ID, "erro", err)
		http.Error(w, "erro ao gerar tokens", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// POST /usuarios
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CriarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	req.Email = utils.NormalizarEmail(req.Email)
	if req.Nome == "" || req.Email == "" {
		http.Error(w, "nome e email são obrigatórios", http.StatusBadRequest)
		return
	}
	if !req.Papel.Valido() {
		http.Error(w, "papel inválido", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashSenha(req.Senha)
	if errors.Is(err, utils.ErrSenhaCurta) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	if _, err := h.Repository.FindByEmail(h.DB, req.Email); err == nil {
		http.Error(w, "email já cadastrado", http.StatusConflict)
		return
	}

	u := Usuario{
		Nome:     req.Nome,
		Email:    req.Email,
		Senha:    hash,
		Telefone: req.Telefone,
		Papel:    req.Papel,
		Ativo:    true,
	}
	if err := h.Repository.Save(h.DB, &u); err != nil {
		http.Error(w, "erro ao salvar usuário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(u)
}

// GET /usuarios?papel=gestor
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	papel := auth.Papel(r.URL.Query().Get("papel"))
	if papel != "" && !papel.Valido() {
		http.Error(w, "papel inválido", http.StatusBadRequest)
		return
	}
	list, err := h.Repository.ListAll(h.DB, papel)
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /usuarios/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	ident, _ := auth.IdentidadeDe(r.Context())
	if !ident.EhAdmin() && uint(id) != ident.UserID {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	}

	u, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// PUT /usuarios/me/senha
func (h *Handler) AlterarSenha(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentidadeDe(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	var req AlterarSenhaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByID(h.DB, ident.UserID)
	if err != nil {
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
		return
	}
	if !utils.CheckSenha(u.Senha, req.SenhaAtual) {
		http.Error(w, "senha atual incorreta", http.StatusUnauthorized)
		return
	}
	hash, err := utils.HashSenha(req.NovaSenha)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repository.AtualizarSenha(h.DB, u.ID, hash); err != nil {
		http.Error(w, "erro ao atualizar senha", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GarantirAdmin cria o primeiro admin a partir de ADMIN_EMAIL/ADMIN_SENHA
// quando ainda não existe nenhum.
func GarantirAdmin(db *gorm.DB, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminSenha == "" {
		return nil
	}
	repo := NewRepository()
	existe, err := repo.ExistePapel(db, auth.PapelAdmin)
	if err != nil || existe {
		return err
	}
	hash, err := utils.HashSenha(cfg.AdminSenha)
	if err != nil {
		return err
	}
	u := Usuario{
		Nome:  "Administrador",
		Email: utils.NormalizarEmail(cfg.AdminEmail),
		Senha: hash,
		Papel: auth.PapelAdmin,
		Ativo: true,
	}
	if err := repo.Save(db, &u); err != nil {
		return err
	}
	slog.Info("admin inicial criado", "email", u.Email)
	return nil
}

// CriarCliente grava o acesso do cliente final dentro da transação da venda.
// Devolve a senha temporária em texto puro para ser repassada ao cliente.
func CriarCliente(tx *gorm.DB, nome, email, telefone string) (*Usuario, string, error) {
	senha, err := utils.GerarSenhaTemporaria()
	if err != nil {
		return nil, "", err
	}
	hash, err := utils.HashSenha(senha)
	if err != nil {
		return nil, "", err
	}
	u := Usuario{
		Nome:     nome,
		Email:    utils.NormalizarEmail(email),
		Senha:    hash,
		Telefone: telefone,
		Papel:    auth.PapelCliente,
		Ativo:    true,
	}
	if err := NewRepository().Save(tx, &u); err != nil {
		return nil, "", err
	}
	return &u, senha, nil
}

// RegistrarRotas monta as rotas autenticadas de usuários. O login fica no router público.
func RegistrarRotas(r *mux.Router, h *Handler) {
	r.Handle("/usuarios", auth.RequireAdmin(http.HandlerFunc(h.Criar))).Methods("POST")
	r.Handle("/usuarios", auth.RequireAdmin(http.HandlerFunc(h.Listar))).Methods("GET")
	r.HandleFunc("/usuarios/me/senha", h.AlterarSenha).Methods("PUT")
	r.HandleFunc("/usuarios/{id:[0-9]+}", h.BuscarPorID).Methods("GET")
}
