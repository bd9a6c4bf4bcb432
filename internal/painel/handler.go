package painel

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/config"
	"github.com/trafegoporcents/api-gestao/internal/utils"
)

type Handler struct {
	Clientes *cliente.Repository
	Config   *config.Provider
	Agora    func() time.Time
}

func NewHandler(db *gorm.DB, cfg *config.Provider) *Handler {
	return &Handler{Clientes: cliente.NewRepository(db), Config: cfg, Agora: time.Now}
}

// ObterResumoGestor trata GET /gestores/{email}/resumo
func (h *Handler) ObterResumoGestor(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(mux.Vars(r)["email"]))
	if email == "" {
		http.Error(w, "E-mail do gestor obrigatório", http.StatusBadRequest)
		return
	}
	ident, _ := auth.IdentidadeDe(r.Context())
	if !ident.EhAdmin() && !strings.EqualFold(ident.Email, email) {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}

	clientes, err := h.Clientes.List(cliente.Filtro{EmailGestor: email})
	if err != nil {
		slog.Error("listar clientes do gestor", "gestor", email, "erro", err)
		http.Error(w, "Erro ao montar resumo", http.StatusInternalServerError)
		return
	}
	hoje := h.Agora().In(h.Config.Atual().Localizacao())
	utils.WriteJSON(w, http.StatusOK, MontarResumo(email, clientes, hoje))
}

func RegistrarRotas(r *mux.Router, h *Handler) {
	r.Handle("/gestores/{email}/resumo",
		auth.RequirePapel(auth.PapelAdmin, auth.PapelGestor)(http.HandlerFunc(h.ObterResumoGestor))).Methods("GET")
}
