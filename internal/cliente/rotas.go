package cliente

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trafegoporcents/api-gestao/internal/auth"
)

// RegistrarRotas monta as rotas de clientes em um router já autenticado.
func RegistrarRotas(r *mux.Router, h *Handler) {
	admin := auth.RequireAdmin
	gestao := auth.RequirePapel(auth.PapelAdmin, auth.PapelGestor)
	vendas := auth.RequirePapel(auth.PapelAdmin, auth.PapelVendedor)
	percentual := auth.RequirePapel(auth.PapelAdmin, auth.PapelCliente)

	r.Handle("/clientes", gestao(http.HandlerFunc(h.Criar))).Methods("POST")
	r.HandleFunc("/clientes", h.Listar).Methods("GET")
	r.Handle("/clientes/atrasados", gestao(http.HandlerFunc(h.ListarAtrasados))).Methods("GET")
	r.HandleFunc("/clientes/eventos", h.StreamEventos).Methods("GET")
	r.HandleFunc("/clientes/{id:[0-9]+}", h.BuscarPorID).Methods("GET")
	r.Handle("/clientes/{id:[0-9]+}", gestao(http.HandlerFunc(h.Atualizar))).Methods("PUT")
	r.Handle("/clientes/{id:[0-9]+}", admin(http.HandlerFunc(h.Remover))).Methods("DELETE")
	r.Handle("/clientes/{id:[0-9]+}/status", gestao(http.HandlerFunc(h.AtualizarStatus))).Methods("PATCH")

	r.Handle("/clientes/{id:[0-9]+}/comissao/valor", admin(http.HandlerFunc(h.AtualizarValorComissao))).Methods("PATCH")
	r.Handle("/clientes/{id:[0-9]+}/comissao/percentual", percentual(http.HandlerFunc(h.AtualizarPercentualComissao))).Methods("PATCH")
	r.Handle("/clientes/{id:[0-9]+}/comissao/status", admin(http.HandlerFunc(h.AtualizarStatusComissao))).Methods("PATCH")
	r.HandleFunc("/comissoes/simular", h.SimularComissao).Methods("POST")

	r.Handle("/vendas/cliente-novo", vendas(http.HandlerFunc(h.VendaClienteNovo))).Methods("POST")
	r.Handle("/notificacoes/atrasos", admin(http.HandlerFunc(h.NotificarAtrasos))).Methods("POST")
	r.Handle("/admin/clientes/orfaos", admin(http.HandlerFunc(h.RecuperarOrfaos))).Methods("POST")
}
