package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/cache"
	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/comentario"
	"github.com/trafegoporcents/api-gestao/internal/config"
	"github.com/trafegoporcents/api-gestao/internal/notificacao"
	"github.com/trafegoporcents/api-gestao/internal/pagamento"
	"github.com/trafegoporcents/api-gestao/internal/painel"
	"github.com/trafegoporcents/api-gestao/internal/saque"
	"github.com/trafegoporcents/api-gestao/internal/usuario"
	"github.com/trafegoporcents/api-gestao/internal/utils/db"
	"github.com/trafegoporcents/api-gestao/internal/venda"
)

func fatal(msg string, err error) {
	slog.Error(msg, "erro", err)
	os.Exit(1)
}

func migrar(database *gorm.DB) error {
	for _, m := range []func(*gorm.DB) error{
		usuario.Migrate,
		auth.Migrate,
		cliente.Migrate,
		pagamento.Migrate,
		saque.Migrate,
		venda.Migrate,
		comentario.Migrate,
	} {
		if err := m(database); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx := context.Background()

	provider, err := config.NovoProvider(".env")
	if err != nil {
		slog.Error("Erro ao carregar configuração", "erro", err)
		os.Exit(1)
	}
	cfg := provider.Atual()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.NivelLog()})))

	database, err := db.ConnectDataBase(ctx, cfg)
	if err != nil {
		fatal("Erro ao conectar no banco", err)
	}
	if err := migrar(database); err != nil {
		fatal("Erro no AutoMigrate", err)
	}
	if err := usuario.GarantirAdmin(database, cfg); err != nil {
		fatal("Erro ao criar admin inicial", err)
	}

	emissor, err := auth.CarregarEmissor(cfg)
	if err != nil {
		fatal("Erro ao carregar chave de assinatura", err)
	}
	if cfg.AuthJWKSExterno != "" {
		externo, err := auth.NovoExterno(ctx, cfg.AuthJWKSExterno, cfg.AuthAudience, usuario.NovoResolvedor(database))
		if err != nil {
			fatal("Erro ao carregar JWKS externo", err)
		}
		emissor.AceitarExterno(externo)
	}
	sessoes := auth.NovasSessoes(database, emissor, cfg.CookieSecure)

	// Sem Redis a API funciona sem cache e sem o stream de eventos.
	var cacheClientes cliente.Cache = cliente.SemCache{}
	var eventos cliente.Eventos
	var observador cliente.Observador = cliente.SemCache{}
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			fatal("Erro ao conectar no Redis", err)
		}
		defer rdb.Close()
		redisClientes := cache.NewClientesRedis(rdb)
		cacheClientes, eventos, observador = redisClientes, redisClientes, redisClientes
	}

	alertas := notificacao.NovoNotificador(func() string { return provider.Atual().WebhookAlertaURL })

	// Handlers
	usuarioHandler := usuario.NewHandler(database, sessoes)
	clienteHandler := cliente.NewHandler(cliente.NewRepository(database), provider, cacheClientes, alertas)
	clienteHandler.Eventos = eventos
	pagamentoHandler := pagamento.NewHandler(database, observador)
	saqueHandler := saque.NewHandler(database, observador)
	vendaHandler := venda.NewHandler(database, provider)
	comentarioHandler := comentario.NewHandler(database)
	painelHandler := painel.NewHandler(database, provider)

	// Router
	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/auth/login", usuarioHandler.Login).Methods("POST")
	r.HandleFunc("/auth/refresh", sessoes.RefreshHTTPHandler).Methods("POST")
	r.HandleFunc("/auth/logout", sessoes.LogoutHTTPHandler).Methods("POST")
	r.HandleFunc("/.well-known/jwks.json", emissor.JWKSHandler).Methods("GET")

	// Rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(emissor.MiddlewareAutenticacao)
	usuario.RegistrarRotas(api, usuarioHandler)
	cliente.RegistrarRotas(api, clienteHandler)
	pagamento.RegistrarRotas(api, pagamentoHandler)
	saque.RegistrarRotas(api, saqueHandler)
	venda.RegistrarRotas(api, vendaHandler)
	comentario.RegistrarRotas(api, comentarioHandler)
	painel.RegistrarRotas(api, painelHandler)
	api.Handle("/admin/config/recarregar", auth.RequireAdmin(config.RecarregarHandler(provider))).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigens,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	slog.Info("Servidor rodando", "porta", cfg.Porta)
	if err := http.ListenAndServe(":"+cfg.Porta, c.Handler(r)); err != nil {
		fatal("Servidor encerrado", err)
	}
}
