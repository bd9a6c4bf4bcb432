// Package config carrega a configuração da API a partir de variáveis de
// ambiente e de um arquivo .env opcional.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/trafegoporcents/api-gestao/internal/comissao"
)

type Config struct {
	Porta    string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBHost            string `env:"DB_HOST" envDefault:"localhost"`
	DBPort            uint   `env:"DB_PORT" envDefault:"5432"`
	DBName            string `env:"DB_NAME" envDefault:"trafego"`
	DBUsuario         string `env:"DB_USERNAME"`
	DBSenha           string `env:"DB_PASSWORD"`
	DBSecretID        string `env:"DB_SECRET_ID"`
	DBSSLDesabilitado bool   `env:"DB_SSL_MODE_DISABLE"`

	RedisURL string `env:"REDIS_URL"`

	AuthChavePrivada string `env:"AUTH_RSA_PRIVATE_PATH"`
	AuthKID          string `env:"AUTH_KID"`
	AuthIssuer       string `env:"AUTH_ISSUER" envDefault:"api-gestao"`
	AuthAudience     string `env:"AUTH_AUDIENCE" envDefault:"painel"`
	AuthJWKSExterno  string `env:"AUTH_EXTERNAL_JWKS_URL"`
	CookieSecure     bool   `env:"COOKIE_SECURE"`

	CORSOrigens []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	WebhookAlertaURL string `env:"WEBHOOK_ALERTA_URL"`

	PercentualMaxCliente  float64 `env:"COMISSAO_PERCENTUAL_MAX_CLIENTE" envDefault:"50"`
	PercentualMaxParceria float64 `env:"COMISSAO_PERCENTUAL_MAX_PARCERIA" envDefault:"100"`

	FusoHorario string `env:"FUSO_HORARIO" envDefault:"America/Sao_Paulo"`

	AdminEmail string `env:"ADMIN_EMAIL"`
	AdminSenha string `env:"ADMIN_SENHA"`

	localizacao *time.Location
}

// Carregar lê os arquivos .env informados (ausentes são ignorados) e depois o
// ambiente do processo, que tem precedência sobre os arquivos.
func Carregar(arquivos ...string) (Config, error) {
	valores := map[string]string{}
	for _, arq := range arquivos {
		lidos, err := godotenv.Read(arq)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("ler %s: %w", arq, err)
		}
		for k, v := range lidos {
			valores[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			valores[k] = v
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: valores}); err != nil {
		return Config{}, fmt.Errorf("variáveis de ambiente: %w", err)
	}
	if err := cfg.validar(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validar() error {
	if c.PercentualMaxCliente < comissao.PercentualMinimo {
		return fmt.Errorf("COMISSAO_PERCENTUAL_MAX_CLIENTE deve ser >= %g", comissao.PercentualMinimo)
	}
	if c.PercentualMaxParceria < comissao.PercentualMinimo {
		return fmt.Errorf("COMISSAO_PERCENTUAL_MAX_PARCERIA deve ser >= %g", comissao.PercentualMinimo)
	}
	loc, err := time.LoadLocation(c.FusoHorario)
	if err != nil {
		return fmt.Errorf("FUSO_HORARIO inválido: %w", err)
	}
	c.localizacao = loc
	return nil
}

// Localizacao é o fuso usado para definir "hoje" nas regras de prazo.
func (c Config) Localizacao() *time.Location {
	if c.localizacao == nil {
		return time.UTC
	}
	return c.localizacao
}

// LimitePercentualCliente é a faixa do percentual confirmado pelo próprio cliente.
func (c Config) LimitePercentualCliente() comissao.LimitePercentual {
	return comissao.LimitePercentual{Minimo: comissao.PercentualMinimo, Maximo: c.PercentualMaxCliente}
}

// LimitePercentualParceria é a faixa do percentual nas vendas de parceria.
func (c Config) LimitePercentualParceria() comissao.LimitePercentual {
	return comissao.LimitePercentual{Minimo: comissao.PercentualMinimo, Maximo: c.PercentualMaxParceria}
}

func (c Config) NivelLog() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Provider guarda a configuração atual e permite recarregá-la em execução.
type Provider struct {
	mu       sync.RWMutex
	atual    Config
	arquivos []string
}

func NovoProvider(arquivos ...string) (*Provider, error) {
	cfg, err := Carregar(arquivos...)
	if err != nil {
		return nil, err
	}
	return &Provider{atual: cfg, arquivos: arquivos}, nil
}

// ProviderFixo devolve um Provider com a configuração dada, sem arquivos de origem.
func ProviderFixo(cfg Config) *Provider {
	_ = cfg.validar()
	return &Provider{atual: cfg}
}

func (p *Provider) Atual() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.atual
}

// Recarregar relê ambiente e arquivos. Em caso de erro a configuração anterior é mantida.
func (p *Provider) Recarregar() error {
	cfg, err := Carregar(p.arquivos...)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.atual = cfg
	p.mu.Unlock()
	return nil
}
