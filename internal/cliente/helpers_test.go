package cliente

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/config"
	"github.com/trafegoporcents/api-gestao/internal/notificacao"
	"github.com/trafegoporcents/api-gestao/internal/testutil"
	"github.com/trafegoporcents/api-gestao/internal/usuario"
)

// 2024-01-30 é uma terça-feira.
var agoraTeste = time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)

type cacheMemoria struct {
	mu        sync.Mutex
	dados     map[uint][]byte
	versoes   map[uint]int64
	hits      int
	alterados []uint
}

func novoCacheMemoria() *cacheMemoria {
	return &cacheMemoria{dados: map[uint][]byte{}, versoes: map[uint]int64{}}
}

func (c *cacheMemoria) Obter(_ context.Context, id uint) ([]byte, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.dados[id]
	if ok {
		c.hits++
	}
	return d, c.versoes[id], ok
}

func (c *cacheMemoria) Guardar(_ context.Context, id uint, versao int64, dados []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versoes[id] == versao {
		c.dados[id] = dados
	}
}

func (c *cacheMemoria) ClienteAlterado(_ context.Context, id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versoes[id]++
	delete(c.dados, id)
	c.alterados = append(c.alterados, id)
}

type alertasFake struct {
	enviados   []notificacao.Alerta
	duplicados []string
	err        error
}

func (a *alertasFake) Enviar(_ context.Context, al notificacao.Alerta) error {
	if a.err != nil {
		return a.err
	}
	a.enviados = append(a.enviados, al)
	return nil
}

func (a *alertasFake) EmailDuplicado(_ context.Context, email, _ string) {
	a.duplicados = append(a.duplicados, email)
}

type eventosFake struct {
	ids []uint
}

func (e eventosFake) Assinar(context.Context) (<-chan uint, error) {
	ch := make(chan uint, len(e.ids))
	for _, id := range e.ids {
		ch <- id
	}
	close(ch)
	return ch, nil
}

type ambiente struct {
	db      *gorm.DB
	router  *mux.Router
	handler *Handler
	cache   *cacheMemoria
	alertas *alertasFake
}

func configTeste() config.Config {
	return config.Config{
		PercentualMaxCliente:  50,
		PercentualMaxParceria: 100,
		FusoHorario:           "America/Sao_Paulo",
	}
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	db := testutil.NovoBanco(t, &Cliente{}, &usuario.Usuario{})
	cache := novoCacheMemoria()
	alertas := &alertasFake{}

	h := NewHandler(NewRepository(db), config.ProviderFixo(configTeste()), cache, alertas)
	h.Agora = func() time.Time { return agoraTeste }

	r := mux.NewRouter()
	RegistrarRotas(r, h)
	return &ambiente{db: db, router: r, handler: h, cache: cache, alertas: alertas}
}

func (a *ambiente) criar(t *testing.T, c Cliente) Cliente {
	t.Helper()
	if c.StatusCampanha == "" {
		c.StatusCampanha = "Brief"
	}
	if err := NewRepository(a.db).Create(&c); err != nil {
		t.Fatal(err)
	}
	return c
}

func data(s string) *time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return &d
}
