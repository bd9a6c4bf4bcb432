package cliente

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Cache guarda o JSON de cada cliente por id e avisa os interessados quando
// um cliente muda. A implementação em Redis fica em internal/cache.
type Cache interface {
	// Obter também devolve a versão do cliente no momento da leitura.
	Obter(ctx context.Context, id uint) ([]byte, int64, bool)
	// Guardar descarta dados se o cliente mudou depois da versão informada.
	Guardar(ctx context.Context, id uint, versao int64, dados []byte)
	Observador
}

// Observador é avisado a cada gravação em todos_clientes.
type Observador interface {
	ClienteAlterado(ctx context.Context, id uint)
}

// Eventos entrega os ids publicados por ClienteAlterado.
type Eventos interface {
	Assinar(ctx context.Context) (<-chan uint, error)
}

// SemCache é usado quando REDIS_URL não está configurada.
type SemCache struct{}

func (SemCache) Obter(context.Context, uint) ([]byte, int64, bool) { return nil, 0, false }
func (SemCache) Guardar(context.Context, uint, int64, []byte)      {}
func (SemCache) ClienteAlterado(context.Context, uint)             {}

func lerDoCache(ctx context.Context, c Cache, id uint) (*Cliente, int64, bool) {
	dados, versao, ok := c.Obter(ctx, id)
	if !ok {
		return nil, versao, false
	}
	var cli Cliente
	if err := json.Unmarshal(dados, &cli); err != nil {
		slog.Warn("cache de cliente corrompido", "cliente_id", id, "erro", err)
		return nil, versao, false
	}
	return &cli, versao, true
}

func gravarNoCache(ctx context.Context, c Cache, versao int64, cli *Cliente) {
	dados, err := json.Marshal(cli)
	if err != nil {
		return
	}
	c.Guardar(ctx, cli.ID, versao, dados)
}
