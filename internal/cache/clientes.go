package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TTLCliente    = 5 * time.Minute
	CanalClientes = "clientes:alterados"
)

func chaveCliente(id uint) string {
	return "cliente:" + strconv.FormatUint(uint64(id), 10)
}

// chaveVersao conta as alterações do cliente. Não expira.
func chaveVersao(id uint) string {
	return chaveCliente(id) + ":versao"
}

// ClientesRedis implementa o cache de leitura de clientes e o canal de
// alterações sobre um único *redis.Client.
type ClientesRedis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClientesRedis(client *redis.Client) *ClientesRedis {
	return &ClientesRedis{client: client, ttl: TTLCliente}
}

// Obter devolve o JSON em cache e a versão atual do cliente, que deve ser
// repassada a Guardar. Qualquer erro do Redis é tratado como ausência.
func (c *ClientesRedis) Obter(ctx context.Context, id uint) ([]byte, int64, bool) {
	vals, err := c.client.MGet(ctx, chaveCliente(id), chaveVersao(id)).Result()
	if err != nil {
		slog.Warn("ler cache de cliente", "cliente_id", id, "erro", err)
		return nil, -1, false
	}
	var versao int64
	if v, ok := vals[1].(string); ok {
		if versao, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, -1, false
		}
	}
	dados, ok := vals[0].(string)
	if !ok {
		return nil, versao, false
	}
	return []byte(dados), versao, true
}

var errVersaoMudou = errors.New("cliente alterado durante a leitura")

// Guardar só grava se a versão do cliente ainda for a lida em Obter. Uma
// alteração concluída entre a leitura do banco e a gravação descarta o valor.
func (c *ClientesRedis) Guardar(ctx context.Context, id uint, versao int64, dados []byte) {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		atual, err := tx.Get(ctx, chaveVersao(id)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if atual != versao {
			return errVersaoMudou
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, chaveCliente(id), dados, c.ttl)
			return nil
		})
		return err
	}, chaveVersao(id))
	switch {
	case err == nil, errors.Is(err, errVersaoMudou), errors.Is(err, redis.TxFailedErr):
	default:
		slog.Warn("gravar cache de cliente", "cliente_id", id, "erro", err)
	}
}

// ClienteAlterado incrementa a versão, remove a chave do cliente e publica o
// id em CanalClientes.
func (c *ClientesRedis) ClienteAlterado(ctx context.Context, id uint) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, chaveVersao(id))
		pipe.Del(ctx, chaveCliente(id))
		return nil
	})
	if err != nil {
		slog.Warn("invalidar cache de cliente", "cliente_id", id, "erro", err)
	}
	if err := c.client.Publish(ctx, CanalClientes, strconv.FormatUint(uint64(id), 10)).Err(); err != nil {
		slog.Warn("publicar alteração de cliente", "cliente_id", id, "erro", err)
	}
}

// Assinar entrega os ids publicados até ctx ser cancelado; o canal é fechado em seguida.
func (c *ClientesRedis) Assinar(ctx context.Context) (<-chan uint, error) {
	sub := c.client.Subscribe(ctx, CanalClientes)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan uint, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				id, err := strconv.ParseUint(msg.Payload, 10, 64)
				if err != nil {
					slog.Warn("payload inválido em "+CanalClientes, "payload", msg.Payload)
					continue
				}
				select {
				case out <- uint(id):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
