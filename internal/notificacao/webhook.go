package notificacao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	TipoEmailDuplicado = "email_duplicado"
	TipoAtrasos        = "atrasos"
)

// Alerta é o corpo enviado ao webhook de alertas.
type Alerta struct {
	Tipo      string         `json:"tipo"`
	Mensagem  string         `json:"mensagem"`
	Dados     map[string]any `json:"dados,omitempty"`
	EnviadoEm time.Time      `json:"enviadoEm"`
}

// Notificador envia alertas para WEBHOOK_ALERTA_URL. A URL é lida a cada envio
// para acompanhar recargas de configuração; vazia desliga o envio.
type Notificador struct {
	URL    func() string
	Client *http.Client
}

func NovoNotificador(url func() string) *Notificador {
	return &Notificador{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (n *Notificador) Enviar(ctx context.Context, a Alerta) error {
	url := n.URL()
	if url == "" {
		slog.Debug("webhook de alerta não configurado", "tipo", a.Tipo)
		return nil
	}
	if a.EnviadoEm.IsZero() {
		a.EnviadoEm = time.Now().UTC()
	}
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("enviar webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondeu %d", resp.StatusCode)
	}
	return nil
}

// EmailDuplicado avisa que um vendedor tentou cadastrar um cliente já existente.
// Falhas só são logadas.
func (n *Notificador) EmailDuplicado(ctx context.Context, email, vendedor string) {
	err := n.Enviar(ctx, Alerta{
		Tipo:     TipoEmailDuplicado,
		Mensagem: "Alerta: nova venda com email de cliente já existente",
		Dados:    map[string]any{"email": email, "vendedor": vendedor},
	})
	if err != nil {
		slog.Error("webhook email duplicado", "email", email, "erro", err)
	}
}
