package cliente

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const intervaloPing = 25 * time.Second

// GET /clientes/eventos
// Server-sent events: cada evento "cliente" carrega o id do registro alterado
// para o painel buscar só aquela linha.
func (h *Handler) StreamEventos(w http.ResponseWriter, r *http.Request) {
	if h.Eventos == nil {
		http.Error(w, "Eventos indisponíveis", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming não suportado", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	ids, err := h.Eventos.Assinar(ctx)
	if err != nil {
		slog.Error("assinar eventos de clientes", "erro", err)
		http.Error(w, "Eventos indisponíveis", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ping := time.NewTicker(intervaloPing)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case id, ok := <-ids:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: cliente\ndata: {\"id\":%d}\n\n", id); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
