package config

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RecarregarHandler trata POST /admin/config/recarregar.
func RecarregarHandler(p *Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Recarregar(); err != nil {
			slog.Error("recarregar configuração", "erro", err)
			http.Error(w, "Configuração inválida, valores anteriores mantidos", http.StatusUnprocessableEntity)
			return
		}
		cfg := p.Atual()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":               "Configuração recarregada",
			"percentualMaxCliente":  cfg.PercentualMaxCliente,
			"percentualMaxParceria": cfg.PercentualMaxParceria,
			"fusoHorario":           cfg.FusoHorario,
		})
	}
}
