// Package painel monta o resumo da carteira de um gestor.
package painel

import (
	"time"

	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/prazo"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
)

type ResumoGestorDTO struct {
	EmailGestor       string         `json:"emailGestor"`
	TotalClientes     int            `json:"totalClientes"`
	PorStatus         map[string]int `json:"porStatus"`
	Atrasados         int            `json:"atrasados"`
	EmAtencao         int            `json:"emAtencao"`
	ComissoesPagas    int            `json:"comissoesPagas"`
	ValorComissaoPaga float64        `json:"valorComissaoPaga"`
	ProgressoMedio    float64        `json:"progressoMedio"`
}

// status que não entram na contagem de prazo do painel
var semPrazo = map[string]bool{
	statuscampanha.NoAr:       true,
	statuscampanha.Otimizacao: true,
	statuscampanha.Off:        true,
	statuscampanha.Reembolso:  true,
}

// MontarResumo agrega os clientes do gestor em relação a hoje.
func MontarResumo(email string, clientes []cliente.Cliente, hoje time.Time) ResumoGestorDTO {
	out := ResumoGestorDTO{
		EmailGestor:   email,
		TotalClientes: len(clientes),
		PorStatus:     map[string]int{},
	}
	var somaProgresso float64
	emEtapa := 0
	for i := range clientes {
		c := &clientes[i]
		out.PorStatus[c.StatusCampanha]++

		if !semPrazo[c.StatusCampanha] {
			switch c.Avaliar(hoje).Situacao {
			case prazo.SituacaoAtrasado:
				out.Atrasados++
			case prazo.SituacaoAtencao, prazo.SituacaoUltimoDia:
				out.EmAtencao++
			}
		}

		if c.Comissao == comissao.StatusPago {
			out.ComissoesPagas++
			out.ValorComissaoPaga += c.ValorComissaoEfetivo()
		}

		if p := statuscampanha.CalcularProgresso(c.StatusCampanha); p.Categoria == statuscampanha.CategoriaEtapa {
			somaProgresso += p.Percentual
			emEtapa++
		}
	}
	out.ValorComissaoPaga = comissao.Arredondar(out.ValorComissaoPaga)
	if emEtapa > 0 {
		out.ProgressoMedio = comissao.Arredondar(somaProgresso / float64(emEtapa))
	}
	return out
}
