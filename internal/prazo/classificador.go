package prazo

import (
	"fmt"
	"strings"
	"time"

	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
)

// PrazoEntregaDiasUteis é o prazo contratual de entrega da campanha a partir da venda.
const PrazoEntregaDiasUteis = 15

// LimiteAtencao é o maior número de dias restantes ainda exibido como alerta.
const LimiteAtencao = 5

type Situacao string

const (
	SituacaoCumprido  Situacao = "cumprido"
	SituacaoNoPrazo   Situacao = "no_prazo"
	SituacaoAtencao   Situacao = "atencao"
	SituacaoUltimoDia Situacao = "ultimo_dia"
	SituacaoAtrasado  Situacao = "atrasado"
	SituacaoSemData   Situacao = "sem_data"
	SituacaoErro      Situacao = "erro"
)

// Avaliacao é o resultado exibido para o prazo de um cliente. Nunca é persistida.
type Avaliacao struct {
	Texto      string     `json:"texto"`
	Estilo     string     `json:"estilo"`
	Situacao   Situacao   `json:"situacao"`
	DataLimite *time.Time `json:"dataLimite,omitempty"`
	// Dias restantes (no prazo, atenção) ou de atraso (atrasado).
	Dias int `json:"dias"`
}

// Atrasado informa se a avaliação indica prazo vencido.
func (a Avaliacao) Atrasado() bool { return a.Situacao == SituacaoAtrasado }

var (
	avaliacaoCumprido = Avaliacao{
		Texto:    "✅ Cumprido",
		Estilo:   "bg-green-100 text-green-800 border border-green-300 px-2 py-1 rounded font-medium",
		Situacao: SituacaoCumprido,
	}
	avaliacaoSemData = Avaliacao{
		Texto:    "⚠️ Sem data de venda",
		Estilo:   "bg-orange-100 text-orange-800 px-2 py-1 rounded font-medium border border-orange-300",
		Situacao: SituacaoSemData,
	}
	avaliacaoErro = Avaliacao{
		Texto:    "❌ Erro no cálculo",
		Estilo:   "text-red-600",
		Situacao: SituacaoErro,
	}
)

// ParseData aceita "YYYY-MM-DD" (meia-noite UTC) e timestamps ISO 8601.
// Strings vazias ou inválidas retornam ok == false.
func ParseData(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AvaliarTexto é a variante de Avaliar para datas ainda não convertidas.
func AvaliarTexto(dataVenda, createdAt, status string, hoje time.Time) Avaliacao {
	var venda, criacao *time.Time
	if t, ok := ParseData(dataVenda); ok {
		venda = &t
	}
	if t, ok := ParseData(createdAt); ok {
		criacao = &t
	}
	return Avaliar(venda, criacao, status, hoje)
}

// Avaliar calcula o prazo (base + 15 dias úteis) e classifica a situação em
// relação a hoje. A base é a data da venda e, na falta dela, a data de criação.
// Status entregues ("No Ar", "Otimização", "Campanha no Ar") sempre resultam em cumprido.
func Avaliar(dataVenda, createdAt *time.Time, status string, hoje time.Time) (av Avaliacao) {
	defer func() {
		if r := recover(); r != nil {
			av = avaliacaoErro
		}
	}()

	if statuscampanha.EhEntregue(status) {
		return avaliacaoCumprido
	}

	base, ok := escolherBase(dataVenda, createdAt)
	if !ok {
		return avaliacaoSemData
	}

	limite := AdicionarDiasUteis(DataCivil(base), PrazoEntregaDiasUteis)
	dia := DataCivil(hoje)

	// DiasUteisEntre inclui as duas pontas; o -1 converte em dias até/desde o limite.
	if dia.After(limite) {
		atraso := DiasUteisEntre(limite, dia) - 1
		return Avaliacao{
			Texto:      fmt.Sprintf("❌ Atrasado em %d dias úteis", atraso),
			Estilo:     "text-red-600 font-bold",
			Situacao:   SituacaoAtrasado,
			DataLimite: &limite,
			Dias:       atraso,
		}
	}

	restantes := DiasUteisEntre(dia, limite) - 1
	switch {
	case restantes > LimiteAtencao:
		return Avaliacao{
			Texto:      fmt.Sprintf("⏳ Faltam %d dias úteis", restantes),
			Estilo:     "text-blue-600 font-medium",
			Situacao:   SituacaoNoPrazo,
			DataLimite: &limite,
			Dias:       restantes,
		}
	case restantes >= 1:
		return Avaliacao{
			Texto:      fmt.Sprintf("⏰ Faltam %d dias úteis", restantes),
			Estilo:     "text-yellow-600 font-bold",
			Situacao:   SituacaoAtencao,
			DataLimite: &limite,
			Dias:       restantes,
		}
	default:
		return Avaliacao{
			Texto:      "📍 Último dia para entrega",
			Estilo:     "text-orange-600 font-bold",
			Situacao:   SituacaoUltimoDia,
			DataLimite: &limite,
		}
	}
}

func escolherBase(dataVenda, createdAt *time.Time) (time.Time, bool) {
	if dataVenda != nil && !dataVenda.IsZero() {
		return *dataVenda, true
	}
	if createdAt != nil && !createdAt.IsZero() {
		return *createdAt, true
	}
	return time.Time{}, false
}
