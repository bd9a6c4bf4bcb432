package statuscampanha

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcularProgresso(t *testing.T) {
	t.Run("primeira etapa", func(t *testing.T) {
		p := CalcularProgresso(PreenchimentoFormulario)
		assert.Equal(t, CategoriaEtapa, p.Categoria)
		assert.Equal(t, 1, p.Etapa)
		assert.InDelta(t, 100.0/float64(len(Etapas)), p.Percentual, 0.0001)
	})

	t.Run("última etapa é cem por cento", func(t *testing.T) {
		p := CalcularProgresso(Otimizacao)
		assert.Equal(t, len(Etapas), p.Etapa)
		assert.InDelta(t, 100.0, p.Percentual, 0.0001)
	})

	t.Run("apelidos usam a etapa equivalente", func(t *testing.T) {
		assert.Equal(t, CalcularProgresso(NoAr), CalcularProgresso(CampanhaNoAr))
		assert.Equal(t, CalcularProgresso(PreenchimentoFormulario), CalcularProgresso(Formulario))
	})

	t.Run("percentual cresce com a ordem das etapas", func(t *testing.T) {
		anterior := 0.0
		for _, e := range Etapas {
			p := CalcularProgresso(e)
			assert.Greater(t, p.Percentual, anterior, e)
			anterior = p.Percentual
		}
	})

	t.Run("exceções não progridem", func(t *testing.T) {
		for _, s := range []string{Off, Reembolso, Cancelado, Problema, ClienteSumiu} {
			p := CalcularProgresso(s)
			assert.Equal(t, CategoriaExcecao, p.Categoria, s)
			assert.Zero(t, p.Etapa, s)
			assert.Zero(t, p.Percentual, s)
		}
	})

	t.Run("status fora do fluxo e desconhecidos", func(t *testing.T) {
		assert.Equal(t, CategoriaForaFluxo, CalcularProgresso(ClienteNovo).Categoria)
		assert.Equal(t, CategoriaForaFluxo, CalcularProgresso("qualquer coisa").Categoria)
		assert.Zero(t, CalcularProgresso("qualquer coisa").Percentual)
	})
}

func TestValido(t *testing.T) {
	for _, s := range Todos() {
		assert.True(t, Valido(s), s)
	}
	assert.False(t, Valido("no ar"), "a validação é exata")
	assert.False(t, Valido(""))
	assert.False(t, Valido("Entregue"))
}

func TestEhEntregue(t *testing.T) {
	assert.True(t, EhEntregue("No Ar"))
	assert.True(t, EhEntregue("  OTIMIZAÇÃO "))
	assert.True(t, EhEntregue("campanha no ar"))
	assert.False(t, EhEntregue("Brief"))
	assert.False(t, EhEntregue(""))
	assert.False(t, EhEntregue("Off"))
}

func TestPermiteSaque(t *testing.T) {
	assert.True(t, PermiteSaque(CampanhaNoAr))
	assert.False(t, PermiteSaque(Agendamento))
	assert.False(t, PermiteSaque(Reembolso))
}
