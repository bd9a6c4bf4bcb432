package comissao

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComissaoFixa(t *testing.T) {
	t.Run("faixas da tabela", func(t *testing.T) {
		assert.Equal(t, 100.0, CalcularComissaoFixa(500))
		assert.Equal(t, 80.0, CalcularComissaoFixa(350))
		assert.Equal(t, 40.0, CalcularComissaoFixaPorTipo(500, TipoVendedor))
		assert.Equal(t, 30.0, CalcularComissaoFixaPorTipo(350, TipoVendedor))
	})

	t.Run("valores fora da tabela são rejeitados pelo validador", func(t *testing.T) {
		for _, v := range []float64{0, 349.99, 400, 500.01, -500, 1000} {
			assert.False(t, ValorVendaValido(v), "%v", v)
			err := ValidarValorVenda(v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValorVendaInvalido))
		}
		assert.NoError(t, ValidarValorVenda(350))
		assert.NoError(t, ValidarValorVenda(500))
	})

	t.Run("tabela devolvida é uma cópia", func(t *testing.T) {
		tabela := TabelaClienteNovo()
		tabela[0].Gestor = 1
		assert.Equal(t, 100.0, CalcularComissaoFixa(500))
	})
}

func TestComissaoPercentual(t *testing.T) {
	assert.Equal(t, 100.0, CalcularComissaoPercentual(1000, 10))
	assert.Equal(t, 33.33, CalcularComissaoPercentual(333.33, 10))
	assert.Equal(t, 0.01, CalcularComissaoPercentual(0.5, 1))

	t.Run("limites distintos por fluxo", func(t *testing.T) {
		cliente := LimitePercentual{Minimo: PercentualMinimo, Maximo: 50}
		parceria := LimitePercentual{Minimo: PercentualMinimo, Maximo: 100}

		assert.NoError(t, cliente.Validar(1))
		assert.NoError(t, cliente.Validar(50))
		assert.Error(t, cliente.Validar(51))
		assert.NoError(t, parceria.Validar(100))
		assert.Error(t, parceria.Validar(100.5))

		err := parceria.Validar(0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPercentualForaDaFaixa))
		assert.Error(t, parceria.Validar(math.NaN()))
	})

	t.Run("ida e volta sem deriva além dos centavos", func(t *testing.T) {
		v := CalcularComissaoPercentual(1234.56, 7.5)
		assert.Equal(t, v, Arredondar(v))
		assert.Equal(t, 92.59, v)
	})
}

func TestValorManual(t *testing.T) {
	assert.NoError(t, ValidarValorManual(10))
	assert.NoError(t, ValidarValorManual(1000))
	assert.ErrorIs(t, ValidarValorManual(9.99), ErrValorManualForaDaFaixa)
	assert.ErrorIs(t, ValidarValorManual(1000.01), ErrValorManualForaDaFaixa)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusAPagar, StatusInicial(80))
	assert.Equal(t, StatusPendente, StatusInicial(0))
	assert.True(t, StatusValido(StatusSolicitado))
	assert.False(t, StatusValido("pago"))
	assert.Equal(t, ValorPadrao, ValorEfetivo(0))
	assert.Equal(t, 80.0, ValorEfetivo(80))
}
