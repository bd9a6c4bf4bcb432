// Package comissao concentra as regras de cálculo de comissão: a tabela de
// valores fixos do fluxo Cliente Novo e o cálculo percentual sobre vendas.
package comissao

import (
	"errors"
	"fmt"
	"math"
)

// Tipo identifica quem recebe a comissão no fluxo Cliente Novo.
type Tipo string

const (
	TipoVendedor Tipo = "vendedor"
	TipoGestor   Tipo = "gestor"
)

// Estados do campo comissao em todos_clientes.
const (
	StatusPendente   = "Pendente"
	StatusAPagar     = "A Pagar"
	StatusSolicitado = "Solicitado"
	StatusPago       = "Pago"
)

const (
	// ValorPadrao é o valor de comissão assumido quando valor_comissao está zerado.
	ValorPadrao = 60.0

	ValorManualMinimo = 10.0
	ValorManualMaximo = 1000.0

	PercentualMinimo = 1.0
)

var (
	ErrValorVendaInvalido     = errors.New("valor de venda fora da tabela de comissão")
	ErrPercentualForaDaFaixa  = errors.New("percentual fora da faixa permitida")
	ErrValorManualForaDaFaixa = errors.New("valor de comissão fora da faixa permitida")
)

// Faixa é uma linha da tabela fixa do fluxo Cliente Novo.
type Faixa struct {
	ValorVenda float64 `json:"valorVenda"`
	Vendedor   float64 `json:"vendedor"`
	Gestor     float64 `json:"gestor"`
}

var tabelaClienteNovo = []Faixa{
	{ValorVenda: 500, Vendedor: 40, Gestor: 100},
	{ValorVenda: 350, Vendedor: 30, Gestor: 80},
}

// TabelaClienteNovo devolve uma cópia da tabela de faixas.
func TabelaClienteNovo() []Faixa {
	out := make([]Faixa, len(tabelaClienteNovo))
	copy(out, tabelaClienteNovo)
	return out
}

// ValorVendaValido informa se o valor pertence ao conjunto fechado da tabela.
func ValorVendaValido(valorVenda float64) bool {
	_, ok := faixaPara(valorVenda)
	return ok
}

// ValidarValorVenda retorna ErrValorVendaInvalido para valores fora da tabela.
func ValidarValorVenda(valorVenda float64) error {
	if !ValorVendaValido(valorVenda) {
		return fmt.Errorf("%w: %.2f", ErrValorVendaInvalido, valorVenda)
	}
	return nil
}

// CalcularComissaoFixa devolve a comissão do gestor para o valor de venda.
// O valor deve ter passado por ValorVendaValido; fora da tabela o resultado é 0.
func CalcularComissaoFixa(valorVenda float64) float64 {
	return CalcularComissaoFixaPorTipo(valorVenda, TipoGestor)
}

func CalcularComissaoFixaPorTipo(valorVenda float64, tipo Tipo) float64 {
	f, ok := faixaPara(valorVenda)
	if !ok {
		return 0
	}
	if tipo == TipoVendedor {
		return f.Vendedor
	}
	return f.Gestor
}

func faixaPara(valorVenda float64) (Faixa, bool) {
	for _, f := range tabelaClienteNovo {
		if f.ValorVenda == valorVenda {
			return f, true
		}
	}
	return Faixa{}, false
}

// CalcularComissaoPercentual devolve valorVenda * percentual / 100 arredondado em centavos.
// O percentual deve ter sido validado pelo LimitePercentual do fluxo.
func CalcularComissaoPercentual(valorVenda, percentual float64) float64 {
	return Arredondar(valorVenda * percentual / 100)
}

// Arredondar arredonda para duas casas decimais.
func Arredondar(v float64) float64 {
	return math.Round(v*100) / 100
}

// LimitePercentual é a faixa aceita para o percentual informado em um fluxo.
// Os fluxos de cliente (1–50) e de parceria (1–100) usam limites distintos.
type LimitePercentual struct {
	Minimo float64
	Maximo float64
}

func (l LimitePercentual) Validar(percentual float64) error {
	if math.IsNaN(percentual) || percentual < l.Minimo || percentual > l.Maximo {
		return fmt.Errorf("%w: use um valor entre %g e %g", ErrPercentualForaDaFaixa, l.Minimo, l.Maximo)
	}
	return nil
}

// ValidarValorManual confere o valor digitado pelo admin na edição direta.
func ValidarValorManual(valor float64) error {
	if math.IsNaN(valor) || valor < ValorManualMinimo || valor > ValorManualMaximo {
		return fmt.Errorf("%w: use um valor entre R$ %.2f e R$ %.2f", ErrValorManualForaDaFaixa, ValorManualMinimo, ValorManualMaximo)
	}
	return nil
}

// StatusValido informa se s é um dos estados do campo comissao.
func StatusValido(s string) bool {
	switch s {
	case StatusPendente, StatusAPagar, StatusSolicitado, StatusPago:
		return true
	}
	return false
}

// StatusInicial é o estado gravado junto com uma comissão recém calculada.
func StatusInicial(valor float64) string {
	if valor > 0 {
		return StatusAPagar
	}
	return StatusPendente
}

// ValorEfetivo aplica o valor padrão quando a comissão não foi definida.
func ValorEfetivo(valor float64) float64 {
	if valor <= 0 {
		return ValorPadrao
	}
	return valor
}
