// Package prazo calcula o prazo de entrega das campanhas em dias úteis
// e classifica a situação desse prazo para exibição.
package prazo

import "time"

// EhDiaUtil informa se t cai de segunda a sexta. Feriados não são considerados.
func EhDiaUtil(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// AdicionarDiasUteis avança inicio em exatamente n dias úteis, preservando o horário.
// Com n <= 0 devolve o próprio inicio quando ele é dia útil, senão o próximo dia útil.
func AdicionarDiasUteis(inicio time.Time, n int) time.Time {
	resultado := inicio
	if n <= 0 {
		for !EhDiaUtil(resultado) {
			resultado = resultado.AddDate(0, 0, 1)
		}
		return resultado
	}

	adicionados := 0
	for adicionados < n {
		resultado = resultado.AddDate(0, 0, 1)
		if EhDiaUtil(resultado) {
			adicionados++
		}
	}
	return resultado
}

// DiasUteisEntre conta os dias úteis no intervalo fechado [a, b], comparando
// apenas as datas de calendário. Retorna 0 quando a é posterior a b.
func DiasUteisEntre(a, b time.Time) int {
	atual := DataCivil(a)
	fim := DataCivil(b)
	if atual.After(fim) {
		return 0
	}

	total := 0
	for !atual.After(fim) {
		if EhDiaUtil(atual) {
			total++
		}
		atual = atual.AddDate(0, 0, 1)
	}
	return total
}

// DataCivil descarta o horário de t e devolve a mesma data de calendário à
// meia-noite UTC.
func DataCivil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
