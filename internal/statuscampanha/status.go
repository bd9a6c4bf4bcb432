// Package statuscampanha define os status de campanha aceitos em status_campanha,
// a ordem das etapas de produção e o cálculo de progresso.
package statuscampanha

import "strings"

const (
	ClienteNovo             = "Cliente Novo"
	PreenchimentoFormulario = "Preenchimento do Formulário"
	Formulario              = "Formulário"
	Brief                   = "Brief"
	Criativo                = "Criativo"
	Site                    = "Site"
	Agendamento             = "Agendamento"
	ConfigurandoBM          = "Configurando BM"
	SubindoCampanha         = "Subindo Campanha"
	NoAr                    = "No Ar"
	CampanhaNoAr            = "Campanha no Ar"
	Otimizacao              = "Otimização"
	ClienteAntigo           = "Cliente Antigo"
	CampanhaAnual           = "Campanha Anual"
	EmAndamento             = "Em andamento"
	SaquePendente           = "Saque Pendente"
	Urgente                 = "Urgente"
	ClienteSumiu            = "Cliente Sumiu"
	Problema                = "Problema"
	Off                     = "Off"
	Reembolso               = "Reembolso"
	Cancelado               = "Cancelado"
)

// Categoria separa as etapas lineares dos status que não entram no progresso.
type Categoria string

const (
	CategoriaEtapa     Categoria = "etapa"
	CategoriaExcecao   Categoria = "excecao"
	CategoriaForaFluxo Categoria = "fora_fluxo"
)

// Etapas é a sequência linear de produção usada na barra de progresso.
var Etapas = []string{
	PreenchimentoFormulario,
	Brief,
	Criativo,
	Site,
	Agendamento,
	ConfigurandoBM,
	SubindoCampanha,
	NoAr,
	Otimizacao,
}

// apelidos mapeiam nomes legados para a etapa equivalente.
var apelidos = map[string]string{
	Formulario:   PreenchimentoFormulario,
	CampanhaNoAr: NoAr,
}

var excecoes = map[string]bool{
	Off:          true,
	Reembolso:    true,
	Cancelado:    true,
	Problema:     true,
	ClienteSumiu: true,
}

var foraFluxo = map[string]bool{
	ClienteNovo:   true,
	ClienteAntigo: true,
	CampanhaAnual: true,
	EmAndamento:   true,
	SaquePendente: true,
	Urgente:       true,
}

var entregues = map[string]bool{
	"no ar":          true,
	"otimização":     true,
	"campanha no ar": true,
}

// Todos retorna todos os status aceitos, etapas primeiro.
func Todos() []string {
	out := make([]string, 0, len(Etapas)+len(apelidos)+len(excecoes)+len(foraFluxo))
	out = append(out, Etapas...)
	out = append(out, Formulario, CampanhaNoAr)
	out = append(out, ClienteNovo, ClienteAntigo, CampanhaAnual, EmAndamento, SaquePendente, Urgente)
	out = append(out, Problema, ClienteSumiu, Off, Reembolso, Cancelado)
	return out
}

// Valido informa se status é um dos valores aceitos (comparação exata).
func Valido(status string) bool {
	if _, ok := apelidos[status]; ok {
		return true
	}
	if excecoes[status] || foraFluxo[status] {
		return true
	}
	return indiceEtapa(status) >= 0
}

// EhEntregue compara sem diferenciar maiúsculas com "no ar", "otimização" e "campanha no ar".
func EhEntregue(status string) bool {
	return entregues[strings.ToLower(strings.TrimSpace(status))]
}

// CategoriaDe classifica o status. Valores desconhecidos ficam fora do fluxo.
func CategoriaDe(status string) Categoria {
	switch {
	case excecoes[status]:
		return CategoriaExcecao
	case indiceEtapa(canonico(status)) >= 0:
		return CategoriaEtapa
	default:
		return CategoriaForaFluxo
	}
}

// Progresso descreve a posição do cliente na sequência de etapas.
type Progresso struct {
	Categoria   Categoria `json:"categoria"`
	Etapa       int       `json:"etapa"`
	TotalEtapas int       `json:"totalEtapas"`
	Percentual  float64   `json:"percentual"`
}

// CalcularProgresso devolve (posição da etapa / total de etapas) * 100, com a
// posição contada a partir de 1. Exceções e status fora do fluxo não têm
// posição e ficam com percentual zero.
func CalcularProgresso(status string) Progresso {
	p := Progresso{Categoria: CategoriaDe(status), TotalEtapas: len(Etapas)}
	if p.Categoria != CategoriaEtapa {
		return p
	}
	idx := indiceEtapa(canonico(status))
	p.Etapa = idx + 1
	p.Percentual = float64(p.Etapa) / float64(len(Etapas)) * 100
	return p
}

// PermiteSaque informa se o gestor pode solicitar o saque da comissão.
func PermiteSaque(status string) bool {
	return EhEntregue(status)
}

func canonico(status string) string {
	if c, ok := apelidos[status]; ok {
		return c
	}
	return status
}

func indiceEtapa(status string) int {
	for i, e := range Etapas {
		if e == status {
			return i
		}
	}
	return -1
}
