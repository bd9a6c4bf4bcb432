package cliente

import (
	"strings"

	"github.com/trafegoporcents/api-gestao/internal/auth"
)

func mesmoEmail(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// PodeVer diz se a identidade enxerga o cliente: admin vê todos, gestor e
// vendedor os seus, o cliente apenas o próprio registro.
func PodeVer(id auth.Identidade, c *Cliente) bool {
	switch id.Papel {
	case auth.PapelAdmin:
		return true
	case auth.PapelGestor:
		return mesmoEmail(c.EmailGestor, id.Email)
	case auth.PapelVendedor:
		return mesmoEmail(c.Vendedor, id.Email)
	case auth.PapelCliente:
		return mesmoEmail(c.EmailCliente, id.Email)
	}
	return false
}

// PodeEditar libera alterações ao admin e ao gestor responsável.
func PodeEditar(id auth.Identidade, c *Cliente) bool {
	return id.EhAdmin() || (id.Papel == auth.PapelGestor && mesmoEmail(c.EmailGestor, id.Email))
}

// filtroPara limita a listagem ao que a identidade pode ver.
// Sem e-mail na identidade só o admin lista.
func filtroPara(id auth.Identidade, gestor, status string) (Filtro, bool) {
	f := Filtro{Status: status}
	if !id.EhAdmin() && strings.TrimSpace(id.Email) == "" {
		return f, false
	}
	switch id.Papel {
	case auth.PapelAdmin:
		f.EmailGestor = gestor
	case auth.PapelGestor:
		f.EmailGestor = id.Email
	case auth.PapelVendedor:
		f.Vendedor = id.Email
	default:
		f.EmailCliente = id.Email
	}
	return f, true
}
