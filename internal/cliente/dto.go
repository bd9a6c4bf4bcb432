package cliente

import (
	"errors"
	"strings"
	"time"

	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/prazo"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
)

var (
	ErrNomeObrigatorio  = errors.New("nomeCliente é obrigatório")
	ErrEmailObrigatorio = errors.New("emailCliente é obrigatório")
	ErrStatusInvalido   = errors.New("statusCampanha inválido")
	ErrDataInvalida     = errors.New("data inválida, use AAAA-MM-DD")
	// ErrComissaoRestrita barra valores de comissão vindos de quem não é admin.
	ErrComissaoRestrita = errors.New("apenas admin altera valorComissao e valorVendaInicial")
	ErrValorVenda       = errors.New("valorVendaInicial deve ser maior que zero")
)

// ClienteInput é o corpo de POST /clientes e PUT /clientes/{id}.
type ClienteInput struct {
	NomeCliente        string   `json:"nomeCliente"`
	EmailCliente       string   `json:"emailCliente"`
	Telefone           string   `json:"telefone"`
	Vendedor           string   `json:"vendedor"`
	EmailGestor        string   `json:"emailGestor"`
	StatusCampanha     string   `json:"statusCampanha"`
	DataVenda          string   `json:"dataVenda"`
	ValorComissao      *float64 `json:"valorComissao"`
	ValorVendaInicial  *float64 `json:"valorVendaInicial"`
	SiteStatus         string   `json:"siteStatus"`
	SitePago           bool     `json:"sitePago"`
	NumeroBM           string   `json:"numeroBM"`
	LinkBriefing       string   `json:"linkBriefing"`
	LinkCriativo       string   `json:"linkCriativo"`
	LinkSite           string   `json:"linkSite"`
	DataSubidaCampanha string   `json:"dataSubidaCampanha"`
	DescricaoProblema  string   `json:"descricaoProblema"`
}

// aplicar valida o input e copia os campos editáveis para c. Os valores de
// comissão só são aceitos do admin e nada é copiado se algum campo falhar.
func (in ClienteInput) aplicar(c *Cliente, admin bool) error {
	nome := strings.TrimSpace(in.NomeCliente)
	email := strings.ToLower(strings.TrimSpace(in.EmailCliente))
	if nome == "" {
		return ErrNomeObrigatorio
	}
	if email == "" {
		return ErrEmailObrigatorio
	}
	status := in.StatusCampanha
	if status == "" {
		status = statuscampanha.PreenchimentoFormulario
	}
	if !statuscampanha.Valido(status) {
		return ErrStatusInvalido
	}
	dataVenda, err := parseDataOpcional(in.DataVenda)
	if err != nil {
		return err
	}
	dataSubida, err := parseDataOpcional(in.DataSubidaCampanha)
	if err != nil {
		return err
	}
	if (in.ValorComissao != nil || in.ValorVendaInicial != nil) && !admin {
		return ErrComissaoRestrita
	}
	if in.ValorComissao != nil {
		if err := comissao.ValidarValorManual(*in.ValorComissao); err != nil {
			return err
		}
	}
	if in.ValorVendaInicial != nil && !(*in.ValorVendaInicial > 0) {
		return ErrValorVenda
	}

	c.NomeCliente = nome
	c.EmailCliente = email
	c.Telefone = in.Telefone
	c.Vendedor = strings.ToLower(strings.TrimSpace(in.Vendedor))
	c.EmailGestor = strings.ToLower(strings.TrimSpace(in.EmailGestor))
	c.StatusCampanha = status
	c.DataVenda = dataVenda
	c.DataSubidaCampanha = dataSubida
	if in.ValorComissao != nil {
		c.ValorComissao = comissao.Arredondar(*in.ValorComissao)
	}
	if in.ValorVendaInicial != nil {
		v := comissao.Arredondar(*in.ValorVendaInicial)
		c.ValorVendaInicial = &v
	}
	if in.SiteStatus != "" {
		c.SiteStatus = in.SiteStatus
	}
	c.SitePago = in.SitePago
	c.NumeroBM = in.NumeroBM
	c.LinkBriefing = in.LinkBriefing
	c.LinkCriativo = in.LinkCriativo
	c.LinkSite = in.LinkSite
	c.DescricaoProblema = in.DescricaoProblema
	return nil
}

func parseDataOpcional(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, ok := prazo.ParseData(s)
	if !ok {
		return nil, ErrDataInvalida
	}
	d := prazo.DataCivil(t)
	return &d, nil
}

// StatusInput é o corpo de PATCH /clientes/{id}/status.
type StatusInput struct {
	StatusCampanha    string `json:"statusCampanha"`
	DescricaoProblema string `json:"descricaoProblema"`
}

// ClienteNovoInput é o corpo de POST /vendas/cliente-novo.
type ClienteNovoInput struct {
	NomeCliente  string  `json:"nomeCliente"`
	EmailCliente string  `json:"emailCliente"`
	Telefone     string  `json:"telefone"`
	EmailGestor  string  `json:"emailGestor"`
	ValorVenda   float64 `json:"valorVenda"`
}

type ClienteNovoResposta struct {
	Cliente          ClienteDetalhado `json:"cliente"`
	ComissaoVendedor float64          `json:"comissaoVendedor"`
	ComissaoGestor   float64          `json:"comissaoGestor"`
	UsuarioCriado    bool             `json:"usuarioCriado"`
	SenhaTemporaria  string           `json:"senhaTemporaria,omitempty"`
}

type ComissaoValorInput struct {
	ValorComissao float64 `json:"valorComissao"`
}

type ComissaoPercentualInput struct {
	Percentual float64 `json:"percentual"`
}

type ComissaoStatusInput struct {
	Comissao string `json:"comissao"`
}

// SimulacaoInput é o corpo de POST /comissoes/simular. Sem percentual usa a
// tabela fixa do Cliente Novo.
type SimulacaoInput struct {
	ValorVenda float64  `json:"valorVenda"`
	Percentual *float64 `json:"percentual"`
	Fluxo      string   `json:"fluxo"`
}

type SimulacaoResposta struct {
	ValorVenda       float64  `json:"valorVenda"`
	Percentual       *float64 `json:"percentual,omitempty"`
	Comissao         float64  `json:"comissao"`
	ComissaoVendedor *float64 `json:"comissaoVendedor,omitempty"`
	ComissaoGestor   *float64 `json:"comissaoGestor,omitempty"`
}

type OrfaosResposta struct {
	Recuperados int      `json:"recuperados"`
	Emails      []string `json:"emails"`
}
