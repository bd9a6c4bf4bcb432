// internal/cliente/model.go
package cliente

import (
	"time"

	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/prazo"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
)

const (
	OrigemManual       = "manual"
	OrigemVendedor     = "vendedor"
	OrigemRecuperacao  = "recuperacao_orfao"
	SiteStatusPendente = "pendente"
	DominioInterno     = "@trafegoporcents.com"
)

// Cliente é uma linha de todos_clientes.
type Cliente struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	NomeCliente        string     `gorm:"size:200;not null" json:"nomeCliente"`
	EmailCliente       string     `gorm:"size:200;not null;index" json:"emailCliente"`
	Telefone           string     `gorm:"size:30" json:"telefone"`
	Vendedor           string     `gorm:"size:200" json:"vendedor"`
	EmailGestor        string     `gorm:"size:200;index" json:"emailGestor"`
	StatusCampanha     string     `gorm:"size:60;not null;default:'Preenchimento do Formulário'" json:"statusCampanha"`
	DataVenda          *time.Time `gorm:"type:date" json:"dataVenda"`
	ValorComissao      float64    `gorm:"not null;default:60" json:"valorComissao"`
	Comissao           string     `gorm:"size:20;not null;default:'Pendente'" json:"comissao"`
	ComissaoPaga       bool       `gorm:"not null;default:false" json:"comissaoPaga"`
	ComissaoPercentual *float64   `json:"comissaoPercentual"`
	ValorVendaInicial  *float64   `json:"valorVendaInicial"`
	SiteStatus         string     `gorm:"size:30;not null;default:'pendente'" json:"siteStatus"`
	SitePago           bool       `gorm:"not null;default:false" json:"sitePago"`
	NumeroBM           string     `gorm:"column:numero_bm;size:60" json:"numeroBM"`
	LinkBriefing       string     `json:"linkBriefing"`
	LinkCriativo       string     `json:"linkCriativo"`
	LinkSite           string     `json:"linkSite"`
	DataSubidaCampanha *time.Time `gorm:"type:date" json:"dataSubidaCampanha"`
	DescricaoProblema  string     `json:"descricaoProblema"`
	SaqueSolicitado    bool       `gorm:"not null;default:false" json:"saqueSolicitado"`
	EhUltimoPago       bool       `gorm:"not null;default:false" json:"ehUltimoPago"`
	TotalPagoComissao  float64    `gorm:"not null;default:0" json:"totalPagoComissao"`
	UltimoPagamentoEm  *time.Time `json:"ultimoPagamentoEm"`
	UltimoValorPago    *float64   `json:"ultimoValorPago"`
	OrigemCadastro     string     `gorm:"size:30" json:"origemCadastro"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func (Cliente) TableName() string { return "todos_clientes" }

// Avaliar calcula o prazo de entrega do cliente em relação a hoje.
func (c *Cliente) Avaliar(hoje time.Time) prazo.Avaliacao {
	var criado *time.Time
	if !c.CreatedAt.IsZero() {
		// created_at é um instante; a data civil é tomada em UTC, como nas datas ISO.
		utc := c.CreatedAt.UTC()
		criado = &utc
	}
	return prazo.Avaliar(c.DataVenda, criado, c.StatusCampanha, hoje)
}

// ValorComissaoEfetivo aplica o valor padrão quando nada foi gravado.
func (c *Cliente) ValorComissaoEfetivo() float64 {
	return comissao.ValorEfetivo(c.ValorComissao)
}

// ClienteDetalhado é o cliente com os campos derivados calculados na leitura.
type ClienteDetalhado struct {
	Cliente
	Prazo     prazo.Avaliacao          `json:"prazo"`
	Progresso statuscampanha.Progresso `json:"progresso"`
}

func Detalhar(c Cliente, hoje time.Time) ClienteDetalhado {
	return ClienteDetalhado{
		Cliente:   c,
		Prazo:     c.Avaliar(hoje),
		Progresso: statuscampanha.CalcularProgresso(c.StatusCampanha),
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Cliente{})
}
