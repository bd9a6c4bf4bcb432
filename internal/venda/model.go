// internal/venda/model.go
package venda

import (
	"time"

	"gorm.io/gorm"
)

// VendaCliente é uma venda de parceria feita pelo cliente, com comissão percentual.
type VendaCliente struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ClienteID      uint       `gorm:"not null;index" json:"clienteId"`
	ProdutoVendido string     `gorm:"size:255;not null" json:"produtoVendido"`
	ValorVenda     float64    `gorm:"not null" json:"valorVenda"`
	Percentual     float64    `gorm:"not null" json:"percentual"`
	ValorComissao  float64    `gorm:"not null;default:0" json:"valorComissao"`
	DataVenda      *time.Time `gorm:"type:date" json:"dataVenda"`
	RegistradoPor  string     `gorm:"size:200" json:"registradoPor"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (VendaCliente) TableName() string { return "vendas_cliente" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&VendaCliente{})
}
