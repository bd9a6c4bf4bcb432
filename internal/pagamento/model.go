// internal/pagamento/model.go
package pagamento

import (
	"time"

	"gorm.io/gorm"
)

// HistoricoPagamento é um pagamento de comissão feito ao gestor de um cliente.
type HistoricoPagamento struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ClienteID     uint      `gorm:"not null;index" json:"clienteId"`
	ValorPago     float64   `gorm:"not null" json:"valorPago"`
	DataPagamento time.Time `gorm:"not null" json:"dataPagamento"`
	PagoPor       string    `gorm:"size:200" json:"pagoPor"`
	Observacoes   string    `json:"observacoes"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (HistoricoPagamento) TableName() string { return "historico_pagamentos_comissao" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&HistoricoPagamento{})
}
