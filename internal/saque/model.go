package saque

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPendente  = "pendente"
	StatusAprovado  = "aprovado"
	StatusRejeitado = "rejeitado"
	StatusPago      = "pago"
)

// SolicitacaoSaque é o pedido do gestor para receber a comissão de um cliente entregue.
type SolicitacaoSaque struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	ClienteID     uint       `gorm:"not null;index" json:"clienteId"`
	EmailGestor   string     `gorm:"size:200;index" json:"emailGestor"`
	ValorComissao float64    `gorm:"not null" json:"valorComissao"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	SolicitadoPor string     `gorm:"size:200" json:"solicitadoPor"`
	ProcessadoPor string     `gorm:"size:200" json:"processadoPor"`
	ProcessadoEm  *time.Time `json:"processadoEm"`
	Observacoes   string     `json:"observacoes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (SolicitacaoSaque) TableName() string { return "solicitacoes_saque" }

func (s *SolicitacaoSaque) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Final indica que a solicitação não aceita mais mudanças de status.
func (s *SolicitacaoSaque) Final() bool {
	return s.Status == StatusRejeitado || s.Status == StatusPago
}

// transicaoValida: pendente vai para qualquer destino, aprovado só para pago ou rejeitado.
func transicaoValida(de, para string) bool {
	switch de {
	case StatusPendente:
		return para == StatusAprovado || para == StatusRejeitado || para == StatusPago
	case StatusAprovado:
		return para == StatusRejeitado || para == StatusPago
	}
	return false
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SolicitacaoSaque{})
}
