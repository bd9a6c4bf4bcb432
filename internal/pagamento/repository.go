// internal/pagamento/repository.go
package pagamento

import (
	"time"

	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
)

// Repository encapsula o acesso ao histórico de pagamentos de comissão.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) FindByID(id uint) (*HistoricoPagamento, error) {
	var p HistoricoPagamento
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByClienteID lista os pagamentos do cliente, mais recentes primeiro.
func (r *Repository) ListByClienteID(clienteID uint) ([]HistoricoPagamento, error) {
	var list []HistoricoPagamento
	err := r.DB.
		Where("cliente_id = ?", clienteID).
		Order("data_pagamento DESC, id DESC").
		Find(&list).Error
	return list, err
}

// DeleteByID apaga o pagamento; retorna gorm.ErrRecordNotFound se nada foi deletado.
func (r *Repository) DeleteByID(id uint) error {
	res := r.DB.Delete(&HistoricoPagamento{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SumValorByClienteID(clienteID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&HistoricoPagamento{}).
		Where("cliente_id = ?", clienteID).
		Select("COALESCE(SUM(valor_pago), 0)").
		Scan(&total).Error
	return total, err
}

// RecalcTotalForCliente soma o histórico e atualiza total_pago_comissao e os
// campos de último pagamento do cliente. Sem pagamentos a comissão volta a Pendente.
func (r *Repository) RecalcTotalForCliente(clienteID uint) error {
	total, err := r.SumValorByClienteID(clienteID)
	if err != nil {
		return err
	}

	var ultimo HistoricoPagamento
	err = r.DB.Where("cliente_id = ?", clienteID).
		Order("data_pagamento DESC, id DESC").
		Limit(1).
		Find(&ultimo).Error
	if err != nil {
		return err
	}

	campos := map[string]any{"total_pago_comissao": comissao.Arredondar(total)}
	if ultimo.ID == 0 {
		campos["ultimo_pagamento_em"] = nil
		campos["ultimo_valor_pago"] = nil
		campos["comissao"] = comissao.StatusPendente
		campos["comissao_paga"] = false
	} else {
		campos["ultimo_pagamento_em"] = ultimo.DataPagamento
		campos["ultimo_valor_pago"] = ultimo.ValorPago
	}
	return cliente.NewRepository(r.DB).Updates(clienteID, campos)
}

// Registrar grava o pagamento, recalcula os totais e marca a comissão como paga.
// Deve ser chamado dentro de uma transação.
func (r *Repository) Registrar(clienteID uint, valor float64, pagoPor, observacoes string, quando time.Time) (*HistoricoPagamento, error) {
	p := &HistoricoPagamento{
		ClienteID:     clienteID,
		ValorPago:     comissao.Arredondar(valor),
		DataPagamento: quando,
		PagoPor:       pagoPor,
		Observacoes:   observacoes,
	}
	if err := r.DB.Create(p).Error; err != nil {
		return nil, err
	}
	if err := r.RecalcTotalForCliente(clienteID); err != nil {
		return nil, err
	}
	err := cliente.NewRepository(r.DB).Updates(clienteID, map[string]any{
		"comissao":      comissao.StatusPago,
		"comissao_paga": true,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Totais agrega as comissões dos clientes; valor zerado conta como o padrão.
type Totais struct {
	Pagas     Agregado            `json:"pagas"`
	Pendentes Agregado            `json:"pendentes"`
	PorStatus map[string]Agregado `json:"porStatus"`
	TotalPago float64             `json:"totalPago"`
}

type Agregado struct {
	Quantidade int     `json:"quantidade"`
	Valor      float64 `json:"valor"`
}

func (a *Agregado) somar(v float64) {
	a.Quantidade++
	a.Valor = comissao.Arredondar(a.Valor + v)
}

func CalcularTotais(clientes []cliente.Cliente) Totais {
	t := Totais{PorStatus: map[string]Agregado{}}
	for _, c := range clientes {
		valor := c.ValorComissaoEfetivo()
		status := c.Comissao
		if status == "" {
			status = comissao.StatusPendente
		}
		ag := t.PorStatus[status]
		ag.somar(valor)
		t.PorStatus[status] = ag

		if status == comissao.StatusPago {
			t.Pagas.somar(valor)
		} else {
			t.Pendentes.somar(valor)
		}
		t.TotalPago = comissao.Arredondar(t.TotalPago + c.TotalPagoComissao)
	}
	return t
}
