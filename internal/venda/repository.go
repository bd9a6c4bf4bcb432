// internal/venda/repository.go
package venda

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(v *VendaCliente) error {
	return r.DB.Create(v).Error
}

func (r *Repository) FindByCliente(clienteID uint) ([]VendaCliente, error) {
	var vs []VendaCliente
	err := r.DB.Where("cliente_id = ?", clienteID).Order("data_venda DESC, id DESC").Find(&vs).Error
	return vs, err
}

// TotalComissao soma a comissão de todas as vendas do cliente.
func (r *Repository) TotalComissao(clienteID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&VendaCliente{}).
		Where("cliente_id = ?", clienteID).
		Select("COALESCE(SUM(valor_comissao), 0)").
		Scan(&total).Error
	return total, err
}
