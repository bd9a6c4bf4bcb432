package saque

import (
	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/cliente"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
)

type Repository interface {
	Salvar(db *gorm.DB, s *SolicitacaoSaque) error
	BuscarPorID(db *gorm.DB, id string) (*SolicitacaoSaque, error)
	Listar(db *gorm.DB, status string) ([]SolicitacaoSaque, error)
	ListarPorCliente(db *gorm.DB, clienteID uint) ([]SolicitacaoSaque, error)
	Atualizar(db *gorm.DB, s *SolicitacaoSaque) error
	ReservarComissao(db *gorm.DB, clienteID uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, s *SolicitacaoSaque) error {
	return db.Create(s).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*SolicitacaoSaque, error) {
	var s SolicitacaoSaque
	if err := db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, status string) ([]SolicitacaoSaque, error) {
	q := db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []SolicitacaoSaque
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarPorCliente(db *gorm.DB, clienteID uint) ([]SolicitacaoSaque, error) {
	var list []SolicitacaoSaque
	err := db.Where("cliente_id = ?", clienteID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, s *SolicitacaoSaque) error {
	return db.Save(s).Error
}

// ReservarComissao passa a comissão do cliente para Solicitado apenas se ela
// ainda estiver liberada para saque. false indica que outra solicitação chegou antes.
func (r *repositoryImpl) ReservarComissao(db *gorm.DB, clienteID uint) (bool, error) {
	res := db.Model(&cliente.Cliente{}).
		Where("id = ? AND (comissao IN ? OR comissao IS NULL)", clienteID,
			[]string{comissao.StatusPendente, comissao.StatusAPagar, ""}).
		Updates(map[string]any{
			"comissao":         comissao.StatusSolicitado,
			"saque_solicitado": true,
		})
	return res.RowsAffected > 0, res.Error
}
