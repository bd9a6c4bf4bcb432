// internal/cliente/repository.go
package cliente

import (
	"strings"

	"gorm.io/gorm"
)

// Repository encapsula o acesso a todos_clientes.
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

// Filtro restringe a listagem; campos vazios não filtram.
type Filtro struct {
	EmailGestor  string
	Vendedor     string
	EmailCliente string
	Status       string
}

func (r *Repository) Create(c *Cliente) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id uint) (*Cliente, error) {
	var c Cliente
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByEmail compara o e-mail sem diferenciar maiúsculas.
func (r *Repository) FindByEmail(email string) (*Cliente, error) {
	var c Cliente
	err := r.DB.Where("LOWER(email_cliente) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(f Filtro) ([]Cliente, error) {
	q := r.DB.Order("created_at DESC, id DESC")
	if f.EmailGestor != "" {
		q = q.Where("LOWER(email_gestor) = ?", strings.ToLower(f.EmailGestor))
	}
	if f.Vendedor != "" {
		q = q.Where("LOWER(vendedor) = ?", strings.ToLower(f.Vendedor))
	}
	if f.EmailCliente != "" {
		q = q.Where("LOWER(email_cliente) = ?", strings.ToLower(f.EmailCliente))
	}
	if f.Status != "" {
		q = q.Where("status_campanha = ?", f.Status)
	}
	var list []Cliente
	err := q.Find(&list).Error
	return list, err
}

// Save grava todos os campos (exige PK).
func (r *Repository) Save(c *Cliente) error {
	return r.DB.Save(c).Error
}

// Updates altera só as colunas informadas; gorm.ErrRecordNotFound se o id não existe.
func (r *Repository) Updates(id uint, campos map[string]any) error {
	res := r.DB.Model(&Cliente{}).Where("id = ?", id).Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) DeleteByID(id uint) error {
	res := r.DB.Delete(&Cliente{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EmailsCadastrados devolve o conjunto de e-mails (minúsculos) presentes na tabela.
func (r *Repository) EmailsCadastrados() (map[string]bool, error) {
	var emails []string
	if err := r.DB.Model(&Cliente{}).Pluck("LOWER(email_cliente)", &emails).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(emails))
	for _, e := range emails {
		set[e] = true
	}
	return set, nil
}

// MarcarUltimoPago desmarca todos os outros clientes e marca id. Devolve os ids
// desmarcados, que também precisam ser avisados. Use dentro de tx.
func (r *Repository) MarcarUltimoPago(id uint) ([]uint, error) {
	var desmarcados []uint
	if err := r.DB.Model(&Cliente{}).
		Where("id <> ? AND eh_ultimo_pago = ?", id, true).
		Pluck("id", &desmarcados).Error; err != nil {
		return nil, err
	}
	if len(desmarcados) > 0 {
		if err := r.DB.Model(&Cliente{}).
			Where("id IN ?", desmarcados).
			Update("eh_ultimo_pago", false).Error; err != nil {
			return nil, err
		}
	}
	return desmarcados, r.Updates(id, map[string]any{"eh_ultimo_pago": true})
}
