package usuario

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
)

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*Usuario, error)
	FindByID(db *gorm.DB, id uint) (*Usuario, error)
	Save(db *gorm.DB, u *Usuario) error
	ListAll(db *gorm.DB, papel auth.Papel) ([]Usuario, error)
	ExistePapel(db *gorm.DB, papel auth.Papel) (bool, error)
	AtualizarSenha(db *gorm.DB, id uint, hash string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	if err := db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, u *Usuario) error {
	return db.Create(u).Error
}

// ListAll lista os usuários; papel vazio lista todos.
func (r *repositoryImpl) ListAll(db *gorm.DB, papel auth.Papel) ([]Usuario, error) {
	q := db.Order("nome ASC")
	if papel != "" {
		q = q.Where("papel = ?", papel)
	}
	var list []Usuario
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ExistePapel(db *gorm.DB, papel auth.Papel) (bool, error) {
	var n int64
	if err := db.Model(&Usuario{}).Where("papel = ?", papel).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repositoryImpl) AtualizarSenha(db *gorm.DB, id uint, hash string) error {
	res := db.Model(&Usuario{}).Where("id = ?", id).Update("senha", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Resolvedor liga tokens externos ao usuário local de mesmo e-mail.
type Resolvedor struct {
	DB         *gorm.DB
	Repository Repository
}

func NovoResolvedor(db *gorm.DB) *Resolvedor {
	return &Resolvedor{DB: db, Repository: NewRepository()}
}

var ErrUsuarioInativo = errors.New("usuário inativo")

func (r *Resolvedor) IdentidadePorEmail(ctx context.Context, email string) (auth.Identidade, error) {
	u, err := r.Repository.FindByEmail(r.DB.WithContext(ctx), email)
	if err != nil {
		return auth.Identidade{}, err
	}
	if !u.Ativo {
		return auth.Identidade{}, ErrUsuarioInativo
	}
	return u.Identidade(), nil
}
