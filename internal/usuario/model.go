// internal/usuario/model.go
package usuario

import (
	"time"

	"gorm.io/gorm"

	"github.com/trafegoporcents/api-gestao/internal/auth"
)

// Usuario é quem acessa o painel: admin, gestor, vendedor ou o próprio cliente.
type Usuario struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Nome      string     `gorm:"size:150;not null" json:"nome"`
	Email     string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Senha     string     `gorm:"size:255;not null" json:"-"`
	Telefone  string     `gorm:"size:30" json:"telefone"`
	Papel     auth.Papel `gorm:"size:20;not null;index" json:"papel"`
	Ativo     bool       `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (u Usuario) Identidade() auth.Identidade {
	return auth.Identidade{UserID: u.ID, Email: u.Email, Papel: u.Papel}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Usuario{})
}
