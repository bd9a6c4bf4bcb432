package comentario

import (
	"time"

	"gorm.io/gorm"
)

// Comentario é uma anotação feita no registro de um cliente.
type Comentario struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClienteID  uint      `gorm:"not null;index" json:"clienteId"`
	Texto      string    `gorm:"not null" json:"texto"`
	AutorID    uint      `json:"autorId"`
	AutorEmail string    `gorm:"size:200" json:"autorEmail"`
	AutorPapel string    `gorm:"size:20" json:"autorPapel"`
	IsSystem   bool      `gorm:"not null;default:false" json:"isSystem"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Comentario) TableName() string { return "comentarios_cliente" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Comentario{})
}
