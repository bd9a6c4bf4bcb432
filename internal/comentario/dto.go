package comentario

import "time"

type AuthorDTO struct {
	Type  string `json:"type"` // papel do autor ou "system"
	ID    *uint  `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

type CommentDTO struct {
	ID        uint      `json:"id"`
	ClienteID uint      `json:"clienteId"`
	Texto     string    `json:"texto"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"createdAt"`
	Author    AuthorDTO `json:"author"`
}

func toDTO(c Comentario) CommentDTO {
	out := CommentDTO{
		ID:        c.ID,
		ClienteID: c.ClienteID,
		Texto:     c.Texto,
		System:    c.IsSystem,
		CreatedAt: c.CreatedAt,
	}
	if c.IsSystem {
		out.Author = AuthorDTO{Type: "system"}
		return out
	}
	id := c.AutorID
	out.Author = AuthorDTO{Type: c.AutorPapel, ID: &id, Email: c.AutorEmail}
	return out
}

func toDTOs(list []Comentario) []CommentDTO {
	out := make([]CommentDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toDTO(c))
	}
	return out
}
