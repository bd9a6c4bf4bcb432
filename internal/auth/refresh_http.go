package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RefreshTTL    = 30 * 24 * time.Hour
	RefreshCookie = "rt"
)

// Sessoes emite e rotaciona refresh tokens guardados no banco.
type Sessoes struct {
	DB           *gorm.DB
	Emissor      *Emissor
	CookieSecure bool
}

func NovasSessoes(db *gorm.DB, e *Emissor, cookieSecure bool) *Sessoes {
	return &Sessoes{DB: db, Emissor: e, CookieSecure: cookieSecure}
}

// RespostaToken é o corpo devolvido pelo login e pelo refresh.
type RespostaToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Papel       Papel  `json:"papel"`
}

func genRaw() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashRaw(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// Em localhost (http) o cookie precisa de Secure=false; em produção COOKIE_SECURE=true.
func (s *Sessoes) setRTCookie(w http.ResponseWriter, raw string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    raw,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func (s *Sessoes) clearRTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Sessoes) emitir(w http.ResponseWriter, id Identidade, familia string) (RespostaToken, error) {
	access, err := s.Emissor.GerarAccessToken(id)
	if err != nil {
		return RespostaToken{}, err
	}
	raw, err := genRaw()
	if err != nil {
		return RespostaToken{}, err
	}
	rt := RefreshToken{
		UserID:    id.UserID,
		Email:     id.Email,
		Papel:     id.Papel,
		FamilyID:  familia,
		Hash:      hashRaw(raw),
		ExpiresAt: s.Emissor.agora().Add(RefreshTTL),
	}
	if err := s.DB.Create(&rt).Error; err != nil {
		return RespostaToken{}, err
	}
	s.setRTCookie(w, raw, rt.ExpiresAt)
	return RespostaToken{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(AccessTTL.Seconds()),
		Papel:       id.Papel,
	}, nil
}

// IssueTokensOnLogin é chamado pelo login depois de validar usuário e senha.
// Cada login abre uma nova família de refresh tokens.
func (s *Sessoes) IssueTokensOnLogin(w http.ResponseWriter, id Identidade) (RespostaToken, error) {
	return s.emitir(w, id, uuid.NewString())
}

// POST /auth/refresh
func (s *Sessoes) RefreshHTTPHandler(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		http.Error(w, "no refresh", http.StatusUnauthorized)
		return
	}

	var cur RefreshToken
	if err := s.DB.Where("hash = ?", hashRaw(c.Value)).First(&cur).Error; err != nil {
		s.clearRTCookie(w)
		http.Error(w, "invalid refresh", http.StatusUnauthorized)
		return
	}

	now := s.Emissor.agora()
	if cur.RevokedAt != nil {
		// reuso de token já rotacionado: derruba a família inteira
		_ = s.DB.Model(&RefreshToken{}).
			Where("family_id = ? AND revoked_at IS NULL", cur.FamilyID).
			Update("revoked_at", &now).Error
		slog.Warn("refresh token reutilizado", "user_id", cur.UserID, "familia", cur.FamilyID)
		s.clearRTCookie(w)
		http.Error(w, "revoked refresh", http.StatusUnauthorized)
		return
	}
	if now.After(cur.ExpiresAt) {
		s.clearRTCookie(w)
		http.Error(w, "expired refresh", http.StatusUnauthorized)
		return
	}

	if err := s.DB.Model(&cur).Update("revoked_at", &now).Error; err != nil {
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}

	resp, err := s.emitir(w, Identidade{UserID: cur.UserID, Email: cur.Email, Papel: cur.Papel}, cur.FamilyID)
	if err != nil {
		s.clearRTCookie(w)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// POST /auth/logout
func (s *Sessoes) LogoutHTTPHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
		now := s.Emissor.agora()
		_ = s.DB.Model(&RefreshToken{}).Where("hash = ?", hashRaw(c.Value)).Update("revoked_at", &now).Error
	}
	s.clearRTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
