package gardener

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidName = errors.New("gardener name is required")
)

// Service issues bearer tokens at registration and resolves them back to
// gardeners. Tokens are stored hashed; the admin token is fixed at deploy
// time and never stored at all.
type Service struct {
	repo *MemoryRepo

	adminTokenHash string
}

func NewService(repo *MemoryRepo, adminToken string) *Service {
	s := &Service{repo: repo}
	if adminToken != "" {
		s.adminTokenHash = hashToken(adminToken)
	}
	return s
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "g_" + hex.EncodeToString(b[:])
}

func newToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// Register creates a gardener and returns it with its bearer token. The
// token is only ever returned here; afterwards just its hash survives.
func (s *Service) Register(name string, now time.Time) (Gardener, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Gardener{}, "", ErrInvalidName
	}

	token, err := newToken()
	if err != nil {
		return Gardener{}, "", err
	}

	g := Gardener{
		ID:       newID(),
		Name:     name,
		JoinedAt: now,
	}
	s.repo.Put(g, hashToken(token))

	return g, token, nil
}

func (s *Service) Authenticate(token string) (Gardener, bool) {
	if token == "" {
		return Gardener{}, false
	}
	return s.repo.GetByTokenHash(hashToken(token))
}

func (s *Service) IsAdmin(token string) bool {
	if token == "" || s.adminTokenHash == "" {
		return false
	}
	h := hashToken(token)
	return subtle.ConstantTimeCompare([]byte(h), []byte(s.adminTokenHash)) == 1
}

func (s *Service) Get(id string) (Gardener, bool) {
	return s.repo.Get(id)
}
