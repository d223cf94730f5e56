package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/pos-inventario/internal/application/auth"
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/pkg/jwt"
)

// fakeUserRepo repositorio de usuarios en memoria.
type fakeUserRepo struct {
	byUsername map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	if _, exists := r.byUsername[user.Username]; exists {
		return domain.ErrUsernameExists
	}
	u := *user
	r.byUsername[user.Username] = &u
	return nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func newAuthUseCase(repo *fakeUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "secreto-de-prueba",
		ExpMinutes: 60,
		Issuer:     "pos-inventario-test",
	})
}

func TestRegisterUser_CreaUsuarioConHashBcrypt(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUseCase(repo)

	out, err := uc.RegisterUser(dto.RegisterRequest{Username: "cajero1", Password: "clave-segura"})

	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "cajero1", out.Username)

	stored := repo.byUsername["cajero1"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash, "la contraseña nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))
}

func TestRegisterUser_UsernameDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUseCase(repo)

	_, err := uc.RegisterUser(dto.RegisterRequest{Username: "cajero1", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Username: "cajero1", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUsernameExists)
}

func TestLogin_TokenValidoConClaims(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUseCase(repo)

	registered, err := uc.RegisterUser(dto.RegisterRequest{Username: "cajero1", Password: "clave-segura"})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Username: "cajero1", Password: "clave-segura"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, registered.ID, out.User.ID)

	userID, username, err := jwt.Parse("secreto-de-prueba", out.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, "cajero1", username)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUseCase(repo)

	_, err := uc.RegisterUser(dto.RegisterRequest{Username: "cajero1", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Username: "cajero1", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newAuthUseCase(newFakeUserRepo())

	_, err := uc.Login(dto.LoginRequest{Username: "fantasma", Password: "da-igual"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
