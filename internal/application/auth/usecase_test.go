package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/application/auth"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/comercio-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

func newUseCase() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "comercio-api",
	})
}

func TestRegisterUser(t *testing.T) {
	uc := newUseCase()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@tienda.co",
		Password: "clave-segura",
		Name:     "Ana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@tienda.co", user.Email)
	assert.Equal(t, entity.RoleVendedor, user.Role, "sin rol explícito se asigna vendedor")

	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@tienda.co",
		Password: "otra-clave",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@tienda.co",
		Password: "clave-segura",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "admin@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	userID, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@tienda.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
