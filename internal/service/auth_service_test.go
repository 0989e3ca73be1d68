package service

import (
	"testing"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Login(env.ctx, dto.LoginRequest{RUT: rutSupervisor, Password: passwordSupervisor})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, model.RolSupervisor, resp.User.Rol)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, rutSupervisor, claims["rut"])
	assert.Equal(t, model.RolSupervisor, claims["rol"])
	assert.Equal(t, resp.User.ID, claims["user_id"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(env.ctx, dto.LoginRequest{RUT: rutSupervisor, Password: "otra-clave"})
	de, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.KindUnauthorized, de.Kind)
	assert.Equal(t, apierror.CodeCredencialesInvalid, de.Code)

	_, err = env.auth.Login(env.ctx, dto.LoginRequest{RUT: "99999999-9", Password: passwordSupervisor})
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestVerificarFirmante(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.auth.VerificarFirmante(env.ctx, rutSupervisor, passwordSupervisor)
	require.NoError(t, err)
	assert.Equal(t, "Sofía Supervisora", u.Nombre)

	_, err = env.auth.VerificarFirmante(env.ctx, rutCocinero, passwordCocinero)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))

	require.NoError(t, env.db.Model(&model.Usuario{}).Where("rut = ?", rutSupervisor).Update("activo", false).Error)
	_, err = env.auth.VerificarFirmante(env.ctx, rutSupervisor, passwordSupervisor)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err), "inactive users cannot sign")
}

func TestCrearUsuario_RUTDuplicado(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.CrearUsuario(env.ctx, dto.CrearUsuarioRequest{
		RUT: rutCocinero, Nombre: "Otro", Password: "password123", Rol: model.RolCocinero,
	})
	de, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.KindConflict, de.Kind)
	assert.Equal(t, apierror.CodeDuplicado, de.Code)
}
