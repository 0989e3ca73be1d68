package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	// VerificarFirmante resolves credentials to an active supervisor or
	// administrador; anything else is unauthorized.
	VerificarFirmante(ctx context.Context, rut, password string) (*model.Usuario, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) verificar(ctx context.Context, rut, password string) (*model.Usuario, error) {
	user, err := s.repo.FindByRUT(ctx, rut)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.Unauthorized("Credenciales inválidas")
		}
		return nil, err
	}
	if !user.Activo {
		return nil, apierror.Unauthorized("Credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apierror.Unauthorized("Credenciales inválidas")
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.verificar(ctx, req.RUT, req.Password)
	if err != nil {
		return nil, err
	}
	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        usuarioResponse(user),
	}, nil
}

func (s *authService) VerificarFirmante(ctx context.Context, rut, password string) (*model.Usuario, error) {
	user, err := s.verificar(ctx, rut, password)
	if err != nil {
		return nil, err
	}
	if !user.PuedeFirmar() {
		return nil, apierror.Unauthorized("%s no tiene permisos para firmar el checklist", user.Nombre)
	}
	return user, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		RUT:          req.RUT,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict(apierror.CodeDuplicado, "Ya existe un usuario con RUT %s", req.RUT)
		}
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) generateToken(user *model.Usuario, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"rut":     user.RUT,
		"nombre":  user.Nombre,
		"rol":     user.Rol,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:     u.ID.String(),
		RUT:    u.RUT,
		Nombre: u.Nombre,
		Email:  u.Email,
		Rol:    u.Rol,
		Activo: u.Activo,
	}
}
