package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/application/usecase"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
	"github.com/kmuentes1145/act8/pkg/jwt"
	"github.com/kmuentes1145/act8/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost costo fijo del hash de contraseñas.
const BcryptCost = 10

// dummyHash se compara cuando el email no existe, para que el tiempo de respuesta
// no delate qué cuentas están registradas.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), BcryptCost)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
// actorRole es el rol de quien hace la petición ("" si es anónima). Solo un admin puede crear
// otra cuenta admin; la primera cuenta (la principal) puede registrarse como admin sin token.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest, actorRole string) (*dto.UserResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, validator.Message(errs))
	}

	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if in.Role == entity.RoleAdmin && actorRole != entity.RoleAdmin {
		principal, err := uc.userRepo.GetByID(ctx, entity.PrincipalUserID)
		if err != nil {
			return nil, err
		}
		if principal != nil {
			return nil, domain.ErrAdminRequired
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	user := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	// El índice único resuelve la carrera entre dos registros simultáneos.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := usecase.ToUserResponse(user)
	return &out, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = NormalizeEmail(in.Email)
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, validator.Message(errs))
	}

	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Message: "Login exitoso",
		Token:   token,
		User:    usecase.ToUserResponse(user),
	}, nil
}

// NormalizeEmail compara emails sin distinguir mayúsculas ni espacios.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
