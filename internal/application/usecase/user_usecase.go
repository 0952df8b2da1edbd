package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// UserUseCase gestión de usuarios (solo ADMIN). La contraseña se hashea con el PasswordHasher inyectado.
type UserUseCase struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, hasher auth.PasswordHasher) *UserUseCase {
	return &UserUseCase{repo: repo, hasher: hasher}
}

// Create registra un usuario con username único.
func (uc *UserUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return nil, err
	}
	if in.Username == "" {
		return nil, domain.Invalid("username", "es obligatorio")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "es obligatorio")
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.Invalid("role", "debe ser ADMIN o USER")
	}
	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		Seller:       in.Seller,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Update edita un usuario; re-hashea solo si llega una contraseña nueva.
func (uc *UserUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user", id)
	}
	if in.Username != nil && *in.Username != user.Username {
		other, err := uc.repo.GetByUsername(ctx, *in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = *in.Username
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.Invalid("role", "debe ser ADMIN o USER")
		}
		user.Role = *in.Role
	}
	if in.Seller != nil {
		user.Seller = *in.Seller
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Delete elimina un usuario.
func (uc *UserUseCase) Delete(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.UserResponse, error) {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user", id)
	}
	return dto.ToUserResponse(user), nil
}

// GetByUsername obtiene un usuario por username.
func (uc *UserUseCase) GetByUsername(ctx context.Context, p *access.Principal, username string) (*dto.UserResponse, error) {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user", username)
	}
	return dto.ToUserResponse(user), nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, p *access.Principal, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return nil, err
	}
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{
		Items: toUserResponses(users),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListByRole lista usuarios de un rol.
func (uc *UserUseCase) ListByRole(ctx context.Context, p *access.Principal, role string) (*dto.UserListResponse, error) {
	if err := access.Authorize(p, access.CapManageUsers); err != nil {
		return nil, err
	}
	if !entity.ValidRole(role) {
		return nil, domain.Invalid("role", "debe ser ADMIN o USER")
	}
	users, err := uc.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{
		Items: toUserResponses(users),
		Page:  dto.PageResponse{Limit: len(users), Total: len(users)},
	}, nil
}

func toUserResponses(users []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *dto.ToUserResponse(u))
	}
	return out
}
