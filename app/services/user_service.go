package services

import (
	"context"
	"errors"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateUserInput carries the admin-editable account fields.
type UpdateUserInput struct {
	FullName string `json:"fullName" validate:"nullable,min=2,max=100"`
	Role     string `json:"role" validate:"nullable,in=admin,staff,customer"`
	IsActive *bool  `json:"isActive" validate:"nullable"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []models.User `json:"users"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int64         `json:"total"`
}

// UserService implements the admin user management surface.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, page, limit int) (UserPage, error) {
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return UserPage{}, err
	}
	return UserPage{
		Users:      users,
		Page:       page,
		TotalPages: totalPages(total, limit),
		Total:      total,
	}, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, notFound("Không tìm thấy người dùng")
	}
	return user, err
}

// Update applies role and activation changes. An admin cannot strip their
// own admin role or deactivate themselves, so the system always keeps at
// least the acting admin.
func (s *UserService) Update(ctx context.Context, actorID, id primitive.ObjectID, in UpdateUserInput) (models.User, error) {
	fields := bson.M{}
	if in.FullName != "" {
		fields["fullName"] = in.FullName
	}
	if in.Role != "" {
		if actorID == id && in.Role != models.RoleAdmin {
			return models.User{}, badRequest("Không thể thay đổi quyền của chính mình")
		}
		fields["role"] = in.Role
	}
	if in.IsActive != nil {
		if actorID == id && !*in.IsActive {
			return models.User{}, badRequest("Không thể khóa tài khoản của chính mình")
		}
		fields["isActive"] = *in.IsActive
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.users.UpdateFields(ctx, id, fields)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, notFound("Không tìm thấy người dùng")
	}
	if err == nil {
		logger.Info("users: updated", "user_id", id.Hex(), "actor", actorID.Hex())
	}
	return user, err
}

func (s *UserService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	if actorID == id {
		return badRequest("Không thể xóa tài khoản của chính mình")
	}
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("Không tìm thấy người dùng")
	}
	return err
}

// totalPages is the shared ceil-division used by every paginated listing.
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
