package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/auth"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"nullable,max=20"`
	Address  string `json:"address" validate:"nullable,max=255"`
}

// LoginInput is the signin payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput carries the fields a user may change on their own
// account.
type UpdateProfileInput struct {
	FullName string `json:"fullName" validate:"nullable,min=2,max=100"`
	Phone    string `json:"phone" validate:"nullable,max=20"`
	Address  string `json:"address" validate:"nullable,max=255"`
	Avatar   string `json:"avatar" validate:"nullable,max=500"`
}

// ChangePasswordInput requires the current password before setting a new one.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthResult is the login/register response: the account plus its token.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// AuthService implements registration, login and self-service profile
// management.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		FullName: in.FullName,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     models.RoleCustomer,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return AuthResult{}, badRequest("Email đã được sử dụng")
		}
		return AuthResult{}, err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return AuthResult{}, err
	}

	logger.Info("auth: registered", "user_id", user.ID.Hex(), "email", user.Email)
	return AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and returns the account with a fresh token.
// Wrong email and wrong password report the same message.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return AuthResult{}, badRequest("Email hoặc mật khẩu không đúng")
		}
		return AuthResult{}, err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return AuthResult{}, badRequest("Email hoặc mật khẩu không đúng")
	}
	if !user.IsActive {
		return AuthResult{}, &Error{Status: http.StatusForbidden, Message: "Tài khoản đã bị khóa"}
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

// Profile returns the account for the given user ID.
func (s *AuthService) Profile(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, notFound("Không tìm thấy người dùng")
	}
	return user, err
}

// UpdateProfile applies the provided non-empty fields to the account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (models.User, error) {
	fields := bson.M{}
	if in.FullName != "" {
		fields["fullName"] = in.FullName
	}
	if in.Phone != "" {
		fields["phone"] = in.Phone
	}
	if in.Address != "" {
		fields["address"] = in.Address
	}
	if in.Avatar != "" {
		fields["avatar"] = in.Avatar
	}
	if len(fields) == 0 {
		return s.Profile(ctx, userID)
	}

	user, err := s.users.UpdateFields(ctx, userID, fields)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, notFound("Không tìm thấy người dùng")
	}
	return user, err
}

// ChangePassword verifies the current password before writing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, in ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Không tìm thấy người dùng")
		}
		return err
	}

	if !auth.CheckPassword(user.Password, in.CurrentPassword) {
		return badRequest("Mật khẩu hiện tại không đúng")
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.users.UpdateFields(ctx, userID, bson.M{"password": hash})
	return err
}

// Verify is the middleware.Verifier hook: it confirms the account exists
// and is active, and yields the current role.
func (s *AuthService) Verify(ctx context.Context, userID string) (string, bool) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", false
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil || !user.IsActive {
		return "", false
	}
	return user.Role, true
}
