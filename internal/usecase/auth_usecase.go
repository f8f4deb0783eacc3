package usecase

import (
	"context"
	"time"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
	"unicert/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email            string
	Password         string
	DisplayName      string
	UserType         string
	OrganizationName string
	Phone            string
}

type AuthResult struct {
	User         *entity.User
	Token        string
	RefreshToken string
}

// Register creates the Firebase Auth account and the Firestore profile.
// Certificate authorities and organization clients start in pending status
// and receive no session until an administrator approves them.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.UserType == "" {
		input.UserType = entity.UserTypeUser
	}
	if !entity.ValidUserType(input.UserType) || input.UserType == entity.UserTypeAdmin {
		return nil, errors.BadRequest("Invalid user type", nil)
	}

	// Check if email already exists
	existingUser, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existingUser != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}

	// Create user in Firebase Auth
	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	status := entity.UserStatusActive
	if entity.RequiresApproval(input.UserType) {
		status = entity.UserStatusPending
	}

	now := time.Now()
	user := &entity.User{
		ID:               uid,
		Email:            input.Email,
		DisplayName:      input.DisplayName,
		UserType:         input.UserType,
		Status:           status,
		OrganizationName: input.OrganizationName,
		Phone:            input.Phone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	// Pending accounts get no session; they sign in after approval.
	if user.Status == entity.UserStatusPending {
		return &AuthResult{User: user}, nil
	}

	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		logger.Debug("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	switch user.Status {
	case entity.UserStatusPending:
		return nil, errors.Forbidden("Account is awaiting admin approval", nil)
	case entity.UserStatusSuspended:
		return nil, errors.Forbidden("Account is suspended", nil)
	case entity.UserStatusInactive:
		return nil, errors.Forbidden("Account is deactivated", nil)
	}

	// Best-effort bookkeeping; a failed write never blocks the login.
	user.LastLoginAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Warn("Failed to record last login for %s: %v", uid, err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	token, newRefreshToken, err := uc.firebaseAuth.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		return "", "", errors.Unauthorized("Invalid refresh token", err)
	}

	return token, newRefreshToken, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

// UpdatePassword re-authenticates with the current password before letting
// the admin SDK overwrite it.
func (uc *AuthUseCase) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.NotFound("User", err)
	}

	if _, _, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, user.Email, currentPassword); err != nil {
		return errors.Unauthorized("Current password is incorrect", err)
	}

	if err := uc.firebaseAuth.UpdateUserPassword(ctx, userID, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}

	return nil
}
