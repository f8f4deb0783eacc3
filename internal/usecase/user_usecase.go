package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	ws "unicert/internal/infrastructure/websocket"
	"unicert/pkg/errors"
	"unicert/pkg/logger"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	firebaseAuth FirebaseAuthClient
	wsManager    *ws.Manager
}

func NewUserUseCase(userRepo repository.UserRepository, activityRepo repository.ActivityRepository, firebaseAuth FirebaseAuthClient, wsManager *ws.Manager) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		firebaseAuth: firebaseAuth,
		wsManager:    wsManager,
	}
}

type UpdateProfileInput struct {
	DisplayName      string
	OrganizationName string
	Phone            string
	PhotoURL         string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Empty fields are left untouched so a partial update cannot blank
	// existing profile data.
	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.OrganizationName != "" {
		user.OrganizationName = input.OrganizationName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, status, userType string, limit, offset int) ([]*entity.User, int64, error) {
	filter := make(map[string]interface{})
	if status != "" {
		filter["status"] = status
	}
	if userType != "" {
		filter["userType"] = userType
	}

	return uc.userRepo.List(ctx, filter, limit, offset)
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// ApproveUser activates a pending account. The status change and the audit
// entry commit in one transaction, and a user not in pending status fails
// the transaction, so approving twice returns a conflict.
func (uc *UserUseCase) ApproveUser(ctx context.Context, actor *entity.User, userID string) (*entity.User, error) {
	activity := uc.newActivity(actor, entity.ActionUserApprove, entity.TargetTypeUser, userID, "")

	user, err := uc.userRepo.SetStatusWithActivity(ctx, userID,
		[]string{entity.UserStatusPending}, entity.UserStatusActive, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyStatusChange(user, "")
	return user, nil
}

// RejectUser turns down a pending application; the account stays around as
// inactive so the email cannot re-register a fresh application.
func (uc *UserUseCase) RejectUser(ctx context.Context, actor *entity.User, userID, reason string) (*entity.User, error) {
	activity := uc.newActivity(actor, entity.ActionUserReject, entity.TargetTypeUser, userID, reason)

	user, err := uc.userRepo.SetStatusWithActivity(ctx, userID,
		[]string{entity.UserStatusPending}, entity.UserStatusInactive, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyStatusChange(user, reason)
	return user, nil
}

func (uc *UserUseCase) SuspendUser(ctx context.Context, actor *entity.User, userID, reason string) (*entity.User, error) {
	if reason == "" {
		return nil, errors.BadRequest("Suspension reason is required", nil)
	}
	if actor.ID == userID {
		return nil, errors.BadRequest("Cannot change the status of your own account", nil)
	}

	activity := uc.newActivity(actor, entity.ActionUserSuspend, entity.TargetTypeUser, userID, reason)

	user, err := uc.userRepo.SetStatusWithActivity(ctx, userID,
		[]string{entity.UserStatusActive}, entity.UserStatusSuspended, activity)
	if err != nil {
		return nil, err
	}

	// Kill live sessions. The login status check already refuses suspended
	// accounts, so failures here are logged rather than unwound.
	if err := uc.firebaseAuth.SetUserDisabled(ctx, userID, true); err != nil {
		logger.Error("Failed to disable auth account for %s: %v", userID, err)
	}
	if err := uc.firebaseAuth.RevokeRefreshTokens(ctx, userID); err != nil {
		logger.Error("Failed to revoke refresh tokens for %s: %v", userID, err)
	}

	uc.notifyStatusChange(user, reason)
	return user, nil
}

func (uc *UserUseCase) ReactivateUser(ctx context.Context, actor *entity.User, userID string) (*entity.User, error) {
	activity := uc.newActivity(actor, entity.ActionUserReactivate, entity.TargetTypeUser, userID, "")

	user, err := uc.userRepo.SetStatusWithActivity(ctx, userID,
		[]string{entity.UserStatusSuspended}, entity.UserStatusActive, activity)
	if err != nil {
		return nil, err
	}

	if err := uc.firebaseAuth.SetUserDisabled(ctx, userID, false); err != nil {
		logger.Error("Failed to re-enable auth account for %s: %v", userID, err)
	}

	uc.notifyStatusChange(user, "")
	return user, nil
}

// DeleteUser soft-deletes: the profile keeps its history, the account is
// marked inactive and the auth account disabled. Nothing is hard-deleted.
func (uc *UserUseCase) DeleteUser(ctx context.Context, actor *entity.User, userID, reason string) (*entity.User, error) {
	if actor.ID == userID {
		return nil, errors.BadRequest("Cannot delete your own account", nil)
	}

	activity := uc.newActivity(actor, entity.ActionUserDelete, entity.TargetTypeUser, userID, reason)

	user, err := uc.userRepo.SoftDelete(ctx, userID, activity)
	if err != nil {
		return nil, err
	}

	if err := uc.firebaseAuth.SetUserDisabled(ctx, userID, true); err != nil {
		logger.Error("Failed to disable auth account for %s: %v", userID, err)
	}

	return user, nil
}

func (uc *UserUseCase) ListActivities(ctx context.Context, action, actorID, targetType string, limit, offset int) ([]*entity.AdminActivity, int64, error) {
	filter := make(map[string]interface{})
	if action != "" {
		filter["action"] = action
	}
	if actorID != "" {
		filter["actorId"] = actorID
	}
	if targetType != "" {
		filter["targetType"] = targetType
	}

	return uc.activityRepo.List(ctx, filter, limit, offset)
}

// TrimActivities applies the audit retention window, deleting entries older
// than the given number of days.
func (uc *UserUseCase) TrimActivities(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, errors.BadRequest("Retention days must be positive", nil)
	}

	before := time.Now().AddDate(0, 0, -days)
	return uc.activityRepo.DeleteOlderThan(ctx, before)
}

func (uc *UserUseCase) newActivity(actor *entity.User, action, targetType, targetID, reason string) *entity.AdminActivity {
	return &entity.AdminActivity{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}

func (uc *UserUseCase) notifyStatusChange(user *entity.User, reason string) {
	if uc.wsManager == nil {
		return
	}

	uc.wsManager.PublishToUser(user.ID, ws.MessageTypeUserStatusChanged, ws.UserStatusEventData{
		UserID: user.ID,
		Status: user.Status,
		Reason: reason,
	})
}
