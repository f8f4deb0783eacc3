package usecase

import "context"

// FirebaseAuthClient is the slice of the Firebase Auth surface the usecases
// need; the concrete client lives in internal/infrastructure/firebase.
type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, idToken string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error)
	RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	SetUserDisabled(ctx context.Context, uid string, disabled bool) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}
