package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

// ErrLinkingFailed wraps any store failure during OAuth profile resolution.
// Callers surface a generic failure and never echo the wrapped detail.
var ErrLinkingFailed = errors.New("identity linking failed")

// Profile is the normalized result of a completed OAuth handshake.
type Profile struct {
	GoogleID    string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Linker reconciles external OAuth profiles against stored users: a
// returning user is found by provider id, a password account with the same
// email gains a provider link, and an unknown profile becomes a new guest
// account.
type Linker struct {
	users  *services.UserService
	tokens *TokenService
}

func NewLinker(users *services.UserService, tokens *TokenService) *Linker {
	return &Linker{users: users, tokens: tokens}
}

// Resolve maps the profile to exactly one user, updates its login time, and
// issues a bearer token for it.
func (l *Linker) Resolve(ctx context.Context, profile Profile) (types.User, string, error) {
	user, err := l.resolveUser(ctx, profile)
	if err != nil {
		return types.User{}, "", err
	}

	user.LastLoginAt = time.Now()
	user, err = l.users.Update(ctx, user)
	if err != nil {
		return types.User{}, "", fmt.Errorf("%w: %v", ErrLinkingFailed, err)
	}

	token, err := l.tokens.Issue(user.ID)
	if err != nil {
		return types.User{}, "", fmt.Errorf("%w: %v", ErrLinkingFailed, err)
	}
	return user, token, nil
}

func (l *Linker) resolveUser(ctx context.Context, profile Profile) (types.User, error) {
	user, err := l.lookup(ctx, profile)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("%w: %v", ErrLinkingFailed, err)
	}

	user, err = l.users.Create(ctx, types.User{
		Name:         profile.DisplayName,
		Email:        profile.Email,
		GoogleID:     profile.GoogleID,
		Role:         types.RoleGuest,
		Verified:     true,
		AvatarURL:    profile.AvatarURL,
		PasswordHash: randomPlaceholderHash(),
	})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return types.User{}, fmt.Errorf("%w: %v", ErrLinkingFailed, err)
	}

	// A concurrent handshake for the same profile won the insert; the
	// unique constraints guarantee its row is the one to adopt.
	user, err = l.lookup(ctx, profile)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: %v", ErrLinkingFailed, err)
	}
	return user, nil
}

// lookup finds the user by provider id first, then by email. The email path
// links the provider account onto an existing password account.
func (l *Linker) lookup(ctx context.Context, profile Profile) (types.User, error) {
	user, err := l.users.GetByGoogleID(ctx, profile.GoogleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	user, err = l.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		return types.User{}, err
	}

	user.GoogleID = profile.GoogleID
	user.Verified = true
	if user.AvatarURL == "" {
		user.AvatarURL = profile.AvatarURL
	}
	return l.users.Update(ctx, user)
}

// randomPlaceholderHash fills password_hash for OAuth-only accounts. It is
// not a bcrypt hash, so no typed password can ever compare against it.
func randomPlaceholderHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("auth: read random bytes: %v", err))
	}
	return "oauth:" + hex.EncodeToString(buf)
}
