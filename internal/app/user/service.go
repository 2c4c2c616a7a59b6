package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"kanbaniq/internal/providers/firebase"
	"kanbaniq/internal/providers/redis"
	"kanbaniq/internal/utils"

	"go.uber.org/zap"
)

const maxDisplayNameLength = 64

type Service interface {
	SyncFromClaims(ctx context.Context, claims *firebase.Claims) (*User, error)
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByIDs(ctx context.Context, ids []uint64) ([]*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uint64, displayName string) (*User, error)
}

type service struct {
	repo   Repository
	redisP *redis.RedisProvider
	logger *zap.SugaredLogger
}

func NewService(repo Repository, redisP *redis.RedisProvider, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		redisP: redisP,
		logger: logger.Sugar(),
	}
}

func uidCacheKey(uid string) string {
	return "user:uid:" + uid
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SyncFromClaims returns the local user for a verified token, creating it on
// first sight and refreshing email and photo when Firebase reports new ones.
// A display name the user chose is never overwritten by the token's name.
func (s *service) SyncFromClaims(ctx context.Context, claims *firebase.Claims) (*User, error) {
	if claims == nil || claims.UID == "" {
		return nil, fmt.Errorf("%w: missing token subject", utils.ErrUnauthorized)
	}
	email := NormalizeEmail(claims.Email)

	var cached User
	if s.redisP.GetJSON(ctx, uidCacheKey(claims.UID), &cached) {
		if cached.Email == email && (claims.Picture == "" || cached.PhotoURL == claims.Picture) {
			return &cached, nil
		}
	}

	u, err := s.repo.GetByFirebaseUID(ctx, claims.UID)
	switch {
	case IsNotFound(err):
		u, err = s.create(ctx, claims, email)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load user: %w", err)
	default:
		if err := s.refresh(ctx, u, claims, email); err != nil {
			return nil, err
		}
	}

	s.redisP.SetJSON(ctx, uidCacheKey(claims.UID), u, 0)
	return u, nil
}

func (s *service) create(ctx context.Context, claims *firebase.Claims, email string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: an email address is required to use boards", utils.ErrForbidden)
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.FirebaseUID != claims.UID {
		return nil, fmt.Errorf("%w: email %s belongs to another account", utils.ErrConflict, email)
	}

	u := &User{
		FirebaseUID: claims.UID,
		Email:       email,
		DisplayName: truncateRunes(strings.TrimSpace(claims.Name), maxDisplayNameLength),
		PhotoURL:    claims.Picture,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// Two first requests raced; the other one won.
		if again, getErr := s.repo.GetByFirebaseUID(ctx, claims.UID); getErr == nil {
			return again, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Infow("User created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *service) refresh(ctx context.Context, u *User, claims *firebase.Claims, email string) error {
	fields := map[string]interface{}{}
	if email != "" && email != u.Email {
		if other, err := s.repo.GetByEmail(ctx, email); err == nil && other.ID != u.ID {
			return fmt.Errorf("%w: email %s belongs to another account", utils.ErrConflict, email)
		}
		fields["email"] = email
	}
	if claims.Picture != "" && claims.Picture != u.PhotoURL {
		fields["photo_url"] = claims.Picture
	}
	if u.DisplayName == "" && strings.TrimSpace(claims.Name) != "" {
		fields["display_name"] = truncateRunes(strings.TrimSpace(claims.Name), maxDisplayNameLength)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.UpdateFields(ctx, u.ID, fields); err != nil {
		return fmt.Errorf("failed to refresh user: %w", err)
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["photo_url"].(string); ok {
		u.PhotoURL = v
	}
	if v, ok := fields["display_name"].(string); ok {
		u.DisplayName = v
	}
	s.invalidateProfile(ctx, u)
	s.logger.Infow("User profile refreshed from token", "user_id", u.ID)
	return nil
}

// invalidateProfile drops every cache entry that embeds u's profile.
func (s *service) invalidateProfile(ctx context.Context, u *User) {
	keys := []string{uidCacheKey(u.FirebaseUID)}
	boardIDs, err := s.repo.MemberBoardIDs(ctx, u.ID)
	if err != nil {
		s.logger.Warnw("Failed to list boards for cache invalidation", "user_id", u.ID, "error", err)
	}
	for _, id := range boardIDs {
		keys = append(keys, utils.BoardDetailKey(id))
	}
	s.redisP.Invalidate(ctx, keys...)
}

func (s *service) GetByID(ctx context.Context, id uint64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", utils.ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) GetByIDs(ctx context.Context, ids []uint64) ([]*User, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: user with email %s", utils.ErrNotFound, email)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uint64, displayName string) (*User, error) {
	displayName = strings.TrimSpace(displayName)
	if n := utf8.RuneCountInString(displayName); n < 1 || n > maxDisplayNameLength {
		return nil, fmt.Errorf("%w: display name must be 1-%d characters", utils.ErrValidation, maxDisplayNameLength)
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"display_name": displayName}); err != nil {
		if errors.Is(err, utils.ErrNotFound) || IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", utils.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update display name: %w", err)
	}
	u.DisplayName = displayName
	s.invalidateProfile(ctx, u)
	return u, nil
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
