package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"walletly/config"
	"walletly/internal/auth"
	"walletly/internal/models"
	"walletly/internal/store"
	"walletly/pkg/cloudinary"
)

// AuthService registers and authenticates users against the users
// collection and issues JWT session tokens.
type AuthService struct {
	cfg   *config.Config
	store store.Store
	cloud cloudinary.Client
}

func NewAuthService(cfg *config.Config, st store.Store, cloud cloudinary.Client) *AuthService {
	return &AuthService{cfg: cfg, store: st, cloud: cloud}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, string, error) {
	if name == "" || email == "" || len(password) < 6 {
		return nil, "", "", validationErr("name, email and a password of at least 6 characters are required")
	}

	existing, err := s.store.Query(ctx, store.Users, store.Query{
		Filters: []store.Filter{{Field: models.FieldUserEmail, Value: email}},
		Limit:   1,
	})
	if err != nil {
		return nil, "", "", storeErr("failed to check email", err)
	}
	if len(existing) > 0 {
		return nil, "", "", validationErr("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", storeErr("failed to hash password", err)
	}

	created := time.Now()
	id, err := s.store.Set(ctx, store.Users, "", map[string]any{
		models.FieldUserName:     name,
		models.FieldUserEmail:    email,
		models.FieldPasswordHash: string(hash),
		models.FieldUserCreated:  created,
	})
	if err != nil {
		return nil, "", "", storeErr("failed to create user", err)
	}

	u := &models.User{ID: id, Name: name, Email: email, Created: created}
	access, refresh, err := s.tokens(u)
	return u, access, refresh, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	docs, err := s.store.Query(ctx, store.Users, store.Query{
		Filters: []store.Filter{{Field: models.FieldUserEmail, Value: email}},
		Limit:   1,
	})
	if err != nil {
		return nil, "", "", storeErr("failed to load user", err)
	}
	if len(docs) == 0 {
		return nil, "", "", validationErr("invalid email or password")
	}

	u := models.UserFromDocument(docs[0])
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", validationErr("invalid email or password")
	}
	u.PasswordHash = ""

	access, refresh, err := s.tokens(&u)
	return &u, access, refresh, err
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	uid, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", validationErr("invalid refresh token")
	}
	u, err := s.GetUser(ctx, uid)
	if err != nil {
		return nil, "", "", err
	}
	access, refresh, err := s.tokens(u)
	return u, access, refresh, err
}

func (s *AuthService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.store.Get(ctx, store.Users, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("user not found")
	}
	if err != nil {
		return nil, storeErr("failed to load user", err)
	}
	u := models.UserFromDocument(doc)
	u.PasswordHash = ""
	return &u, nil
}

// UpdateUser changes the profile name and avatar. An avatar supplied as a
// remote URL is stored as-is; a local file goes through the uploader first.
func (s *AuthService) UpdateUser(ctx context.Context, uid, name string, image cloudinary.Source) (*models.User, error) {
	fields := map[string]any{}
	if name != "" {
		fields[models.FieldUserName] = name
	}
	if !image.Empty() {
		url, err := s.cloud.Upload(ctx, image, "users")
		if err != nil {
			return nil, uploadErr("failed to upload profile image", err)
		}
		fields[models.FieldUserImage] = url
	}
	if len(fields) == 0 {
		return s.GetUser(ctx, uid)
	}

	err := s.store.Update(ctx, store.Users, uid, fields)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("user not found")
	}
	if err != nil {
		return nil, storeErr("failed to update user", err)
	}
	return s.GetUser(ctx, uid)
}

func (s *AuthService) tokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email)
	if err != nil {
		return "", "", storeErr("failed to issue token", err)
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return access, "", storeErr("failed to issue token", err)
	}
	return access, refresh, nil
}
