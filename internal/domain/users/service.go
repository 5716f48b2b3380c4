package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

type Service struct {
	repo        Repository
	maxPageSize int
	now         func() time.Time
}

func NewService(repo Repository, maxPageSize int) *Service {
	return &Service{
		repo:        repo,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

type CreateInput struct {
	Username   string
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Phone      string
	StatusCode int
}

type UpdateInput struct {
	Username   *string
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Phone      *string
	StatusCode *int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	var verr validate.Errors

	username := validate.MinLen(&verr, "username", in.Username, 3)
	if in.Password == "" {
		verr.Add("password", "field is required")
	}
	if verr.Has() {
		return User{}, verr
	}

	if taken, err := s.repo.UsernameTaken(ctx, username, ""); err != nil {
		return User{}, err
	} else if taken {
		verr.Add("username", "already exists")
		return User{}, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		StatusCode:   in.StatusCode,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, err
	}

	var verr validate.Errors

	if in.Username != nil {
		username := validate.MinLen(&verr, "username", *in.Username, 3)
		if !verr.Has() && username != u.Username {
			taken, err := s.repo.UsernameTaken(ctx, username, u.ID)
			if err != nil {
				return User{}, err
			}
			if taken {
				verr.Add("username", "already exists")
			}
		}
		u.Username = username
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.StatusCode != nil {
		u.StatusCode = *in.StatusCode
	}

	// el password solo se re-hashea si viene no vacío
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = string(hash)
	}

	if verr.Has() {
		return User{}, verr
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// Delete cascadea a las orders del usuario (lo resuelve el storage).
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, in query.Params) ([]User, query.PageInfo, error) {
	plan, err := query.Compile(Schema(s.maxPageSize), in)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return s.repo.List(ctx, plan)
}
