package usecase

import (
	"context"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type UserUsecase interface {
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	CreateUser(ctx context.Context, actingUser string, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actingUser, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actingUser, id string) error
	ChangePassword(ctx context.Context, actingUser, id string, req *dto.ChangePasswordRequest) error
}

type userUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewUserUsecase(st *store.Store, log *logrus.Logger) UserUsecase {
	return &userUsecase{store: st, log: log}
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	return converter.UsersToResponse(u.store.GetUsers()), nil
}

func (u *userUsecase) CreateUser(ctx context.Context, actingUser string, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := entity.User{
		Username:        req.Username,
		Name:            req.Name,
		Role:            req.Role,
		AssignedClinics: req.AssignedClinics,
		DefaultClinic:   req.DefaultClinic,
	}

	created, err := u.store.AddUser(actingUser, user, req.Password)
	if err != nil {
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}
	return converter.UserToResponse(&created), nil
}

func (u *userUsecase) UpdateUser(ctx context.Context, actingUser, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	updated, err := u.store.UpdateUser(actingUser, id, store.UserUpdate{
		Name:            req.Name,
		Role:            req.Role,
		AssignedClinics: req.AssignedClinics,
		DefaultClinic:   req.DefaultClinic,
	})
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(&updated), nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, actingUser, id string) error {
	return u.store.DeleteUser(actingUser, id)
}

func (u *userUsecase) ChangePassword(ctx context.Context, actingUser, id string, req *dto.ChangePasswordRequest) error {
	return u.store.ChangeUserPassword(actingUser, id, req.NewPassword)
}
