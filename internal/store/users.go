package store

import (
	"fmt"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GetUsers returns a copy of all user accounts.
func (s *Store) GetUsers() []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.User(nil), s.doc.Users...)
}

// FindUserByUsername returns the account matching the username.
func (s *Store) FindUserByUsername(username string) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return entity.User{}, ErrUserNotFound
}

// FindUserByID returns the account with the given id.
func (s *Store) FindUserByID(id string) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return entity.User{}, ErrUserNotFound
}

// AddUser creates an account with a bcrypt-hashed password. Usernames
// are unique.
func (s *Store) AddUser(actingUser string, user entity.User, password string) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if u.Username == user.Username {
			return entity.User{}, ErrDuplicateUsername
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}

	user.ID = uuid.New().String()
	user.Password = string(hash)
	if len(user.AssignedClinics) == 0 {
		user.AssignedClinics = clinicIDs(s.doc)
	}
	if user.DefaultClinic == "" {
		user.DefaultClinic = s.doc.Settings.ActiveClinicID
	}
	s.doc.Users = append(s.doc.Users, user)

	s.logActionLocked(actingUser, entity.AuditActionUserCreate,
		fmt.Sprintf("Added user %s (%s) with role %s", user.Name, user.Username, user.Role))
	if err := s.saveLocalLocked(); err != nil {
		return entity.User{}, err
	}
	return user, nil
}

// UserUpdate carries the editable account fields.
type UserUpdate struct {
	Name            string
	Role            string
	AssignedClinics []string
	DefaultClinic   string
}

// UpdateUser edits an account. Demoting the last remaining admin is
// rejected so the system never loses its last admin.
func (s *Store) UpdateUser(actingUser, id string, update UserUpdate) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].ID != id {
			continue
		}
		user := &s.doc.Users[i]

		if user.Role == entity.RoleAdmin && update.Role != "" && update.Role != entity.RoleAdmin &&
			s.adminCountLocked() <= 1 {
			return entity.User{}, ErrLastAdmin
		}

		oldName := user.Name
		if update.Name != "" {
			user.Name = update.Name
		}
		if update.Role != "" {
			user.Role = update.Role
		}
		if update.AssignedClinics != nil {
			user.AssignedClinics = update.AssignedClinics
		}
		if update.DefaultClinic != "" {
			user.DefaultClinic = update.DefaultClinic
		}

		s.logActionLocked(actingUser, entity.AuditActionUserUpdate,
			fmt.Sprintf("Updated user %s (%s)", oldName, user.Name))
		if err := s.saveLocalLocked(); err != nil {
			return entity.User{}, err
		}
		return *user, nil
	}
	return entity.User{}, ErrUserNotFound
}

// DeleteUser removes an account. Deleting the last admin is rejected.
func (s *Store) DeleteUser(actingUser, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].ID != id {
			continue
		}
		user := s.doc.Users[i]
		if user.Role == entity.RoleAdmin && s.adminCountLocked() <= 1 {
			return ErrLastAdmin
		}
		s.doc.Users = append(s.doc.Users[:i], s.doc.Users[i+1:]...)
		s.logActionLocked(actingUser, entity.AuditActionUserDelete,
			fmt.Sprintf("Deleted user %s (%s)", user.Name, user.Username))
		return s.saveLocalLocked()
	}
	return ErrUserNotFound
}

// ChangeUserPassword replaces an account's password hash.
func (s *Store) ChangeUserPassword(actingUser, id, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].ID != id {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		s.doc.Users[i].Password = string(hash)
		s.logActionLocked(actingUser, entity.AuditActionPasswordChange,
			fmt.Sprintf("Changed password for %s (%s)", s.doc.Users[i].Name, s.doc.Users[i].Username))
		return s.saveLocalLocked()
	}
	return ErrUserNotFound
}

func (s *Store) adminCountLocked() int {
	count := 0
	for _, u := range s.doc.Users {
		if u.Role == entity.RoleAdmin {
			count++
		}
	}
	return count
}
