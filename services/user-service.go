package services

import (
	"context"
	"errors"
	"time"

	"taskmanager-project/backend/logging"
	"taskmanager-project/backend/models"
	"taskmanager-project/backend/repositories"
	"taskmanager-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService handles registration, login and profile management.
type UserService struct {
	users repositories.UserStore
}

func NewUserService(users repositories.UserStore) *UserService {
	return &UserService{users: users}
}

// RegisterInput carries the decoded registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
	Role     string
	Title    string
}

// Register creates an active user with a hashed credential and returns
// the stored record (credential blanked) plus a signed token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", models.NewValidationError("Missing required fields")
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, "", models.NewValidationError("%s", err.Error())
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, "", models.NewValidationError("User already exists")
	}
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, "", err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", models.NewStoreError("failed to hash password", err)
	}

	user := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hashed,
		Title:     in.Title,
		Role:      in.Role,
		IsAdmin:   in.IsAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return nil, "", models.NewStoreError("failed to generate token", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered", user.Email)
	user.Password = ""
	return user, token, nil
}

// Login verifies the credential and the active flag, returning the user
// and a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return nil, "", &models.AuthError{Message: "Invalid email or password"}
		}
		return nil, "", err
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, "", &models.AuthError{Message: "Invalid email or password"}
	}
	if !user.IsActive {
		return nil, "", &models.AuthError{Message: "Account is deactivated", Forbidden: true}
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return nil, "", models.NewStoreError("failed to generate token", err)
	}

	user.Password = ""
	return user, token, nil
}

// GetTeamList returns every user with credentials stripped.
func (s *UserService) GetTeamList(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// UpdateProfile edits name, title and role. Admins may edit any user;
// everyone else only themself. Blank fields keep their current values.
func (s *UserService) UpdateProfile(ctx context.Context, actorID primitive.ObjectID, actorIsAdmin bool, targetID primitive.ObjectID, name, title, role string) (*models.User, error) {
	id := actorID
	if actorIsAdmin && !targetID.IsZero() {
		id = targetID
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if title != "" {
		user.Title = title
	}
	if role != "" {
		user.Role = role
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// ChangePassword re-hashes and stores a new credential for the caller.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, newPassword string) error {
	if newPassword == "" {
		return models.NewValidationError("Password is required")
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError("%s", err.Error())
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return models.NewStoreError("failed to hash password", err)
	}
	user.Password = hashed

	return s.users.Save(ctx, user)
}

// SetActive toggles the account's active flag and reports the new state.
func (s *UserService) SetActive(ctx context.Context, id primitive.ObjectID, isActive bool) (bool, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	user.IsActive = isActive
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}
	return user.IsActive, nil
}

// DeleteUser permanently removes a user record.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return s.users.Delete(ctx, id)
}
