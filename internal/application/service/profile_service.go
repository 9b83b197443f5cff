package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/internal/logbook"
	"github.com/garyjia/pt-logbook/pkg/utils"
)

// Profile is a user together with their training profile. Student is nil
// until the first profile save.
type Profile struct {
	User    *entity.User    `json:"user"`
	Student *entity.Student `json:"student"`
}

// ProfileUpdate holds the editable profile fields
type ProfileUpdate struct {
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	RegistrationNumber string     `json:"registration_number"`
	YearOfStudy        int        `json:"year_of_study"`
	DepartmentName     string     `json:"department_name"`
	PTLocation         string     `json:"pt_location"`
	PTStartDate        *time.Time `json:"practical_training_start_date"`
}

// ProfileService manages user and student profiles
type ProfileService interface {
	GetProfile(ctx context.Context, user *entity.User) (*Profile, error)
	UpdateProfile(ctx context.Context, user *entity.User, update ProfileUpdate) (*Profile, error)
}

type profileServiceImpl struct {
	userRepo    port.UserRepository
	studentRepo port.StudentRepository
	txManager   port.TransactionManager
	university  string
	logger      Logger
}

// NewProfileService creates a new ProfileService. university is stored on
// newly created student profiles.
func NewProfileService(
	userRepo port.UserRepository,
	studentRepo port.StudentRepository,
	txManager port.TransactionManager,
	university string,
	logger Logger,
) ProfileService {
	return &profileServiceImpl{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		txManager:   txManager,
		university:  university,
		logger:      logger,
	}
}

// GetProfile returns the user and their student profile, if any
func (s *profileServiceImpl) GetProfile(ctx context.Context, user *entity.User) (*Profile, error) {
	student, err := s.studentRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to get student", "error", err, "user_id", user.ID)
		return nil, err
	}
	return &Profile{User: user, Student: student}, nil
}

// UpdateProfile saves account and student fields, creating the student
// profile on first use
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, user *entity.User, update ProfileUpdate) (*Profile, error) {
	update.Username = strings.TrimSpace(update.Username)
	update.Email = strings.TrimSpace(update.Email)
	update.RegistrationNumber = strings.TrimSpace(update.RegistrationNumber)
	if update.Username == "" || update.Email == "" || update.RegistrationNumber == "" {
		return nil, fmt.Errorf("%w: username, email and registration number are required", ErrInvalidInput)
	}
	if !logbook.ValidRegNo(update.RegistrationNumber) {
		return nil, fmt.Errorf("%w: registration number must not contain \"/\", \"\\\" or \"..\"", ErrInvalidInput)
	}
	if err := utils.ValidateEmail(update.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if update.YearOfStudy < 0 {
		return nil, fmt.Errorf("%w: year of study must not be negative", ErrInvalidInput)
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, update.Username, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.userRepo.ExistsByEmail(ctx, update.Email, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	updatedUser := *user
	updatedUser.Username = update.Username
	updatedUser.Email = update.Email
	updatedUser.FirstName = strings.TrimSpace(update.FirstName)
	updatedUser.LastName = strings.TrimSpace(update.LastName)

	var student *entity.Student
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, &updatedUser); err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		existing, err := s.studentRepo.GetByUserID(txCtx, user.ID)
		if err != nil {
			return fmt.Errorf("get student: %w", err)
		}
		if existing == nil {
			student = &entity.Student{UserID: user.ID, University: s.university}
		} else {
			student = existing
		}
		student.RegistrationNumber = update.RegistrationNumber
		student.YearOfStudy = update.YearOfStudy
		student.DepartmentName = strings.TrimSpace(update.DepartmentName)
		student.PTLocation = strings.TrimSpace(update.PTLocation)
		if update.PTStartDate != nil {
			d := entity.TruncateDay(*update.PTStartDate)
			student.PTStartDate = &d
		}

		if existing == nil {
			if err := s.studentRepo.Create(txCtx, student); err != nil {
				return fmt.Errorf("create student: %w", err)
			}
			return nil
		}
		if err := s.studentRepo.Update(txCtx, student); err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update profile", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("Profile updated", "user_id", user.ID, "student_id", student.ID)
	return &Profile{User: &updatedUser, Student: student}, nil
}
