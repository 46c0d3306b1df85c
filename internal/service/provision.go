package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asistio/asistio/internal/directory"
	"github.com/asistio/asistio/internal/repository"
)

var (
	ErrMissingField = errors.New("email and password are required")
)

// ProvisionInput carries the admin-supplied fields for a new user. Field
// names mirror the wire contract.
type ProvisionInput struct {
	Email              string
	Password           string
	GivenNames         string
	FamilyNames        string
	InstitutionalEmail string
	RoleID             *string
	FacultyID          *string
	CareerID           *string
	AvatarPath         *string
}

// ProvisionService creates and removes user accounts across two stores
// that do not share a transaction: the auth directory and the profile
// store. The create path compensates on partial failure.
type ProvisionService struct {
	directory directory.Directory
	profiles  repository.ProfileRepository
}

func NewProvisionService(dir directory.Directory, profiles repository.ProfileRepository) *ProvisionService {
	return &ProvisionService{
		directory: dir,
		profiles:  profiles,
	}
}

// Provision creates the directory account and fills in the profile row the
// schema trigger created for it. The two writes are sequential and not
// transactional: if the profile update fails, the just-created account is
// deleted again so no half-provisioned user is left behind. Should that
// compensating delete itself fail, the orphaned account is logged loudly
// and the caller still sees the original store error.
func (s *ProvisionService) Provision(ctx context.Context, input ProvisionInput) (string, error) {
	if input.Email == "" || input.Password == "" {
		return "", ErrMissingField
	}

	// The admin vouches for the user, so the account starts confirmed
	// and no verification email is sent.
	accountID, err := s.directory.CreateAccount(ctx, input.Email, input.Password, true)
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	qrCode := "USER:" + accountID

	err = s.profiles.Update(ctx, accountID, repository.ProfileFields{
		GivenNames:         input.GivenNames,
		FamilyNames:        input.FamilyNames,
		InstitutionalEmail: input.InstitutionalEmail,
		RoleID:             input.RoleID,
		FacultyID:          input.FacultyID,
		CareerID:           input.CareerID,
		QRCode:             &qrCode,
		AvatarPath:         input.AvatarPath,
	})
	if err != nil {
		// Best-effort compensation, not a transaction. A failed delete
		// leaves an orphaned account with a blank profile; that gap is
		// observable here rather than hidden.
		delErr := s.directory.DeleteAccount(ctx, accountID)
		if delErr != nil {
			slog.Error("orphaned account: profile update and compensating delete both failed",
				"account_id", accountID,
				"store_error", err,
				"delete_error", delErr,
			)
		} else {
			slog.Warn("provisioning rolled back after profile update failure",
				"account_id", accountID,
				"error", err,
			)
		}
		return "", fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("account provisioned", "account_id", accountID)
	return accountID, nil
}

// Deprovision deletes the account from the directory. The profile row and
// any attendance records cascade via foreign keys owned by the schema, so
// there is nothing to compensate; errors are reported verbatim.
func (s *ProvisionService) Deprovision(ctx context.Context, accountID string) error {
	err := s.directory.DeleteAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	slog.Info("account deprovisioned", "account_id", accountID)
	return nil
}
