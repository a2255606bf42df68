package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/circlecare/internal/db"
	"github.com/terraincognita07/circlecare/internal/security"
	"github.com/terraincognita07/circlecare/internal/services"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

func RunResetPasswordCommand(dbPath string, username string, out io.Writer) error {
	authService, closeDB, err := openAuthService(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	temporaryPassword, err := resetPassword(authService, username)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

// resetPassword stores a random temporary password and flags the account so
// the user is asked to change it.
func resetPassword(authService *services.AuthService, username string) (string, error) {
	user, err := lookupUser(authService, username)
	if err != nil {
		return "", err
	}

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	if err := authService.SetPassword(user.ID, temporaryPassword, true); err != nil {
		return "", fmt.Errorf("update user password: %w", err)
	}
	return temporaryPassword, nil
}

func lookupUser(authService *services.AuthService, username string) (userRef, error) {
	if strings.TrimSpace(username) == "" {
		return userRef{}, errors.New("username is required")
	}
	user, err := authService.FindByUsername(username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return userRef{}, fmt.Errorf("user %s not found", strings.TrimSpace(username))
		}
		return userRef{}, fmt.Errorf("load user: %w", err)
	}
	return userRef{ID: user.ID, Username: user.Username}, nil
}

type userRef struct {
	ID       uint
	Username string
}

func openAuthService(dbPath string) (*services.AuthService, func(), error) {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)
	return services.NewAuthService(repositories.Users), func() { closeDatabase(database) }, nil
}

func closeDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
