package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/circlecare/internal/services"
)

func RunSetPasswordCommand(dbPath string, username string, stdin *os.File, out io.Writer) error {
	authService, closeDB, err := openAuthService(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	password, err := promptPassword(stdin, out, "New password: ")
	if err != nil {
		return err
	}
	confirmation, err := promptPassword(stdin, out, "Confirm password: ")
	if err != nil {
		return err
	}

	if err := setPassword(authService, username, password, confirmation); err != nil {
		return err
	}
	fmt.Fprintln(out, "Password updated")
	return nil
}

func setPassword(authService *services.AuthService, username string, password string, confirmation string) error {
	if password != confirmation {
		return errors.New("passwords do not match")
	}

	user, err := lookupUser(authService, username)
	if err != nil {
		return err
	}
	if err := authService.SetPassword(user.ID, password, false); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

func promptPassword(stdin *os.File, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	value, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(value), nil
}
