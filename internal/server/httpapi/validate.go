package httpapi

import (
	"errors"
	"net/mail"
	"strings"
)

// bcrypt rejects inputs longer than 72 bytes, so the boundary does too.
const maxPasswordBytes = 72

func validateEmailField(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email address")
	}
	return nil
}

func validatePasswordField(password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password is too long")
	}
	return nil
}

func validateRegister(req registerRequest) error {
	if err := validateEmailField(req.Email); err != nil {
		return err
	}
	return validatePasswordField(req.Password)
}

func validateLogin(req loginRequest) error {
	if err := validateEmailField(req.Email); err != nil {
		return err
	}
	return validatePasswordField(req.Password)
}

func validateVerifyEmail(req verifyEmailRequest) error {
	if req.UserID == "" {
		return errors.New("user_id is required")
	}
	if req.Code == "" {
		return errors.New("code is required")
	}
	return nil
}
