// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserUUIDLen = 64
	MaxUsernameLen = 36
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUserUUIDEmpty   = errors.New("user uuid empty")
	ErrUserUUIDTooLong = errors.New("user uuid too long")
)

type UserUUID string

// Credentials is what a successful login hands back; the session keeps it for its lifetime.
type Credentials struct {
	UserUUID  UserUUID `json:"userUuid"`
	UserToken string   `json:"userToken"`
	IMKey     string   `json:"imKey"`
	IMToken   string   `json:"imToken"`
	RTCKey    string   `json:"rtcKey"`
}

// ValidateUsername keeps display names in the bounds the backend accepts.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidateUserUUID(uuid string) error {
	switch {
	case uuid == "":
		return ErrUserUUIDEmpty
	case len(uuid) > MaxUserUUIDLen:
		return ErrUserUUIDTooLong
	}
	return nil
}
