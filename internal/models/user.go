package models

import "time"

// UserProfile marks a username as a known namespace. It carries no credentials.
type UserProfile struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

var _ Model = (*UserProfile)(nil)

func (u *UserProfile) Key() string { return u.Username }

// Well-known setting keys.
const (
	SettingCurrentUser  = "currentUser"
	SettingTheme        = "theme"
	SettingDisplayLimit = "displayLimit"
	SettingIconPath     = "iconPath"
)

// Setting is a global key/value preference.
type Setting struct {
	Name      string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

var _ Model = (*Setting)(nil)

func (s *Setting) Key() string { return s.Name }
