package model

import (
	"fmt"
	"time"
)

// AvatarSize selects one of the avatar renditions of a user.
type AvatarSize string

const (
	AvatarSmall  AvatarSize = "small"
	AvatarMedium AvatarSize = "medium"
	AvatarLarge  AvatarSize = "large"
)

// User is a read-only projection of a user profile.
type User struct {
	Username    string    `json:"username" validate:"required"`
	URL         string    `json:"url,omitempty" validate:"omitempty,url"`
	About       string    `json:"about,omitempty"`
	HomePage    string    `json:"home_page,omitempty"`
	DateJoined  time.Time `json:"date_joined"`
	NumSounds   int       `json:"num_sounds" validate:"gte=0"`
	NumPacks    int       `json:"num_packs" validate:"gte=0"`
	NumPosts    int       `json:"num_posts" validate:"gte=0"`
	NumComments int       `json:"num_comments" validate:"gte=0"`
	SoundsURL   string    `json:"sounds,omitempty"`
	PacksURL    string    `json:"packs,omitempty"`

	avatars map[string]string
}

// AvatarURL returns the avatar at the requested size, or "" when the user
// has none.
func (u User) AvatarURL(size AvatarSize) string {
	return u.avatars[string(size)]
}

func (u User) String() string {
	return fmt.Sprintf("User(%q, joined %s)", u.Username, u.DateJoined.Format(time.DateOnly))
}

// DecodeUser maps a user instance. The username and join date are required.
func DecodeUser(o Object) (User, error) {
	var (
		u   User
		err error
	)

	if u.Username, err = o.String("username"); err != nil {
		return User{}, err
	}
	if u.DateJoined, err = o.Time("date_joined"); err != nil {
		return User{}, err
	}

	strs := []struct {
		dst  *string
		name string
	}{
		{&u.URL, "url"},
		{&u.About, "about"},
		{&u.HomePage, "home_page"},
		{&u.SoundsURL, "sounds"},
		{&u.PacksURL, "packs"},
	}
	for _, f := range strs {
		if *f.dst, err = o.OptString(f.name); err != nil {
			return User{}, err
		}
	}

	ints := []struct {
		dst  *int
		name string
	}{
		{&u.NumSounds, "num_sounds"},
		{&u.NumPacks, "num_packs"},
		{&u.NumPosts, "num_posts"},
		{&u.NumComments, "num_comments"},
	}
	for _, f := range ints {
		if *f.dst, err = o.OptInt(f.name); err != nil {
			return User{}, err
		}
	}

	if u.avatars, err = o.OptStringMap("avatar"); err != nil {
		return User{}, err
	}

	if err := Validate(u); err != nil {
		return User{}, err
	}

	return u, nil
}
