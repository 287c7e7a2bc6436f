package model

import (
	"fmt"
	"time"
)

// Pack is a read-only projection of a pack instance.
type Pack struct {
	ID           int       `json:"id" validate:"gte=0"`
	URL          string    `json:"url,omitempty" validate:"omitempty,url"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Created      time.Time `json:"created,omitzero"`
	Username     string    `json:"username,omitempty"`
	NumSounds    int       `json:"num_sounds" validate:"gte=0"`
	NumDownloads int       `json:"num_downloads" validate:"gte=0"`
	SoundsURL    string    `json:"sounds,omitempty"`
}

func (p Pack) String() string {
	return fmt.Sprintf("Pack(%d, %q, %d sounds)", p.ID, p.Name, p.NumSounds)
}

// DecodePack maps a pack instance. The id and name are required.
func DecodePack(o Object) (Pack, error) {
	var (
		p   Pack
		err error
	)

	if p.ID, err = o.Int("id"); err != nil {
		return Pack{}, err
	}
	if p.Name, err = o.String("name"); err != nil {
		return Pack{}, err
	}

	return packRest(o, p)
}

func decodePartialPack(o Object) (Pack, error) {
	var (
		p   Pack
		err error
	)

	if p.ID, err = o.OptInt("id"); err != nil {
		return Pack{}, err
	}
	if p.Name, err = o.OptString("name"); err != nil {
		return Pack{}, err
	}

	return packRest(o, p)
}

func packRest(o Object, p Pack) (Pack, error) {
	var err error

	if p.URL, err = o.OptString("url"); err != nil {
		return Pack{}, err
	}
	if p.Description, err = o.OptString("description"); err != nil {
		return Pack{}, err
	}
	if p.Username, err = o.OptString("username"); err != nil {
		return Pack{}, err
	}
	if p.SoundsURL, err = o.OptString("sounds"); err != nil {
		return Pack{}, err
	}
	if p.Created, err = o.OptTime("created"); err != nil {
		return Pack{}, err
	}
	if p.NumSounds, err = o.OptInt("num_sounds"); err != nil {
		return Pack{}, err
	}
	if p.NumDownloads, err = o.OptInt("num_downloads"); err != nil {
		return Pack{}, err
	}

	if err := Validate(p); err != nil {
		return Pack{}, err
	}

	return p, nil
}
