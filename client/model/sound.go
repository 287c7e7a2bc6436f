package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Preview selects one of the encoded previews the API publishes per sound.
type Preview string

const (
	PreviewHQMP3 Preview = "preview-hq-mp3"
	PreviewLQMP3 Preview = "preview-lq-mp3"
	PreviewHQOGG Preview = "preview-hq-ogg"
	PreviewLQOGG Preview = "preview-lq-ogg"
)

// Image selects one of the rendered waveform or spectrogram images.
type Image string

const (
	ImageWaveformM   Image = "waveform_m"
	ImageWaveformL   Image = "waveform_l"
	ImageSpectralM   Image = "spectral_m"
	ImageSpectralL   Image = "spectral_l"
	ImageWaveformBWM Image = "waveform_bw_m"
	ImageWaveformBWL Image = "waveform_bw_l"
	ImageSpectralBWM Image = "spectral_bw_m"
	ImageSpectralBWL Image = "spectral_bw_l"
)

// Geotag is the location a sound was recorded at.
type Geotag struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (g Geotag) String() string {
	return fmt.Sprintf("%g %g", g.Lat, g.Lon)
}

// Sound is a read-only projection of a sound instance. Fields the request
// did not ask for (see request.WithFields) are left at their zero value.
type Sound struct {
	ID           int       `json:"id" validate:"gte=0"`
	URL          string    `json:"url,omitempty" validate:"omitempty,url"`
	Name         string    `json:"name,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Description  string    `json:"description,omitempty"`
	Created      time.Time `json:"created,omitzero"`
	License      string    `json:"license,omitempty"`
	Type         string    `json:"type,omitempty"`
	Channels     int       `json:"channels,omitempty" validate:"gte=0"`
	Filesize     int       `json:"filesize,omitempty" validate:"gte=0"`
	Bitrate      int       `json:"bitrate,omitempty" validate:"gte=0"`
	Bitdepth     int       `json:"bitdepth,omitempty" validate:"gte=0"`
	Duration     float64   `json:"duration,omitempty" validate:"gte=0"`
	Samplerate   float64   `json:"samplerate,omitempty" validate:"gte=0"`
	Username     string    `json:"username,omitempty"`
	Pack         string    `json:"pack,omitempty"`
	Download     string    `json:"download,omitempty"`
	NumDownloads int       `json:"num_downloads,omitempty" validate:"gte=0"`
	AvgRating    float64   `json:"avg_rating,omitempty" validate:"gte=0,lte=5"`
	NumRatings   int       `json:"num_ratings,omitempty" validate:"gte=0"`

	geotag   string
	previews map[string]string
	images   map[string]string
}

// PreviewURL returns the URL of the requested preview, or "" when the
// payload did not include it.
func (s Sound) PreviewURL(p Preview) string {
	return s.previews[string(p)]
}

// ImageURL returns the URL of the requested image, or "" when the payload
// did not include it.
func (s Sound) ImageURL(i Image) string {
	return s.images[string(i)]
}

// Geotag parses the recorded location. ok is false when the sound has no
// geotag or it is malformed.
func (s Sound) Geotag() (g Geotag, ok bool) {
	lat, lon, found := strings.Cut(strings.TrimSpace(s.geotag), " ")
	if !found {
		return Geotag{}, false
	}

	var err error
	if g.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return Geotag{}, false
	}
	if g.Lon, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return Geotag{}, false
	}

	return g, true
}

func (s Sound) String() string {
	return fmt.Sprintf("Sound(%d, %q)", s.ID, s.Name)
}

// DecodeSound maps a sound instance. The id and name are required.
func DecodeSound(o Object) (Sound, error) {
	s, err := soundFields(o, true)
	if err != nil {
		return Sound{}, err
	}
	if err := Validate(s); err != nil {
		return Sound{}, err
	}
	return s, nil
}

// decodePartialSound maps a sound from a list response, where the caller may
// have restricted the returned fields.
func decodePartialSound(o Object) (Sound, error) {
	s, err := soundFields(o, false)
	if err != nil {
		return Sound{}, err
	}
	if err := Validate(s); err != nil {
		return Sound{}, err
	}
	return s, nil
}

func soundFields(o Object, strict bool) (Sound, error) {
	var (
		s   Sound
		err error
	)

	if strict {
		if s.ID, err = o.Int("id"); err != nil {
			return Sound{}, err
		}
		if s.Name, err = o.String("name"); err != nil {
			return Sound{}, err
		}
	} else {
		if s.ID, err = o.OptInt("id"); err != nil {
			return Sound{}, err
		}
		if s.Name, err = o.OptString("name"); err != nil {
			return Sound{}, err
		}
	}

	strs := []struct {
		dst  *string
		name string
	}{
		{&s.URL, "url"},
		{&s.Description, "description"},
		{&s.License, "license"},
		{&s.Type, "type"},
		{&s.Username, "username"},
		{&s.Pack, "pack"},
		{&s.Download, "download"},
		{&s.geotag, "geotag"},
	}
	for _, f := range strs {
		if *f.dst, err = o.OptString(f.name); err != nil {
			return Sound{}, err
		}
	}

	ints := []struct {
		dst  *int
		name string
	}{
		{&s.Channels, "channels"},
		{&s.Filesize, "filesize"},
		{&s.Bitrate, "bitrate"},
		{&s.Bitdepth, "bitdepth"},
		{&s.NumDownloads, "num_downloads"},
		{&s.NumRatings, "num_ratings"},
	}
	for _, f := range ints {
		if *f.dst, err = o.OptInt(f.name); err != nil {
			return Sound{}, err
		}
	}

	floats := []struct {
		dst  *float64
		name string
	}{
		{&s.Duration, "duration"},
		{&s.Samplerate, "samplerate"},
		{&s.AvgRating, "avg_rating"},
	}
	for _, f := range floats {
		if *f.dst, err = o.OptFloat(f.name); err != nil {
			return Sound{}, err
		}
	}

	if s.Tags, err = o.OptStrings("tags"); err != nil {
		return Sound{}, err
	}
	if s.Created, err = o.OptTime("created"); err != nil {
		return Sound{}, err
	}
	if s.previews, err = o.OptStringMap("previews"); err != nil {
		return Sound{}, err
	}
	if s.images, err = o.OptStringMap("images"); err != nil {
		return Sound{}, err
	}

	return s, nil
}
