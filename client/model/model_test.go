package model_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamwoolhether/freesound/client/model"
	"github.com/google/go-cmp/cmp"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("..", "testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return b
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expErr bool
	}{
		{name: "object", input: `{"id": 1}`},
		{name: "object with trailing space", input: "{\"id\": 1}\n  "},
		{name: "array", input: `[1, 2]`, expErr: true},
		{name: "scalar", input: `"x"`, expErr: true},
		{name: "malformed", input: `{"id":`, expErr: true},
		{name: "trailing data", input: `{"id": 1} {"id": 2}`, expErr: true},
		{name: "empty", input: ``, expErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.Parse([]byte(tc.input))
			if tc.expErr {
				if !errors.Is(err, model.ErrDecode) {
					t.Errorf("exp ErrDecode, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
		})
	}
}

func TestObject_Getters(t *testing.T) {
	obj, err := model.Parse([]byte(`{
		"s": "str",
		"n": 42,
		"big": 9007199254740993,
		"f": 1.5,
		"b": true,
		"null": null,
		"tags": ["a", "b"],
		"mixed": ["a", 1],
		"m": {"k": "v"},
		"when": "2015-05-07T19:09:17.983879"
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if s, err := obj.String("s"); err != nil || s != "str" {
		t.Errorf("String: got %q, %v", s, err)
	}
	if n, err := obj.Int("n"); err != nil || n != 42 {
		t.Errorf("Int: got %d, %v", n, err)
	}
	if n, err := obj.Int("big"); err != nil || n != 9007199254740993 {
		t.Errorf("Int big: got %d, %v", n, err)
	}
	if f, err := obj.Float("f"); err != nil || f != 1.5 {
		t.Errorf("Float: got %v, %v", f, err)
	}
	if f, err := obj.Float("n"); err != nil || f != 42 {
		t.Errorf("Float from int: got %v, %v", f, err)
	}
	if b, err := obj.Bool("b"); err != nil || !b {
		t.Errorf("Bool: got %v, %v", b, err)
	}
	if s, err := obj.OptString("null"); err != nil || s != "" {
		t.Errorf("OptString null: got %q, %v", s, err)
	}
	if n, err := obj.OptInt("absent"); err != nil || n != 0 {
		t.Errorf("OptInt absent: got %d, %v", n, err)
	}

	tags, err := obj.OptStrings("tags")
	if err != nil {
		t.Fatalf("OptStrings: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, tags); diff != "" {
		t.Errorf("tags mismatch (-exp +got):\n%s", diff)
	}

	m, err := obj.OptStringMap("m")
	if err != nil {
		t.Fatalf("OptStringMap: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"k": "v"}, m); diff != "" {
		t.Errorf("map mismatch (-exp +got):\n%s", diff)
	}

	when, err := obj.Time("when")
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if exp := time.Date(2015, 5, 7, 19, 9, 17, 983879000, time.UTC); !when.Equal(exp) {
		t.Errorf("exp %v, got %v", exp, when)
	}

	failures := []struct {
		name   string
		fn     func() error
		field  string
		expErr error
	}{
		{"missing string", func() error { _, err := obj.String("absent"); return err }, "absent", model.ErrMissingField},
		{"null required", func() error { _, err := obj.Int("null"); return err }, "null", model.ErrMissingField},
		{"string as int", func() error { _, err := obj.Int("s"); return err }, "s", model.ErrWrongType},
		{"float as int", func() error { _, err := obj.Int("f"); return err }, "f", model.ErrWrongType},
		{"int as string", func() error { _, err := obj.String("n"); return err }, "n", model.ErrWrongType},
		{"bool as float", func() error { _, err := obj.Float("b"); return err }, "b", model.ErrWrongType},
		{"mixed array", func() error { _, err := obj.OptStrings("mixed"); return err }, "mixed[1]", model.ErrWrongType},
		{"bad time", func() error { _, err := obj.Time("s"); return err }, "s", model.ErrWrongType},
		{"objects of strings", func() error { _, err := obj.Objects("tags"); return err }, "tags[0]", model.ErrWrongType},
		{"object from string", func() error { _, err := obj.Object("s"); return err }, "s", model.ErrWrongType},
	}

	for _, f := range failures {
		t.Run(f.name, func(t *testing.T) {
			err := f.fn()
			if !errors.Is(err, model.ErrDecode) || !errors.Is(err, f.expErr) {
				t.Fatalf("exp ErrDecode and %v, got: %v", f.expErr, err)
			}

			var de *model.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("exp *DecodeError, got %T", err)
			}
			if de.Field != f.field {
				t.Errorf("exp field %q, got %q", f.field, de.Field)
			}
		})
	}
}

func TestDecodeSound(t *testing.T) {
	s, err := model.Decode(fixture(t, "sound_81189.json"), model.DecodeSound)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if s.ID != 81189 {
		t.Errorf("exp id 81189, got %d", s.ID)
	}
	if s.Name != "Brunswiek.wav" {
		t.Errorf("exp name Brunswiek.wav, got %q", s.Name)
	}
	if s.Channels != 2 || s.Bitdepth != 16 || s.Samplerate != 44100 {
		t.Errorf("unexpected audio fields: %+v", s)
	}
	if exp := time.Date(2009, 10, 15, 12, 40, 3, 104000000, time.UTC); !s.Created.Equal(exp) {
		t.Errorf("exp created %v, got %v", exp, s.Created)
	}

	if got := s.PreviewURL(model.PreviewHQMP3); got != "https://cdn.freesound.org/previews/81/81189_260-hq.mp3" {
		t.Errorf("unexpected hq mp3 preview: %q", got)
	}
	if got := s.ImageURL(model.ImageWaveformL); got != "https://cdn.freesound.org/displays/81/81189_260_wave_L.png" {
		t.Errorf("unexpected waveform image: %q", got)
	}
	if got := s.ImageURL(model.ImageSpectralBWM); got != "" {
		t.Errorf("exp empty url for absent image, got %q", got)
	}

	g, ok := s.Geotag()
	if !ok {
		t.Fatal("exp geotag")
	}
	if diff := cmp.Diff(model.Geotag{Lat: 52.2629, Lon: 10.5215}, g); diff != "" {
		t.Errorf("geotag mismatch (-exp +got):\n%s", diff)
	}
}

func TestDecodeSound_NullGeotag(t *testing.T) {
	s, err := model.Decode(fixture(t, "sound_1234.json"), model.DecodeSound)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if _, ok := s.Geotag(); ok {
		t.Error("exp no geotag")
	}
	if s.Pack != "" {
		t.Errorf("exp empty pack, got %q", s.Pack)
	}
	if s.Description != "Traveling drum sound" {
		t.Errorf("unexpected description %q", s.Description)
	}
}

func TestDecodeSound_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		field  string
		expErr error
	}{
		{
			name:   "missing id",
			input:  `{"name": "x.wav"}`,
			field:  "id",
			expErr: model.ErrMissingField,
		},
		{
			name:   "missing name",
			input:  `{"id": 1}`,
			field:  "name",
			expErr: model.ErrMissingField,
		},
		{
			name:   "id as string",
			input:  `{"id": "1", "name": "x.wav"}`,
			field:  "id",
			expErr: model.ErrWrongType,
		},
		{
			name:   "tags not array",
			input:  `{"id": 1, "name": "x.wav", "tags": "a,b"}`,
			field:  "tags",
			expErr: model.ErrWrongType,
		},
		{
			name:   "preview not string",
			input:  `{"id": 1, "name": "x.wav", "previews": {"preview-hq-mp3": 3}}`,
			field:  "previews.preview-hq-mp3",
			expErr: model.ErrWrongType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.Decode([]byte(tc.input), model.DecodeSound)
			if !errors.Is(err, tc.expErr) {
				t.Fatalf("exp %v, got: %v", tc.expErr, err)
			}

			var de *model.DecodeError
			if !errors.As(err, &de) || de.Field != tc.field {
				t.Errorf("exp field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestDecodeSound_Validation(t *testing.T) {
	_, err := model.Decode([]byte(`{"id": 1, "name": "x", "avg_rating": 7.5, "channels": -1}`), model.DecodeSound)
	if !errors.Is(err, model.ErrDecode) {
		t.Fatalf("exp ErrDecode, got: %v", err)
	}

	var fe model.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("exp FieldErrors, got %T: %v", err, err)
	}

	fields := fe.Fields()
	if _, ok := fields["avg_rating"]; !ok {
		t.Errorf("exp avg_rating failure, got %v", fields)
	}
	if _, ok := fields["channels"]; !ok {
		t.Errorf("exp channels failure, got %v", fields)
	}
}

func TestDecodeUser(t *testing.T) {
	u, err := model.Decode(fixture(t, "user_michalwa2003.json"), model.DecodeUser)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if u.Username != "michalwa2003" {
		t.Errorf("exp username michalwa2003, got %q", u.Username)
	}
	if exp := time.Date(2015, 5, 7, 19, 9, 17, 983879000, time.UTC); !u.DateJoined.Equal(exp) {
		t.Errorf("exp date joined %v, got %v", exp, u.DateJoined)
	}
	if u.HomePage != "" {
		t.Errorf("exp empty home page, got %q", u.HomePage)
	}
	if got := u.AvatarURL(model.AvatarLarge); got != "https://freesound.org/static/bw2_images/avatar_l.png" {
		t.Errorf("unexpected avatar: %q", got)
	}
}

func TestDecodeUser_MissingUsername(t *testing.T) {
	_, err := model.Decode([]byte(`{"date_joined": "2015-05-07T19:09:17"}`), model.DecodeUser)
	if !errors.Is(err, model.ErrMissingField) {
		t.Fatalf("exp ErrMissingField, got: %v", err)
	}
}

func TestDecodeUser_EmptyUsername(t *testing.T) {
	_, err := model.Decode([]byte(`{"username": "", "date_joined": "2015-05-07T19:09:17"}`), model.DecodeUser)

	var fe model.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("exp FieldErrors, got: %v", err)
	}
	if got := fe.Fields()["username"]; got != "This field is required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestDecodePack(t *testing.T) {
	p, err := model.Decode(fixture(t, "pack_9678.json"), model.DecodePack)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	exp := model.Pack{
		ID:           9678,
		URL:          "https://freesound.org/people/Robinhood76/packs/9678/",
		Name:         "Zoo",
		Description:  "Animal sounds recorded at the zoo.",
		Created:      time.Date(2011, 11, 30, 12, 3, 59, 432000000, time.UTC),
		Username:     "Robinhood76",
		NumSounds:    14,
		NumDownloads: 2213,
		SoundsURL:    "https://freesound.org/apiv2/packs/9678/sounds/",
	}
	if diff := cmp.Diff(exp, p); diff != "" {
		t.Errorf("pack mismatch (-exp +got):\n%s", diff)
	}
}

func TestDecodeSoundPage(t *testing.T) {
	p, err := model.Decode(fixture(t, "similar_1234.json"), model.DecodeSoundPage)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if p.Count != 3 || len(p.Results) != 3 {
		t.Fatalf("exp 3 results, got count=%d len=%d", p.Count, len(p.Results))
	}
	if p.HasNext() {
		t.Error("exp no next page")
	}

	var ids []int
	for _, s := range p.Results {
		ids = append(ids, s.ID)
	}
	if diff := cmp.Diff([]int{1235, 40211, 77123}, ids); diff != "" {
		t.Errorf("ids mismatch (-exp +got):\n%s", diff)
	}
}

func TestDecodeSoundPage_PartialFields(t *testing.T) {
	p, err := model.Decode(fixture(t, "search_text.json"), model.DecodeSoundPage)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := p.Results[0].Name; got != "01-bottle-water-sparkle.flac" {
		t.Errorf("unexpected first name %q", got)
	}
	if p.Results[0].ID != 0 {
		t.Errorf("exp zero id for unselected field, got %d", p.Results[0].ID)
	}
	if !p.HasNext() {
		t.Error("exp next page")
	}
}

func TestDecodeSoundPage_MalformedElementFailsWhole(t *testing.T) {
	input := `{"count": 2, "results": [{"id": 1, "name": "ok"}, {"id": "two", "name": "bad"}]}`

	p, err := model.Decode([]byte(input), model.DecodeSoundPage)
	if !errors.Is(err, model.ErrWrongType) {
		t.Fatalf("exp ErrWrongType, got: %v", err)
	}
	if p.Results != nil {
		t.Errorf("exp no partial results, got %v", p.Results)
	}

	var de *model.DecodeError
	if !errors.As(err, &de) || de.Field != "results[1].id" {
		t.Errorf("exp field results[1].id, got %v", err)
	}
}

func TestDecodeSoundPage_MissingResults(t *testing.T) {
	_, err := model.Decode([]byte(`{"count": 0}`), model.DecodeSoundPage)
	if !errors.Is(err, model.ErrMissingField) {
		t.Fatalf("exp ErrMissingField, got: %v", err)
	}
}

func TestDecodePackPage(t *testing.T) {
	p, err := model.Decode(fixture(t, "user_packs_michalwa2003.json"), model.DecodePackPage)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Results) != 1 || p.Results[0].Name != "Zoo" {
		t.Errorf("unexpected packs: %v", p.Results)
	}
}

func TestDecodeObject_PassThrough(t *testing.T) {
	obj, err := model.Decode(fixture(t, "sound_1234.json"), model.DecodeObject)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if id, err := obj.Int("id"); err != nil || id != 1234 {
		t.Errorf("exp id 1234, got %d, %v", id, err)
	}
	if name, _ := obj.String("name"); name != "180404D.mp3" {
		t.Errorf("exp name 180404D.mp3, got %q", name)
	}
}
