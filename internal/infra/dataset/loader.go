// Package dataset loads conversation inputs from a local JSON dataset.
package dataset

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/domain/profile"
	"github.com/osa030/duetgen/internal/domain/track"
)

// ErrUserNotFound is returned when a requested user is absent from users.json.
var ErrUserNotFound = errors.New("user not found in dataset")

// User is one listener record from users.json.
type User struct {
	ID                string   `json:"id"`
	AgeGroup          string   `json:"age_group"`
	Country           string   `json:"country"`
	Gender            string   `json:"gender"`
	PreferredLanguage string   `json:"preferred_language"`
	LikedTrackIDs     []string `json:"liked_track_ids"`
	PoolTrackIDs      []string `json:"pool_track_ids"`
}

// Demographics maps the user record to the domain demographic inputs.
func (u User) Demographics() profile.Demographics {
	return profile.Demographics{
		AgeGroup:          u.AgeGroup,
		Country:           u.Country,
		Gender:            u.Gender,
		PreferredLanguage: u.PreferredLanguage,
	}
}

type trackRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	Album     string   `json:"album"`
	Tags      []string `json:"tags"`
	Lyrics    string   `json:"lyrics"`
	AudioPath string   `json:"audio_path"`
	ImagePath string   `json:"image_path"`
}

// Dataset is a loaded users.json plus tracks.json pair.
type Dataset struct {
	users  []User
	tracks map[string]track.Track
}

// Load reads users.json and tracks.json from dir.
func Load(dir string) (*Dataset, error) {
	var users []User
	if err := readJSON(filepath.Join(dir, "users.json"), &users); err != nil {
		return nil, err
	}

	var records []trackRecord
	if err := readJSON(filepath.Join(dir, "tracks.json"), &records); err != nil {
		return nil, err
	}

	tracks := make(map[string]track.Track, len(records))
	for _, r := range records {
		if _, ok := tracks[r.ID]; ok {
			zlog.Warn().Msgf("duplicate track id in dataset, keeping first: %s", r.ID)
			continue
		}
		tracks[r.ID] = track.Track{
			ID:        r.ID,
			Title:     r.Title,
			Artist:    r.Artist,
			Album:     r.Album,
			Tags:      r.Tags,
			Lyrics:    r.Lyrics,
			AudioPath: r.AudioPath,
			ImagePath: r.ImagePath,
		}
	}

	zlog.Info().Msgf("dataset loaded: users=%d tracks=%d dir=%s", len(users), len(tracks), dir)
	return &Dataset{users: users, tracks: tracks}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to parse %s", filepath.Base(path))
	}
	return nil
}

// Users returns all user records in file order.
func (d *Dataset) Users() []User {
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// User returns the record with the given ID.
func (d *Dataset) User(id string) (User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, errors.Wrapf(ErrUserNotFound, "id %s", id)
}

// LikedTracks resolves a user's liked track IDs. Unknown IDs are logged
// and skipped.
func (d *Dataset) LikedTracks(u User) []track.Track {
	return d.resolve(u.ID, u.LikedTrackIDs)
}

// PoolTracks resolves a user's recommendation pool IDs. Unknown IDs are
// logged and skipped.
func (d *Dataset) PoolTracks(u User) []track.Track {
	return d.resolve(u.ID, u.PoolTrackIDs)
}

func (d *Dataset) resolve(userID string, ids []string) []track.Track {
	out := make([]track.Track, 0, len(ids))
	for _, id := range ids {
		t, ok := d.tracks[id]
		if !ok {
			zlog.Warn().Msgf("unknown track id referenced by user, skipping: user=%s track=%s", userID, id)
			continue
		}
		out = append(out, t)
	}
	return out
}
