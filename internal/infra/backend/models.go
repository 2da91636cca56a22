package backend

import (
	"encoding/json"
	"time"

	"github.com/tunebox/tunebox/internal/domain/album"
	"github.com/tunebox/tunebox/internal/domain/artist"
	"github.com/tunebox/tunebox/internal/domain/playlist"
	"github.com/tunebox/tunebox/internal/domain/search"
	"github.com/tunebox/tunebox/internal/domain/track"
	"github.com/tunebox/tunebox/internal/domain/user"
)

// flexID accepts both string and numeric JSON IDs. The backend serves
// numeric IDs for its own records and string IDs for imported catalog data.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }

type wireImage struct {
	URL string `json:"url"`
}

func firstImageURL(images []wireImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

type wireUser struct {
	ID       flexID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (w *wireUser) toDomain() *user.User {
	return &user.User{
		ID:       w.ID.String(),
		Username: w.Username,
		Email:    w.Email,
	}
}

type wireArtist struct {
	ID        flexID      `json:"id"`
	Name      string      `json:"name"`
	Images    []wireImage `json:"images"`
	Genres    []string    `json:"genres"`
	Followers struct {
		Total int `json:"total"`
	} `json:"followers"`
}

func (w *wireArtist) toDomain() artist.Artist {
	return artist.Artist{
		ID:        w.ID.String(),
		Name:      w.Name,
		ImageURL:  firstImageURL(w.Images),
		Genres:    w.Genres,
		Followers: w.Followers.Total,
	}
}

type wireTrack struct {
	ID         flexID       `json:"id"`
	Name       string       `json:"name"`
	Title      string       `json:"title"` // backend-format alias for name
	Album      *wireAlbum   `json:"album"`
	Artists    []wireArtist `json:"artists"`
	ArtistName string       `json:"artistName"` // backend-format single artist
	DurationMS int64        `json:"duration_ms"`
	PreviewURL string       `json:"preview_url"`
}

func (w *wireTrack) toDomain() track.Track {
	t := track.Track{
		ID:         w.ID.String(),
		Name:       coalesce(w.Name, w.Title),
		DurationMS: w.DurationMS,
		PreviewURL: w.PreviewURL,
	}
	for _, a := range w.Artists {
		t.Artists = append(t.Artists, a.Name)
	}
	if len(t.Artists) == 0 && w.ArtistName != "" {
		t.Artists = []string{w.ArtistName}
	}
	if w.Album != nil {
		t.Album = track.AlbumRef{
			ID:   w.Album.ID.String(),
			Name: coalesce(w.Album.Name, w.Album.Title),
		}
	}
	return t
}

type wireAlbum struct {
	ID          flexID       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"` // backend-format alias for name
	Artists     []wireArtist `json:"artists"`
	ArtistID    flexID       `json:"artistId"`
	ArtistName  string       `json:"artistName"`
	Images      []wireImage  `json:"images"`
	ReleaseDate string       `json:"release_date"`
	Tracks      *struct {
		Items []wireTrack `json:"items"`
	} `json:"tracks"`
}

func (w *wireAlbum) toDomain() album.Album {
	a := album.Album{
		ID:          w.ID.String(),
		Title:       coalesce(w.Name, w.Title),
		ArtistID:    w.ArtistID.String(),
		ArtistName:  w.ArtistName,
		ImageURL:    firstImageURL(w.Images),
		ReleaseDate: w.ReleaseDate,
	}
	if a.ArtistName == "" && len(w.Artists) > 0 {
		a.ArtistName = w.Artists[0].Name
		a.ArtistID = w.Artists[0].ID.String()
	}
	if w.Tracks != nil {
		a.Tracks = make([]track.Track, 0, len(w.Tracks.Items))
		for _, wt := range w.Tracks.Items {
			a.Tracks = append(a.Tracks, wt.toDomain())
		}
	}
	return a
}

type wirePlaylistItem struct {
	AddedAt string    `json:"added_at"`
	Track   wireTrack `json:"track"`
}

type wirePlaylist struct {
	ID          flexID      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Images      []wireImage `json:"images"`
	Owner       *struct {
		ID          flexID `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Items  []wirePlaylistItem `json:"items"`
	Tracks *struct {
		Items []wirePlaylistItem `json:"items"`
	} `json:"tracks"`
}

func (w *wirePlaylist) toDomain() playlist.Playlist {
	p := playlist.Playlist{
		ID:          w.ID.String(),
		Name:        w.Name,
		Description: w.Description,
		ImageURL:    firstImageURL(w.Images),
	}
	if w.Owner != nil {
		p.OwnerID = w.Owner.ID.String()
		p.OwnerName = w.Owner.DisplayName
	}
	items := w.Items
	if len(items) == 0 && w.Tracks != nil {
		items = w.Tracks.Items
	}
	for _, it := range items {
		addedAt, _ := time.Parse(time.RFC3339, it.AddedAt)
		p.Items = append(p.Items, playlist.Item{
			AddedAt: addedAt,
			Track:   it.Track.toDomain(),
		})
	}
	return p
}

type wireSearchResults struct {
	Albums *struct {
		Items []wireAlbum `json:"items"`
	} `json:"albums"`
	Artists *struct {
		Items []wireArtist `json:"items"`
	} `json:"artists"`
	Playlists *struct {
		Items []wirePlaylist `json:"items"`
	} `json:"playlists"`
	Tracks *struct {
		Items []wireTrack `json:"items"`
	} `json:"tracks"`
}

func (w *wireSearchResults) toDomain() *search.Results {
	r := &search.Results{
		Albums:    []album.Album{},
		Artists:   []artist.Artist{},
		Playlists: []playlist.Playlist{},
		Tracks:    []track.Track{},
	}
	if w.Albums != nil {
		for _, wa := range w.Albums.Items {
			r.Albums = append(r.Albums, wa.toDomain())
		}
	}
	if w.Artists != nil {
		for _, wa := range w.Artists.Items {
			r.Artists = append(r.Artists, wa.toDomain())
		}
	}
	if w.Playlists != nil {
		for _, wp := range w.Playlists.Items {
			r.Playlists = append(r.Playlists, wp.toDomain())
		}
	}
	if w.Tracks != nil {
		for _, wt := range w.Tracks.Items {
			r.Tracks = append(r.Tracks, wt.toDomain())
		}
	}
	return r
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
