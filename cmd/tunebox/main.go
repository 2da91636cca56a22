// Package main provides the tunebox CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/app/catalog"
	"github.com/tunebox/tunebox/internal/app/library"
	"github.com/tunebox/tunebox/internal/app/playback"
	"github.com/tunebox/tunebox/internal/app/session"
	"github.com/tunebox/tunebox/internal/infra/audio"
	"github.com/tunebox/tunebox/internal/infra/backend"
	"github.com/tunebox/tunebox/internal/infra/config"
	"github.com/tunebox/tunebox/internal/infra/logger"
)

var (
	app        = kingpin.New("tunebox", "Terminal client for a self-hosted music streamer")
	configPath = app.Flag("config", "Path to config file").String()
	serverURL  = app.Flag("server", "Backend base URL (overrides config)").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	loginCmd  = app.Command("login", "Sign in to the backend")
	loginUser = loginCmd.Arg("username", "Username").Required().String()
	loginPass = loginCmd.Arg("password", "Password").Required().String()

	registerCmd   = app.Command("register", "Create an account and sign in")
	registerUser  = registerCmd.Arg("username", "Username").Required().String()
	registerPass  = registerCmd.Arg("password", "Password").Required().String()
	registerEmail = registerCmd.Arg("email", "Email (optional)").String()

	logoutCmd = app.Command("logout", "Sign out")
	whoamiCmd = app.Command("whoami", "Show the signed-in user")

	searchCmd   = app.Command("search", "Search the catalog")
	searchQuery = searchCmd.Arg("query", "Search query").Required().String()

	playlistsCmd = app.Command("playlists", "List your playlists")

	playlistCmd = app.Command("playlist", "Show a playlist")
	playlistID  = playlistCmd.Arg("id", "Playlist ID").Required().String()

	albumCmd = app.Command("album", "Show an album")
	albumID  = albumCmd.Arg("id", "Album ID").Required().String()

	artistCmd = app.Command("artist", "Show an artist")
	artistID  = artistCmd.Arg("id", "Artist ID").Required().String()

	libraryCmd = app.Command("library", "Manage library membership")

	libraryCheckCmd  = libraryCmd.Command("check", "Check whether an item is in your library")
	libraryCheckType = libraryCheckCmd.Arg("type", "Item type (album or playlist)").Required().Enum("album", "playlist")
	libraryCheckID   = libraryCheckCmd.Arg("id", "Item ID").Required().String()

	libraryToggleCmd  = libraryCmd.Command("toggle", "Toggle an item in or out of your library")
	libraryToggleType = libraryToggleCmd.Arg("type", "Item type (album or playlist)").Required().Enum("album", "playlist")
	libraryToggleID   = libraryToggleCmd.Arg("id", "Item ID").Required().String()

	likedCmd = app.Command("liked", "List your liked tracks")

	likeCmd     = app.Command("like", "Like a track")
	likeTrackID = likeCmd.Arg("track-id", "Track ID").Required().String()

	unlikeCmd     = app.Command("unlike", "Unlike a track")
	unlikeTrackID = unlikeCmd.Arg("track-id", "Track ID").Required().String()

	playCmd     = app.Command("play", "Play a track preview")
	playTrackID = playCmd.Arg("track-id", "Track ID").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.API.BaseURL = *serverURL
	}

	logLevel := cfg.Log.Level
	if *verbose {
		logLevel = "debug"
	}
	if err := logger.Init(logger.Config{Output: cfg.Log.Output, Level: logLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(command, cfg); err != nil {
		zlog.Error().Msgf("%v", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.Load(*configPath)
	}
	return config.Default()
}

func run(command string, cfg *config.Config) error {
	client, err := backend.New(backend.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout(),
		MaxRetries: cfg.API.MaxRetries,
	})
	if err != nil {
		return err
	}

	cookiePath, err := cookieFilePath()
	if err != nil {
		return err
	}
	if err := client.LoadCookies(cookiePath); err != nil {
		zlog.Warn().Msgf("failed to load session cookies: %v", err)
	}
	client.SetUnauthorizedHook(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run 'tunebox login' to sign in again.")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(client)
	catalogStore := catalog.NewStore(client)
	memberships := library.NewRegistry(client, sessions)

	switch command {
	case loginCmd.FullCommand():
		return login(ctx, sessions, client, cookiePath, *loginUser, *loginPass, false, "")
	case registerCmd.FullCommand():
		return login(ctx, sessions, client, cookiePath, *registerUser, *registerPass, true, *registerEmail)
	case logoutCmd.FullCommand():
		sessions.Logout(ctx)
		if err := backend.ClearCookies(cookiePath); err != nil {
			zlog.Warn().Msgf("failed to clear session cookies: %v", err)
		}
		fmt.Println("Signed out.")
		return nil
	case whoamiCmd.FullCommand():
		return whoami(ctx, sessions)
	case searchCmd.FullCommand():
		return runSearch(ctx, catalogStore, *searchQuery)
	case playlistsCmd.FullCommand():
		return listPlaylists(ctx, catalogStore)
	case playlistCmd.FullCommand():
		return showPlaylist(ctx, client, *playlistID)
	case albumCmd.FullCommand():
		return showAlbum(ctx, client, *albumID)
	case artistCmd.FullCommand():
		return showArtist(ctx, client, *artistID)
	case libraryCheckCmd.FullCommand():
		return checkMembership(ctx, sessions, memberships, *libraryCheckType, *libraryCheckID)
	case libraryToggleCmd.FullCommand():
		return toggleMembership(ctx, sessions, memberships, *libraryToggleType, *libraryToggleID)
	case likedCmd.FullCommand():
		return listLiked(ctx, client)
	case likeCmd.FullCommand():
		return client.LikeTrack(ctx, *likeTrackID)
	case unlikeCmd.FullCommand():
		return client.UnlikeTrack(ctx, *unlikeTrackID)
	case playCmd.FullCommand():
		return play(ctx, client, cfg, *playTrackID)
	}
	return nil
}

func cookieFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tunebox", "cookies.json"), nil
}

func login(ctx context.Context, sessions *session.Store, client *backend.Client, cookiePath, username, password string, register bool, email string) error {
	var ok bool
	if register {
		ok = sessions.Register(ctx, username, password, email)
	} else {
		ok = sessions.Login(ctx, username, password)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, sessions.Err())
		os.Exit(1)
	}
	if err := client.SaveCookies(cookiePath); err != nil {
		zlog.Warn().Msgf("failed to save session cookies: %v", err)
	}
	u := sessions.User()
	fmt.Printf("Signed in as %s\n", u.Username)
	return nil
}

func whoami(ctx context.Context, sessions *session.Store) error {
	sessions.Probe(ctx)
	if !sessions.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	u := sessions.User()
	if u.Email != "" {
		fmt.Printf("%s <%s> (id %s)\n", u.Username, u.Email, u.ID)
	} else {
		fmt.Printf("%s (id %s)\n", u.Username, u.ID)
	}
	return nil
}

func runSearch(ctx context.Context, store *catalog.Store, query string) error {
	store.Search(ctx, query)
	if msg := store.Err(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}

	results := store.Results()
	if results == nil || results.IsEmpty() {
		fmt.Printf("No results for %q.\n", query)
		return nil
	}

	if len(results.Tracks) > 0 {
		fmt.Println("Tracks:")
		for _, t := range results.Tracks {
			marker := " "
			if t.HasPreview() {
				marker = "*"
			}
			fmt.Printf("  %s %-22s  %s — %s\n", marker, t.ID, t.Name, t.ArtistLine())
		}
	}
	if len(results.Albums) > 0 {
		fmt.Println("Albums:")
		for _, a := range results.Albums {
			fmt.Printf("    %-22s  %s — %s\n", a.ID, a.Title, a.ArtistName)
		}
	}
	if len(results.Artists) > 0 {
		fmt.Println("Artists:")
		for _, a := range results.Artists {
			fmt.Printf("    %-22s  %s\n", a.ID, a.Name)
		}
	}
	if len(results.Playlists) > 0 {
		fmt.Println("Playlists:")
		for _, p := range results.Playlists {
			fmt.Printf("    %-22s  %s\n", p.ID, p.Name)
		}
	}
	return nil
}

func listPlaylists(ctx context.Context, store *catalog.Store) error {
	store.FetchPlaylists(ctx)
	if msg := store.Err(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
	playlists := store.Playlists()
	if len(playlists) == 0 {
		fmt.Println("No playlists.")
		return nil
	}
	for _, p := range playlists {
		fmt.Printf("%-22s  %s\n", p.ID, p.Name)
	}
	return nil
}

func showPlaylist(ctx context.Context, client *backend.Client, id string) error {
	p, err := client.Playlist(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s — %d tracks, %s\n", p.Name, len(p.Items), formatDuration(p.TotalDuration()))
	for _, it := range p.Items {
		fmt.Printf("  %-22s  %s — %s\n", it.Track.ID, it.Track.Name, it.Track.ArtistLine())
	}
	return nil
}

func showAlbum(ctx context.Context, client *backend.Client, id string) error {
	a, err := client.Album(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s — %s (%s)\n", a.Title, a.ArtistName, a.ReleaseDate)
	for _, t := range a.Tracks {
		fmt.Printf("  %-22s  %s\n", t.ID, t.Name)
	}
	return nil
}

func showArtist(ctx context.Context, client *backend.Client, id string) error {
	a, err := client.Artist(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s", a.Name)
	if len(a.Genres) > 0 {
		fmt.Printf(" — %v", a.Genres)
	}
	if a.Followers > 0 {
		fmt.Printf(" — %d followers", a.Followers)
	}
	fmt.Println()
	return nil
}

func checkMembership(ctx context.Context, sessions *session.Store, memberships *library.Registry, itemType, id string) error {
	sessions.Probe(ctx)
	m := memberships.Membership(library.ItemType(itemType), id)
	m.Refresh(ctx)
	if m.IsMember() {
		fmt.Printf("%s %s is in your library.\n", itemType, id)
	} else {
		fmt.Printf("%s %s is not in your library.\n", itemType, id)
	}
	return nil
}

func toggleMembership(ctx context.Context, sessions *session.Store, memberships *library.Registry, itemType, id string) error {
	sessions.Probe(ctx)
	m := memberships.Membership(library.ItemType(itemType), id)
	m.Refresh(ctx)
	if !m.Toggle(ctx) {
		fmt.Fprintln(os.Stderr, "Toggle not issued. Are you signed in?")
		os.Exit(1)
	}
	if m.IsMember() {
		fmt.Printf("Added %s %s to your library.\n", itemType, id)
	} else {
		fmt.Printf("Removed %s %s from your library.\n", itemType, id)
	}
	return nil
}

func listLiked(ctx context.Context, client *backend.Client) error {
	tracks, err := client.LikedTracks(ctx)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Println("No liked tracks.")
		return nil
	}
	for _, t := range tracks {
		fmt.Printf("%-22s  %s — %s\n", t.ID, t.Name, t.ArtistLine())
	}
	return nil
}

func play(ctx context.Context, client *backend.Client, cfg *config.Config, trackID string) error {
	t, err := client.Track(ctx, trackID)
	if err != nil {
		return err
	}
	if !t.HasPreview() {
		fmt.Printf("%s has no preview to play.\n", t.Name)
		return nil
	}

	newSource, err := audio.NewSourceFactory(cfg.Audio)
	if err != nil {
		return err
	}

	controller := playback.NewController(newSource, playback.Config{
		Autoplay: cfg.Audio.AutoplayEnabled(),
	})
	defer controller.Close()

	if err := controller.Load(*t); err != nil {
		return err
	}
	if !cfg.Audio.AutoplayEnabled() {
		// An explicit play command always starts playback; the source
		// honors the request once it is ready.
		if err := controller.Play(); err != nil {
			return err
		}
	}
	fmt.Printf("Playing %s — %s\n", t.Name, t.ArtistLine())

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case ev := <-controller.Events():
			switch ev.Type {
			case playback.EventProgress:
				snap := controller.Snapshot()
				fmt.Printf("\r  %5.1fs / %5.1fs  [%5.1f%%]", snap.ElapsedSeconds, snap.DurationSeconds, snap.SliderPercent)
			case playback.EventTrackEnded:
				fmt.Println("\nDone.")
				return nil
			case playback.EventPlaybackFailed:
				fmt.Println()
				return ev.Err
			}
		}
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
