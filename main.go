package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vjsonic/sonic/internal/catalog"
	"github.com/vjsonic/sonic/internal/config"
	"github.com/vjsonic/sonic/internal/errmsg"
	"github.com/vjsonic/sonic/internal/history"
	"github.com/vjsonic/sonic/internal/mpris"
	"github.com/vjsonic/sonic/internal/notify"
	"github.com/vjsonic/sonic/internal/playback"
	"github.com/vjsonic/sonic/internal/player"
	"github.com/vjsonic/sonic/internal/playlists"
	"github.com/vjsonic/sonic/internal/session"
	"github.com/vjsonic/sonic/internal/store"
)

type app struct {
	cfg       *config.Config
	store     *store.Store
	sessions  *session.Manager
	playlists *playlists.Manager
	history   *history.Tracker
	catalog   *catalog.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var st *store.Store
	if cfg.DataDir != "" {
		st, err = store.OpenPath(filepath.Join(cfg.DataDir, "sonic.db"))
	} else {
		st, err = store.Open()
	}
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		store:     st,
		sessions:  session.New(st),
		playlists: playlists.New(st),
		history:   history.New(st),
		catalog:   catalog.NewClient(cfg.APIBaseURL),
	}, nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
	defer a.store.Close()

	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: sonic <command> [args]

  signup <username> <password>      create an account and log in
  login <username> <password>       log in
  logout                            log out
  whoami                            show the current user
  delete-account                    delete the current user and data
  search <query>                    search the song catalog
  play <query>                      play search results as a queue
  playlists                         list your playlists
  playlist create <name>            create an empty playlist
  playlist show <id>                show a playlist
  playlist rename <id> <name>       rename a playlist
  playlist delete <id>              delete a playlist
  playlist add <id> <query>         add the top search hit
  playlist remove <id> <song-id>    remove a song
  recent                            show recently played`)
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "signup":
		return a.signup(args)
	case "login":
		return a.login(args)
	case "logout":
		if err := a.sessions.Logout(); err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpLogout, err))
		}
		return nil
	case "whoami":
		return a.whoami()
	case "delete-account":
		return a.deleteAccount()
	case "search":
		return a.search(args)
	case "play":
		return a.play(args)
	case "playlists":
		return a.listPlaylists()
	case "playlist":
		return a.playlist(args)
	case "recent":
		return a.recent()
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) signup(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: sonic signup <username> <password>")
	}
	user, err := a.sessions.Create(args[0], args[1])
	if err != nil {
		return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpSignup, args[0], err))
	}
	fmt.Printf("Welcome, %s\n", user.Username)
	return nil
}

func (a *app) login(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: sonic login <username> <password>")
	}
	user, err := a.sessions.Login(args[0], args[1])
	if err != nil {
		return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpLogin, args[0], err))
	}
	fmt.Printf("Logged in as %s\n", user.Username)
	return nil
}

func (a *app) whoami() error {
	user, err := a.sessions.Current()
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Println(user.Username)
	return nil
}

func (a *app) deleteAccount() error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}
	if err := a.sessions.Delete(user.ID); err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpUserDelete, err))
	}
	fmt.Printf("Deleted account %s\n", user.Username)
	return nil
}

func (a *app) search(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: sonic search <query>")
	}
	songs, err := a.catalog.SearchSongs(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearch, err))
	}
	for _, s := range songs {
		fmt.Printf("%-16s %s — %s (%s)\n", s.ID, s.Name, s.PrimaryArtist(), formatDuration(s.Duration))
	}
	return nil
}

func (a *app) play(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: sonic play <query>")
	}
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	songs, err := a.catalog.SearchSongs(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearch, err))
	}
	if len(songs) == 0 {
		return fmt.Errorf("no songs found")
	}

	engine, err := player.NewEngine()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}
	defer engine.Close()

	svc := playback.New(engine, a.history)
	defer svc.Close()
	svc.SetUser(user.ID)

	bridge, err := mpris.New(svc)
	if err == nil {
		defer bridge.Close()
	}

	// Degrades to a no-op when the session bus is unavailable.
	notifier, _ := notify.New()
	var notifyID uint32

	sub := svc.Subscribe()

	if err := svc.Play(songs[0], songs, 0); err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaybackStart, err))
	}
	printNowPlaying(songs[0])
	notifyID, _ = notifier.Notify(notify.NowPlaying(songs[0], notifyID))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return svc.Stop()
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				printNowPlaying(*e.Current)
				notifyID, _ = notifier.Notify(notify.NowPlaying(*e.Current, notifyID))
			}
		case e := <-sub.Error:
			fmt.Fprintf(os.Stderr, "playback error (%s): %v\n", e.Operation, e.Err)
		case e := <-sub.StateChanged:
			// Queue exhausted: the coordinator parks on the last track
			if e.Current == playback.StatePaused && !svc.IsPlaying() && !svc.CanGoNext() {
				return nil
			}
		case <-sub.Done:
			return nil
		}
	}
}

func (a *app) listPlaylists() error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}
	lists, err := a.playlists.ListByOwner(user.ID)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistList, err))
	}
	for _, pl := range lists {
		fmt.Printf("%-36s %s (%d songs)\n", pl.ID, pl.Name, len(pl.Songs))
	}
	return nil
}

func (a *app) playlist(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sonic playlist <create|show|rename|delete|add|remove> ...")
	}
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "create":
		if len(rest) < 1 {
			return fmt.Errorf("usage: sonic playlist create <name>")
		}
		id, err := a.playlists.Create(user.ID, strings.Join(rest, " "), nil)
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistCreate, err))
		}
		fmt.Println(id)
		return nil
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("usage: sonic playlist show <id>")
		}
		pl, err := a.playlists.Get(user.ID, rest[0])
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistList, err))
		}
		fmt.Printf("%s\n", pl.Name)
		for i, s := range pl.Songs {
			fmt.Printf("%3d. %-16s %s — %s\n", i+1, s.ID, s.Name, s.PrimaryArtist())
		}
		return nil
	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("usage: sonic playlist rename <id> <name>")
		}
		err := a.playlists.Rename(user.ID, rest[0], strings.Join(rest[1:], " "))
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistRename, err))
		}
		return nil
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: sonic playlist delete <id>")
		}
		if err := a.playlists.Delete(user.ID, rest[0]); err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistDelete, err))
		}
		return nil
	case "add":
		if len(rest) < 2 {
			return fmt.Errorf("usage: sonic playlist add <id> <query>")
		}
		songs, err := a.catalog.SearchSongs(strings.Join(rest[1:], " "))
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearch, err))
		}
		if len(songs) == 0 {
			return fmt.Errorf("no songs found")
		}
		if err := a.playlists.AddSong(user.ID, rest[0], songs[0]); err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpPlaylistAddSong, songs[0].Name, err))
		}
		fmt.Printf("Added %s — %s\n", songs[0].Name, songs[0].PrimaryArtist())
		return nil
	case "remove":
		if len(rest) != 2 {
			return fmt.Errorf("usage: sonic playlist remove <id> <song-id>")
		}
		if err := a.playlists.RemoveSong(user.ID, rest[0], rest[1]); err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistRemove, err))
		}
		return nil
	default:
		return fmt.Errorf("unknown playlist command %q", sub)
	}
}

func (a *app) recent() error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}
	entries, err := a.history.Entries(user.ID)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpHistoryLoad, err))
	}
	for _, e := range entries {
		fmt.Printf("%-16s %s — %s  (%s)\n",
			e.Song.ID, e.Song.Name, e.Song.PrimaryArtist(), humanize.Time(e.PlayedAt))
	}
	return nil
}

func (a *app) requireUser() (*session.User, error) {
	user, err := a.sessions.Current()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not logged in (use: sonic login)")
	}
	return user, nil
}

func printNowPlaying(s catalog.Song) {
	fmt.Printf("▶ %s — %s (%s)\n", s.Name, s.PrimaryArtist(), formatDuration(s.Duration))
}

func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
