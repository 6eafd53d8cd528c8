// Command jot is a note-taking CLI backed by a single SQLite notebook file.
// All commands share one database connection through the connection manager,
// so concurrent work inside a command never trips SQLite's file lock.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jot/jot/internal/config"
	"github.com/jot/jot/internal/conn"
	"github.com/jot/jot/internal/dao"
	"github.com/jot/jot/internal/log"
	"github.com/jot/jot/internal/migrations"
	"github.com/jot/jot/internal/secretstore"
	"github.com/jot/jot/internal/sqlite"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const version = "0.1.0-dev"

// cfg is resolved once in the app's Before hook and read by every command.
var cfg config.Config

func main() {
	app := &cli.App{
		Name:    "jot",
		Usage:   "local notes on a single shared SQLite notebook",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the configuration file",
				Value: config.DefaultPath,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "override the notebook database path",
			},
			&cli.BoolFlag{
				Name:  "secure",
				Usage: "seal note bodies with the notebook key",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			initCmd,
			putCmd,
			getCmd,
			rmCmd,
			lsCmd,
			statusCmd,
			lockCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.L.Error().Err(err).Msg("jot failed")
		os.Exit(1)
	}
}

// setup loads configuration and installs the process-wide connection
// manager. No connection is opened here; the first Acquire does that.
func setup(c *cli.Context) error {
	var err error
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.String("db") != "" {
		cfg.NotebookPath = config.ExpandPath(c.String("db"))
	}
	if c.Bool("secure") {
		cfg.Secure = true
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	log.SetLevel(level)

	provider := sqlite.Provider{
		Path:        cfg.NotebookPath,
		BusyTimeout: cfg.BusyTimeout,
	}
	return conn.Initialize(provider)
}

// teardown force-closes the shared connection on exit.
func teardown(c *cli.Context) error {
	mgr, err := conn.Instance()
	if err != nil {
		// Initialize never ran; nothing to close.
		return nil
	}
	return mgr.Shutdown()
}

// openStore returns the configured note store over the shared connection.
func openStore() (noteStore, error) {
	mgr, err := conn.Instance()
	if err != nil {
		return nil, err
	}

	if !cfg.Secure {
		return plainStore{dao.NewNoteDAO(mgr)}, nil
	}

	key, err := secretstore.LoadOrCreate(secretstore.Default, keyName())
	if err != nil {
		return nil, err
	}
	return dao.NewSecureNoteDAO(mgr, key)
}

// keyName namespaces the master key by notebook file, so two notebooks on
// one machine do not share keys.
func keyName() string {
	return filepath.Base(cfg.NotebookPath)
}

// noteStore is what the commands need from either DAO flavor.
type noteStore interface {
	Get(title string) ([]byte, error)
	Put(title string, body []byte) error
	Delete(title string) error
	List() ([]string, error)
}

// plainStore adapts NoteDAO's record-returning Get to the body-only shape.
type plainStore struct {
	dao *dao.NoteDAO
}

func (s plainStore) Get(title string) ([]byte, error) {
	note, err := s.dao.Get(title)
	if err != nil {
		return nil, err
	}
	return note.Body, nil
}

func (s plainStore) Put(title string, body []byte) error { return s.dao.Put(title, body) }
func (s plainStore) Delete(title string) error           { return s.dao.Delete(title) }
func (s plainStore) List() ([]string, error)             { return s.dao.List() }

var initCmd = &cli.Command{
	Name:  "init",
	Usage: "create the notebook and apply schema migrations",
	Action: func(c *cli.Context) error {
		mgr, err := conn.Instance()
		if err != nil {
			return err
		}
		if err := migrations.Bootstrap(mgr); err != nil {
			return fmt.Errorf("bootstrap notebook: %w", err)
		}
		fmt.Println("notebook ready at", cfg.NotebookPath)
		return nil
	},
}

var putCmd = &cli.Command{
	Name:      "put",
	Usage:     "store a note; body from the second argument or stdin",
	ArgsUsage: "<title> [body]",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("Usage: jot put <title> [body]", 1)
		}

		var body []byte
		if c.NArg() >= 2 {
			body = []byte(c.Args().Get(1))
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read body from stdin: %w", err)
			}
			body = data
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		return store.Put(c.Args().Get(0), body)
	},
}

var getCmd = &cli.Command{
	Name:      "get",
	Usage:     "print a note body",
	ArgsUsage: "<title>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("Usage: jot get <title>", 1)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		body, err := store.Get(c.Args().Get(0))
		if err != nil {
			return err
		}
		os.Stdout.Write(body)
		return nil
	},
}

var rmCmd = &cli.Command{
	Name:      "rm",
	Usage:     "delete a note",
	ArgsUsage: "<title>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("Usage: jot rm <title>", 1)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		return store.Delete(c.Args().Get(0))
	},
}

var lsCmd = &cli.Command{
	Name:  "ls",
	Usage: "list note titles",
	Action: func(c *cli.Context) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		titles, err := store.List()
		if err != nil {
			return err
		}
		for _, title := range titles {
			fmt.Println(title)
		}
		return nil
	},
}

var statusCmd = &cli.Command{
	Name:  "status",
	Usage: "show notebook status",
	Action: func(c *cli.Context) error {
		mgr, err := conn.Instance()
		if err != nil {
			return err
		}

		fmt.Println("notebook:", cfg.NotebookPath)
		fmt.Println("secure:  ", cfg.Secure)

		if _, statErr := os.Stat(cfg.NotebookPath); statErr != nil {
			fmt.Println("state:    missing (run 'jot init')")
			return nil
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		titles, err := store.List()
		if err != nil {
			return err
		}
		fmt.Println("notes:   ", len(titles))
		fmt.Println("borrows: ", mgr.Demand())
		return nil
	},
}

var lockCmd = &cli.Command{
	Name:  "lock",
	Usage: "provision the notebook key in the OS secret store",
	Action: func(c *cli.Context) error {
		if _, err := secretstore.LoadOrCreate(secretstore.Default, keyName()); err != nil {
			return fmt.Errorf("provision notebook key: %w", err)
		}
		fmt.Println("notebook key ready; run secure commands with --secure")
		return nil
	},
}
