package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/shire/internal/ai"
	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/data"
	"github.com/udisondev/shire/internal/db"
	"github.com/udisondev/shire/internal/game/combat"
	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/save"
)

const DefaultConfigPath = "config/shire.yaml"

type options struct {
	configPath string
	name       string
	class      string
	enemy      string
	level      int
	fights     int
	slot       int
	seed       uint64
	load       bool
	list       bool
	rest       bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, parseFlags(os.Args[1:])); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	var opts options
	fs := flag.NewFlagSet("shire", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", DefaultConfigPath, "path to YAML config")
	fs.StringVar(&opts.name, "name", "Rob", "character name for a new game")
	fs.StringVar(&opts.class, "class", "warrior", "character class for a new game")
	fs.StringVar(&opts.enemy, "enemy", "", "enemy type to fight (random when empty)")
	fs.IntVar(&opts.level, "level", 0, "enemy level (character level when 0)")
	fs.IntVar(&opts.fights, "fights", 3, "number of encounters to play")
	fs.IntVar(&opts.slot, "slot", 0, "save slot")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed (time based when 0)")
	fs.BoolVar(&opts.load, "load", false, "continue from the save slot")
	fs.BoolVar(&opts.list, "list", false, "list save slots and exit")
	fs.BoolVar(&opts.rest, "rest", true, "refill every resource pool after each victory")
	_ = fs.Parse(args)

	if p := os.Getenv("SHIRE_CONFIG"); p != "" && opts.configPath == DefaultConfigPath {
		opts.configPath = p
	}
	return opts
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadGame(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("shire starting",
		"log_level", cfg.LogLevel,
		"save_backend", cfg.Save.Backend,
		"difficulty", cfg.Enemy.Difficulty)

	catalog, err := data.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening save store: %w", err)
	}
	defer closeStore()

	saves := save.NewManager(store, cfg.Save, cfg.Character, save.WithCatalog(catalog))

	if opts.list {
		return listSlots(ctx, saves)
	}

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	slog.Info("random source ready", "seed", seed)

	hero, err := loadOrCreate(ctx, saves, cfg.Character, catalog, opts)
	if err != nil {
		return err
	}

	s := &session{
		cfg:     cfg,
		opts:    opts,
		catalog: catalog,
		saves:   saves,
		rng:     rng,
		hero:    hero,
		fights:  combat.NewManager(combat.RulesFrom(cfg), catalog, rng),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.play(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// openStore builds the save backend named in config. The returned func
// releases it.
func openStore(ctx context.Context, cfg config.Game) (save.Store, func(), error) {
	switch cfg.Save.Backend {
	case "sqlite":
		s, err := db.OpenSQLite(ctx, cfg.Save.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case "postgres":
		dsn := cfg.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, dsn); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		return database.SaveStore(), database.Close, nil

	default:
		s, err := save.NewFileStore(cfg.Save.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func listSlots(ctx context.Context, saves *save.Manager) error {
	metas, err := saves.ListSlots(ctx)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no saved games")
		return nil
	}
	for _, m := range metas {
		fmt.Printf("slot %d: %s level %d, saved %s, playtime %s, %d saves\n",
			m.Slot, m.CharacterName, m.CharacterLevel,
			m.SavedAt.Format(time.DateTime), m.Playtime(), m.SaveCount)
	}
	return nil
}

// starterKit is what a new character begins with.
var starterKit = []string{"rusty_sword", "health_potion", "health_potion", "health_potion"}

func loadOrCreate(ctx context.Context, saves *save.Manager, rules config.Character, catalog *data.Catalog, opts options) (*model.Character, error) {
	if opts.load {
		c, meta, err := saves.Load(ctx, opts.slot)
		if err != nil {
			return nil, fmt.Errorf("loading slot %d: %w", opts.slot, err)
		}
		fmt.Printf("Welcome back, %s (level %d, %s played)\n", c.Name(), c.Level(), meta.Playtime())
		return c, nil
	}

	class, err := model.ParseClass(opts.class)
	if err != nil {
		return nil, err
	}
	c, err := model.NewCharacter(rules, opts.name, class)
	if err != nil {
		return nil, err
	}
	for _, id := range starterKit {
		if err := c.AddItem(id); err != nil {
			return nil, fmt.Errorf("starter kit: %w", err)
		}
	}
	weapon, err := catalog.Item(starterKit[0])
	if err != nil {
		return nil, err
	}
	if _, err := c.Equip(weapon); err != nil {
		return nil, fmt.Errorf("equipping %s: %w", weapon.ID, err)
	}

	fmt.Printf("%s the %s sets out from the Shire\n", c.Name(), c.Class())
	return c, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
