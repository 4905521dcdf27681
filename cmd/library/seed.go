package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
	"github.com/bibliotek/library-system/internal/infrastructure/config"
	"github.com/bibliotek/library-system/internal/infrastructure/db/postgres"
	"github.com/bibliotek/library-system/pkg/logger"
)

type seedBook struct {
	title     string
	author    string
	published string
	quantity  int
}

var seedBooks = []seedBook{
	{"The Count of Monte Cristo", "Alexandre Dumas", "1846-01-01", 3},
	{"Pride and Prejudice", "Jane Austen", "1813-01-28", 2},
	{"Crime and Punishment", "Fyodor Dostoevsky", "1866-01-01", 2},
	{"The Picture of Dorian Gray", "Oscar Wilde", "1890-06-20", 1},
	{"One Hundred Years of Solitude", "Gabriel Garcia Marquez", "1967-05-30", 2},
}

func newSeedCmd() *cobra.Command {
	var adminUsername, adminEmail string
	var withCatalog bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and optionally a sample catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), adminUsername, adminEmail, withCatalog)
		},
	}
	cmd.Flags().StringVar(&adminUsername, "admin-username", "administrator", "username for the admin account")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@localhost", "email for the admin account")
	cmd.Flags().BoolVar(&withCatalog, "catalog", false, "also seed a sample catalog of authors and books")
	return cmd
}

func runSeed(ctx context.Context, username, email string, withCatalog bool) error {
	cfg := config.Load(slog.Default())
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	password, err := readPassword("Admin password: ")
	if err != nil {
		return err
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	db, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store := postgres.NewStore(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin, err := store.Users().Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		log.Warn().Str("username", username).Msg("admin account already exists, skipping")
	case err != nil:
		return err
	default:
		log.Info().Int64("id", admin.ID).Str("username", admin.Username).Msg("admin account created")
	}

	if !withCatalog {
		return nil
	}
	return seedCatalog(ctx, store, log)
}

// seedCatalog inserts the sample authors and books in one transaction, so a
// half-seeded catalog never survives a failure.
func seedCatalog(ctx context.Context, store ports.Store, log zerolog.Logger) error {
	err := store.WithinTx(ctx, func(tx ports.Tx) error {
		for _, sb := range seedBooks {
			author, err := tx.Authors().Create(ctx, sb.author)
			if err != nil {
				return fmt.Errorf("seed author %q: %w", sb.author, err)
			}

			published, err := time.Parse("2006-01-02", sb.published)
			if err != nil {
				return fmt.Errorf("seed book %q: %w", sb.title, err)
			}

			_, err = tx.Books().Create(ctx, &domain.Book{
				Title:       sb.title,
				AuthorID:    author.ID,
				PublishedOn: &published,
				Quantity:    sb.quantity,
				Available:   sb.quantity > 0,
			})
			if err != nil {
				return fmt.Errorf("seed book %q: %w", sb.title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("books", len(seedBooks)).Msg("sample catalog seeded")
	return nil
}

// readPassword reads a password from the terminal without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
