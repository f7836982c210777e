package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/netx"
	"github.com/dmitrijs2005/fitlog/internal/server"
	"github.com/dmitrijs2005/fitlog/internal/server/auth"
	"github.com/dmitrijs2005/fitlog/internal/server/config"
	"github.com/dmitrijs2005/fitlog/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var stdout io.Writer = os.Stdout

type MigrateCmd struct{}

func (c *MigrateCmd) Run(cfg *config.Config) error {
	db, _, err := server.OpenDB(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(stdout, "migrations applied")
	return nil
}

type TokenCmd struct {
	UserID string        `arg:"" help:"User id to put in the token."`
	TTL    time.Duration `help:"Token lifetime." default:"1h"`
	Prompt bool          `help:"Read the signing secret from the terminal instead of FITLOG_SECRET_KEY."`
}

func (c *TokenCmd) Run(cfg *config.Config) error {
	secret := cfg.SecretKey
	if c.Prompt {
		fmt.Fprint(stdout, "Secret: ")
		b, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(stdout)
		if err != nil {
			return err
		}
		secret = strings.TrimSpace(string(b))
	}
	if secret == "" {
		return errors.New("empty secret")
	}

	tok, err := auth.GenerateToken(c.UserID, []byte(secret), c.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok)
	return nil
}

type PruneTokensCmd struct{}

func (c *PruneTokensCmd) Run(cfg *config.Config) error {
	ctx := context.Background()
	db, rm, err := server.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := services.NewUserService(db, rm, cfg).PruneRefreshTokens(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "pruned %d refresh tokens\n", n)
	return nil
}

// UploadPhotoCmd pushes a local image to a URL returned by
// POST /metrics/{date}/photo.
type UploadPhotoCmd struct {
	URL  string `arg:"" help:"Presigned upload URL."`
	File string `arg:"" type:"existingfile" help:"Image to upload."`
}

func (c *UploadPhotoCmd) Run(cfg *config.Config) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout)
	defer cancel()
	if err := netx.PutPresigned(ctx, nil, c.URL, data); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "uploaded %d bytes\n", len(data))
	return nil
}
