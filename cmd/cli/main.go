// Command fitlogctl runs maintenance tasks against a FitLog deployment.
// Settings come from the same FITLOG_* environment and dotenv file the
// server reads.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dmitrijs2005/fitlog/internal/server/config"
)

var CLI struct {
	Version kong.VersionFlag

	Migrate     MigrateCmd     `cmd:"" help:"Apply pending database migrations."`
	Token       TokenCmd       `cmd:"" help:"Mint an access token for a user id."`
	PruneTokens PruneTokensCmd `cmd:"prune-tokens" help:"Delete expired refresh tokens."`
	UploadPhoto UploadPhotoCmd `cmd:"upload-photo" help:"Upload a progress photo to a presigned URL."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("fitlogctl"),
		kong.Description("FitLog maintenance tool"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	err := ctx.Run(config.LoadEnvConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
