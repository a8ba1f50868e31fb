package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"clinic-directory/cmd/bootstrap"
	"clinic-directory/config"
	"clinic-directory/internal/dataset"
	"clinic-directory/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

const usage = `usage: clinic-directory <command> [args]

commands:
  serve                 run the HTTP server (default)
  manage                interactive data console
  seed                  reset and load the sample directory in one transaction
  reset                 delete every doctor, subject and listing
  import-csv [dir]      import doctors/subjects/listings CSV files
  import-json [file]    replace the directory with a JSON snapshot
  export-json [file]    write a JSON snapshot
  export-csv [dir]      write the CSV exports
  stats                 print directory statistics
  token <subject> [role] issue an API access token (role defaults to admin)
  revoke <token_id>     revoke an issued access token
`

func main() {
	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "serve":
		err = serve()
	case "token":
		err = token(args)
	case "revoke":
		err = revoke(args)
	case "manage", "seed", "reset", "import-csv", "import-json", "export-json", "export-csv", "stats":
		err = runTooling(command, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil {
		logrus.Fatalf("%s failed: %v", command, err)
	}
}

func serve() error {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Run the application
	return app.Run()
}

func token(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("token needs a subject\n\n%s", usage)
	}
	role := entity.RoleAdmin
	if len(args) > 1 {
		role = args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	resp, err := bootstrap.IssueToken(cfg.JWT, args[0], role)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func revoke(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("revoke needs a token id\n\n%s", usage)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := bootstrap.RevokeToken(context.Background(), cfg, args[0]); err != nil {
		return err
	}
	fmt.Printf("revoked %s\n", args[0])
	return nil
}

func runTooling(command string, args []string) error {
	app, err := bootstrap.NewTooling()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := app.DataManager()
	dataCfg := app.Config.Data
	arg := func(def string) string {
		if len(args) > 0 && args[0] != "" {
			return args[0]
		}
		return def
	}
	jsonFile := filepath.Join(dataCfg.Dir, dataCfg.JSONFile)

	switch command {
	case "manage":
		return dataset.NewMenu(manager, os.Stdin, os.Stdout, jsonFile).Run(ctx)
	case "seed":
		report, err := manager.Seed(ctx)
		if err != nil {
			return err
		}
		return printJSON(report)
	case "reset":
		return manager.Clean(ctx)
	case "import-csv":
		report, err := manager.ImportCSV(ctx, arg(dataCfg.Dir))
		if err != nil {
			return err
		}
		return printJSON(report)
	case "import-json":
		report, err := manager.ImportJSON(ctx, arg(jsonFile))
		if err != nil {
			return err
		}
		return printJSON(report)
	case "export-json":
		path := arg(jsonFile)
		if _, err := manager.ExportJSON(ctx, path); err != nil {
			return err
		}
		fmt.Printf("exported %s\n", path)
		return nil
	case "export-csv":
		report, err := manager.ExportCSV(ctx, arg(dataCfg.Dir))
		if err != nil {
			return err
		}
		return printJSON(report)
	case "stats":
		stats, err := manager.Statistics(ctx)
		if err != nil {
			return err
		}
		stats.Render(os.Stdout)
		return nil
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
