package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/config"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

var cfgPath string

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.Database.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	default:
		return gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	}
}

func newReleaseCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "release-numbers",
		Short: "Rename case numbers of soft-deleted cases so they can be reissued",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			result, err := service.NewReleaseService(db).ReleaseDeletedCaseNumbers(dryRun)
			if err != nil {
				return err
			}
			for _, r := range result.Released {
				fmt.Printf("%s -> %s\n", r.OldNumber, r.NewNumber)
			}
			fmt.Printf("released=%d skipped=%d dry_run=%v\n", len(result.Released), result.Skipped, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be released without writing")
	return cmd
}

func newSeedAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the initial system admin account on an empty install",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours).SeedAdmin(email, password); err != nil {
				return err
			}
			fmt.Printf("admin %s ready\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "casectl",
		Short:         "Operational tooling for the case management service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")

	root.AddCommand(newReleaseCmd())
	root.AddCommand(newSeedAdminCmd())

	if err := root.Execute(); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
