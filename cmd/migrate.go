package cmd

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"labchem.GO/config"
	"labchem.GO/migrations"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply the embedded SQL schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			fmt.Printf("Database handle: %v\n", err)
			return
		}

		src, err := iofs.New(migrations.FS, ".")
		if err != nil {
			fmt.Printf("Load migrations: %v\n", err)
			return
		}
		driver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
		if err != nil {
			fmt.Printf("Migration driver: %v\n", err)
			return
		}
		m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
		if err != nil {
			fmt.Printf("Migration setup: %v\n", err)
			return
		}

		if migrateDown {
			err = m.Down()
		} else {
			err = m.Up()
		}
		if err == migrate.ErrNoChange {
			fmt.Println("Schema already up to date.")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			return
		}
		fmt.Println("Migrations applied.")
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations instead of applying them")
	rootCmd.AddCommand(migrateCmd)
}
