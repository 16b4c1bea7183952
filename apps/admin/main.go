package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/services/logger"
	"github.com/trezcool/studio/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	validate, _ := core.NewValidator()

	var db *sql.DB
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	// start CLI
	cli := commandLine{
		out:      os.Stdout,
		validate: validate,
		openDB: func() (*sql.DB, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
			xdb, err := database.Open(conf)
			if err != nil {
				return nil, err
			}
			db = xdb.DB
			return db, nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
