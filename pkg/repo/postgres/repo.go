package postgres

import (
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

type Config struct {
	Host       string
	Login      string
	Password   string
	DB         string
	Port       uint16
	Migrations string
}

func (c Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Login, c.Password, c.DB)
}

type Repo struct {
	db *sqlx.DB
}

func NewPostgresRepo(cfg Config) (*Repo, error) {
	if cfg.Migrations == "" {
		cfg.Migrations = "file://./migrations"
	}

	db, err := sqlx.Connect("postgres", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("connect: %v", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %v", err)
	}

	if err = migrateUp(db, cfg.Migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %v", err)
	}

	log.Println("db ready", cfg.Host, cfg.DB)

	return &Repo{db: db}, nil
}

func migrateUp(db *sqlx.DB, src string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(src, "postgres", driver)
	if err != nil {
		return err
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}
