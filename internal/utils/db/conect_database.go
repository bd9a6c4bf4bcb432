package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trafegoporcents/api-gestao/internal/config"
)

// ConnectDataBase abre a conexão com o Postgres. Usuário e senha vêm de
// DB_USERNAME/DB_PASSWORD ou, na falta deles, do segredo DB_SECRET_ID.
func ConnectDataBase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	username, password, err := retrieveCredentials(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dsn := MontarDSN(cfg, username, password)
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir banco: %w", err)
	}
	return database, nil
}

func MontarDSN(cfg config.Config, username, password string) string {
	var sslMode string
	if cfg.DBSSLDesabilitado {
		sslMode = " sslmode=disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.DBHost, username, password, cfg.DBName, cfg.DBPort, sslMode)
}
