package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/trafegoporcents/api-gestao/internal/config"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// secretGetter é a parte do cliente do Secrets Manager usada aqui.
type secretGetter interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var novoSecretGetter = func(ctx context.Context) (secretGetter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuração AWS: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

func retrieveCredentials(ctx context.Context, cfg config.Config) (string, string, error) {
	if cfg.DBUsuario != "" && cfg.DBSenha != "" {
		return cfg.DBUsuario, cfg.DBSenha, nil
	}
	if cfg.DBSecretID == "" {
		return "", "", errors.New("defina DB_USERNAME/DB_PASSWORD ou DB_SECRET_ID")
	}

	secrets, err := novoSecretGetter(ctx)
	if err != nil {
		return "", "", err
	}
	return lerSegredo(ctx, secrets, cfg.DBSecretID)
}

func lerSegredo(ctx context.Context, secrets secretGetter, secretID string) (string, string, error) {
	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", fmt.Errorf("ler segredo %s: %w", secretID, err)
	}
	if result.SecretString == nil {
		return "", "", fmt.Errorf("segredo %s sem conteúdo texto", secretID)
	}

	var secret Credentials
	if err := json.Unmarshal([]byte(*result.SecretString), &secret); err != nil {
		return "", "", fmt.Errorf("decodificar segredo %s: %w", secretID, err)
	}
	return secret.Username, secret.Password, nil
}
