package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"dale-assistant/internal/assistant"
	"dale-assistant/internal/config"
	"dale-assistant/internal/credentials"
	"dale-assistant/internal/integrations/paramstore"
	"dale-assistant/internal/repository"
	"dale-assistant/internal/usecase"
)

// newTokenStore picks the read-only store the credential accessor consults.
func newTokenStore(ctx context.Context, cfg config.CredentialsConfig, logger *slog.Logger) (credentials.Store, error) {
	switch cfg.Source {
	case config.SourceMemory:
		return credentials.NewMapStore(cfg.Values), nil
	case config.SourceEnv:
		return credentials.NewEnvStore(cfg.EnvPrefix), nil
	case config.SourceFile:
		return &credentials.FileStore{Path: cfg.File, Logger: logger}, nil
	case config.SourceSSM:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		getter, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, err
		}
		return credentials.NewParamStore(getter, cfg.ParamPrefix, logger)
	default:
		return nil, fmt.Errorf("unknown credential source %q", cfg.Source)
	}
}

func (a *app) newClient(ctx context.Context) (*assistant.Client, error) {
	store, err := newTokenStore(ctx, a.cfg.Credentials, a.logger)
	if err != nil {
		return nil, err
	}
	accessor, err := credentials.NewAccessor(store, a.cfg.Credentials.PrimaryKey, a.cfg.Credentials.FallbackKey)
	if err != nil {
		return nil, err
	}
	opts := []assistant.Option{
		assistant.WithBaseURL(a.cfg.Endpoint.BaseURL),
		assistant.WithEndpointPath(a.cfg.Endpoint.Path),
		assistant.WithLogger(a.logger),
	}
	if a.cfg.Endpoint.Timeout > 0 {
		opts = append(opts, assistant.WithHTTPClient(&http.Client{Timeout: a.cfg.Endpoint.Timeout}))
	}
	return assistant.New(accessor, opts...)
}

// newAskService builds the stand-in service. Audit records go to DynamoDB
// only when a table is configured.
func (a *app) newAskService(ctx context.Context) (*usecase.AskService, error) {
	var recorder usecase.Recorder
	if a.cfg.DevServer.AuditTable != "" {
		repo, err := a.newAuditStore(ctx)
		if err != nil {
			return nil, err
		}
		recorder = repo
		a.logger.Info("audit records enabled", "table", a.cfg.DevServer.AuditTable)
	}
	return usecase.NewAskService(recorder, a.cfg.DevServer.Model, a.cfg.DevServer.Tokens)
}

func (a *app) newAuditStore(ctx context.Context) (*repository.Client, error) {
	table := a.cfg.DevServer.AuditTable
	if table == "" {
		return nil, errors.New("devserver.audit_table is not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return repository.New(awsdynamodb.NewFromConfig(awsCfg), table)
}
