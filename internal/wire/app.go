package wire

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/docqa/internal/chat"
	"github.com/mithrel/docqa/internal/client"
	"github.com/mithrel/docqa/internal/config"
	"github.com/mithrel/docqa/internal/db"
	"github.com/mithrel/docqa/internal/keys"
	"github.com/mithrel/docqa/internal/logging"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg    *viper.Viper
	Log    *zap.Logger
	Client *client.Client
	Keys   keys.Store
	Store  *db.Store
	Chat   *chat.Service

	closeLog func()
}

// BuildApp wires dependencies with the provided config. Log output that is
// not sent to log.file goes to stderr.
func BuildApp(ctx context.Context, v *viper.Viper, stderr io.Writer) (*App, error) {
	logger, closeLog, err := logging.New(logging.Options{
		Level:  v.GetString("log.level"),
		File:   v.GetString("log.file"),
		Stderr: stderr,
	})
	if err != nil {
		return nil, err
	}

	dataDir := config.ResolveDataDir(v)
	ks, err := keys.Open(v.GetString("auth.store"), dataDir)
	if err != nil {
		closeLog()
		return nil, err
	}

	baseURL := v.GetString("server.url")
	c := client.New(baseURL,
		client.WithTimeout(config.Timeout(v)),
		client.WithMaxUpload(v.GetInt64("upload.max_bytes")),
		client.WithLogger(logger.Named("client")),
	)
	if tok, err := ks.Get(keys.TokenID(baseURL)); err == nil {
		c.SetToken(string(tok))
	} else if !errors.Is(err, keys.ErrKeyNotFound) {
		logger.Warn("reading saved token", zap.Error(err))
	}

	store, err := db.Open(ctx, "sqlite://"+config.ResolveDBPath(v))
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open local state: %w", err)
	}

	logger.Debug("app ready", zap.String("server", baseURL), zap.String("data_dir", dataDir))
	return &App{
		Cfg:    v,
		Log:    logger,
		Client: c,
		Keys:   ks,
		Store:  store,
		Chat:   &chat.Service{Client: c, Store: store.Messages, Log: logger.Named("chat")},

		closeLog: closeLog,
	}, nil
}

// SaveToken stores the access token for the configured server and starts
// using it.
func (a *App) SaveToken(token string) error {
	if err := a.Keys.Put(keys.TokenID(a.Client.BaseURL()), []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.Client.SetToken(token)
	return nil
}

// ClearToken forgets the access token for the configured server.
func (a *App) ClearToken() error {
	a.Client.SetToken("")
	return a.Keys.Delete(keys.TokenID(a.Client.BaseURL()))
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	err := a.Store.Close()
	if a.closeLog != nil {
		a.closeLog()
	}
	return err
}
