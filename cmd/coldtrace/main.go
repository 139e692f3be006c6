package main

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pharmaguard/coldtrace/internal/cache"
	"github.com/pharmaguard/coldtrace/internal/config"
	"github.com/pharmaguard/coldtrace/internal/credential"
	"github.com/pharmaguard/coldtrace/internal/db"
	"github.com/pharmaguard/coldtrace/internal/events"
	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/logger"
	"github.com/pharmaguard/coldtrace/internal/repository/filestore"
	"github.com/pharmaguard/coldtrace/internal/repository/postgresql"
	"github.com/pharmaguard/coldtrace/internal/server"
	"github.com/pharmaguard/coldtrace/internal/signature"
	"github.com/pharmaguard/coldtrace/internal/verifier"
)

func main() {
	zl := logger.New()
	defer func() { _ = zl.Sync() }()

	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	issuer, err := buildIssuer(cfg)
	if err != nil {
		zl.Fatal("Failed to initialize signing provider", zap.Error(err))
	}

	admin, err := adminAddress(cfg, issuer)
	if err != nil {
		zl.Fatal("Invalid ADMIN_ADDRESS", zap.Error(err))
	}

	var (
		store     ledger.Store
		userRepo  server.UserRepo
		publisher *events.Publisher
	)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		database, err := db.NewDb(ctx, cfg.DSN())
		if err != nil {
			zl.Fatal("Database init error", zap.Error(err))
		}
		defer database.GetPool().Close()

		store = postgresql.NewLedgerStore(database)

		users := postgresql.NewUserRepo(database)
		if err := users.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			zl.Fatal("Failed to seed admin user", zap.Error(err))
		}
		userRepo = users

		producer := buildProducer(cfg)
		publisher = events.NewPublisher(database, postgresql.NewOutboxTaskRepo(), producer, events.PublisherConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxAttempts:  cfg.OutboxMaxAttempts,
		})

	case config.BackendFile:
		fs, err := filestore.NewStore(cfg.LedgerFile)
		if err != nil {
			zl.Fatal("Ledger file init error", zap.Error(err))
		}
		store = fs
		userRepo = staticUserRepo{username: cfg.AdminUsername, password: cfg.AdminPassword}

	default:
		zl.Fatal("Unknown STORE_BACKEND", zap.String("backend", cfg.StoreBackend))
	}

	ldg := ledger.New(store, admin)
	vrf := verifier.New(ldg)

	productCache := cache.NewProductCache(ldg)
	if err := productCache.LoadInitialData(ctx); err != nil {
		zl.Fatal("Failed to warm product cache", zap.Error(err))
	}

	srv := server.New(ldg, vrf, userRepo, productCache, issuer, credential.Meta{
		LedgerID:       cfg.LedgerID,
		ContractRef:    cfg.ContractRef,
		VerifyEndpoint: cfg.VerifyEndpoint,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTPPort)
	})
	if publisher != nil {
		g.Go(func() error {
			publisher.Run(gctx)
			return nil
		})
	}

	zl.Info("coldtrace started",
		zap.String("port", cfg.HTTPPort),
		zap.String("backend", cfg.StoreBackend),
		zap.String("admin", admin.Hex()),
		zap.String("issuer", issuer.Address().Hex()),
	)

	<-gctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("Server shutdown failed", zap.Error(err))
	}
	if publisher != nil {
		publisher.Shutdown()
	}

	if err := g.Wait(); err != nil {
		zl.Fatal("Service exited with error", zap.Error(err))
	}
	log.Println("Server gracefully stopped")
}

func buildIssuer(cfg *config.Config) (signature.Provider, error) {
	if cfg.IssuerKeyHex == "" {
		log.Println("ISSUER_PRIVATE_KEY not set, generating ephemeral signing key")
		return signature.GenerateLocalProvider()
	}
	raw, err := hex.DecodeString(cfg.IssuerKeyHex)
	if err != nil {
		return nil, err
	}
	key, _ := btcec.PrivKeyFromBytes(raw)
	return signature.NewLocalProvider(key), nil
}

func buildProducer(cfg *config.Config) events.Producer {
	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaBrokers[0] == "" || cfg.KafkaBrokers[0] == "console" {
		return events.NewConsoleProducer()
	}
	return events.NewKafkaProducer(cfg.KafkaBrokers)
}

func adminAddress(cfg *config.Config, issuer signature.Provider) (identity.Address, error) {
	if cfg.AdminAddress == "" {
		log.Println("ADMIN_ADDRESS not set, using the issuer address as administrator")
		return issuer.Address(), nil
	}
	return identity.Parse(cfg.AdminAddress)
}

// staticUserRepo backs basic auth for the file-store backend, where there is
// no users table.
type staticUserRepo struct {
	username string
	password string
}

func (r staticUserRepo) ValidateUser(_ context.Context, username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(r.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(r.password)) == 1
	return userOK && passOK, nil
}
