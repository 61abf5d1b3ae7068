package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/voltgrid/auth-server/auth"
	"github.com/voltgrid/auth-server/events"
	"github.com/voltgrid/auth-server/guard"
	"github.com/voltgrid/auth-server/identities"
	identityfake "github.com/voltgrid/auth-server/identities/repofake"
	"github.com/voltgrid/auth-server/internal/config"
	"github.com/voltgrid/auth-server/internal/obs"
	"github.com/voltgrid/auth-server/permissions"
	"github.com/voltgrid/auth-server/server"
	"github.com/voltgrid/auth-server/store/postgres"
	"github.com/voltgrid/auth-server/tenants"
	tenantfake "github.com/voltgrid/auth-server/tenants/repofake"
	"github.com/voltgrid/auth-server/token"
	"github.com/voltgrid/auth-server/token/refresh"
	refreshfake "github.com/voltgrid/auth-server/token/refresh/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Printf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
			continue
		}
		break
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	obs.Init()

	handler, cleanup, err := buildHandler(c, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: obs.Instrument(handler)}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildHandler(c config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	cleanup := func() {}

	var (
		identityRepo identities.Repo
		tenantRepo   tenants.Repo
		refreshRepo  refresh.Repo
	)

	if dsn := c.GetPostgresDSN(); dsn != "" {
		db, err := postgres.Connect(dsn)
		if err != nil {
			return nil, cleanup, fmt.Errorf("buildHandler postgres.Connect: %w", err)
		}
		identityRepo = postgres.NewIdentityStore(db)
		tenantRepo = postgres.NewTenantStore(db)
		refreshRepo = postgres.NewRefreshTokenStore(db)
		cleanup = func() { _ = db.Close() }
	} else {
		logger.Warn().Msg("POSTGRES_DSN not set, using in-memory stores")
		identityRepo = identityfake.NewFakeIdentityRepo()
		tenantRepo = tenantfake.NewFakeTenantRepo()
		refreshRepo = refreshfake.NewFakeRefreshTokenRepo()
	}

	secret := c.GetSigningSecret()
	if secret == "" {
		if c.GetEnv() != "DEV" {
			return nil, cleanup, errors.New("SIGNING_SECRET is required outside DEV")
		}
		secret = devSigningSecret()
		logger.Warn().Msg("SIGNING_SECRET not set, generated a throwaway dev secret")
	}

	refreshManager := refresh.NewManager(refreshRepo, c.GetRefreshTokenExpiry(),
		refresh.WithSecretLength(c.GetRefreshTokenLength()))
	tokenManager := token.New(
		token.NewHMACSigner(secret),
		refreshManager,
		token.WithIssuer(c.GetIssuer()),
		token.WithAccessTokenExpiry(c.GetAccessTokenExpiry()),
	)

	hasher := identities.NewHasher(c.GetPasswordHashCost(), c.GetHashingConcurrency())

	emitter := events.Emitter(events.Nop())
	if brokerURL := c.GetBrokerURL(); brokerURL != "" {
		mqttEmitter, err := events.ConnectMQTT(brokerURL, c.GetAppName(), logger)
		if err != nil {
			return nil, cleanup, fmt.Errorf("buildHandler events.ConnectMQTT: %w", err)
		}
		emitter = mqttEmitter
		dbCleanup := cleanup
		cleanup = func() {
			mqttEmitter.Close()
			dbCleanup()
		}
	}

	authService, err := auth.NewService(
		auth.Repos{Identities: identityRepo, Tenants: tenantRepo},
		tokenManager,
		hasher,
		auth.WithEmitter(emitter),
	)
	if err != nil {
		return nil, cleanup, fmt.Errorf("buildHandler auth.NewService: %w", err)
	}

	registryOptions := []permissions.RegistryOption{}
	if c.GetEnv() == "DEV" {
		registryOptions = append(registryOptions, permissions.WithStrictActions())
	}
	registry := permissions.NewRegistry(permissions.DefaultTable(), registryOptions...)

	g, err := guard.New(tokenManager, identityRepo, tenantRepo, registry)
	if err != nil {
		return nil, cleanup, fmt.Errorf("buildHandler guard.New: %w", err)
	}

	return server.New(c, authService, g, logger), cleanup, nil
}

func devSigningSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
