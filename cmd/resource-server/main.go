package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/diwise/oresm/internal/pkg/application/resources"
	"github.com/diwise/oresm/internal/pkg/infrastructure/router"
	"github.com/diwise/oresm/internal/pkg/presentation/api/auth"
	api "github.com/diwise/oresm/internal/pkg/presentation/api/resources"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const serviceName string = "resource-server"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, logger, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	port := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")
	prefix := env.GetVariableOrDefault(ctx, "API_PREFIX", "api")
	key := env.GetVariableOrDefault(ctx, "RESOURCE_KEY", "id")
	policyPath := env.GetVariableOrDefault(ctx, "POLICY_PATH", "")

	var policies io.Reader = strings.NewReader(auth.AllowAll)

	if policyPath != "" {
		policyFile, err := os.Open(policyPath)
		if err != nil {
			logger.Error("unable to open opa policy file", "path", policyPath, "err", err.Error())
			os.Exit(1)
		}
		defer policyFile.Close()

		policies = policyFile
	}

	repo := resources.New(key)

	if pgConfig := resources.LoadPostgresConfiguration(ctx); pgConfig.Enabled() {
		var closePool func()
		var err error

		repo, closePool, err = resources.NewPostgres(ctx, pgConfig, key)
		if err != nil {
			logger.Error("failed to connect to database", "err", err.Error())
			os.Exit(1)
		}
		defer closePool()
	}

	r := router.New(serviceName)

	err := api.RegisterHandlers(ctx, r, prefix, policies, repo)
	if err != nil {
		logger.Error("failed to register handlers", "err", err.Error())
		os.Exit(1)
	}

	logger.Info("starting to listen for connections", "port", port, "prefix", prefix)

	err = http.ListenAndServe(":"+port, r)
	if err != nil {
		logger.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}
