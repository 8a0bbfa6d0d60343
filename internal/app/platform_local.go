//go:build !gcloud

package app

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/config"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/logging"
)

func InitObservability(ctx context.Context, version string, module logging.Module) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "measurement-scheduler"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: version,
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: module,
		LogLevel:      config.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	})
}
