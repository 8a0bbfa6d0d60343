//go:build gcloud

package app

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/config"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/logging"
)

func InitObservability(ctx context.Context, version string, module logging.Module) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "measurement-scheduler"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: module,
		LogLevel:      config.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	})
}
