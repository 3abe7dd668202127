package di

import (
	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/internal/access"
	propertyRepository "innkeep/internal/domains/property/repository"
	"innkeep/internal/worker"
	"innkeep/transport/http"
)

// App is the API server plus the background workers that may share its process.
type App struct {
	Config  *config.Config
	HTTP    *http.HTTP
	Sweeper *worker.HoldSweeper
	Otel    otel.Otel
	Kafka   kafka.Client
}

// Sweeper is the standalone hold sweeper process.
type Sweeper struct {
	Config  *config.Config
	Sweeper *worker.HoldSweeper
	Otel    otel.Otel
	Kafka   kafka.Client
}

func provideMemberships(members propertyRepository.Member) access.Memberships {
	return members
}
