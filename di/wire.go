//go:build wireinject
// +build wireinject

package di

import (
	"leadflow/config"
	"leadflow/infras/jwt"
	"leadflow/infras/otel"
	"leadflow/infras/postgres"
	"leadflow/infras/redis"
	"leadflow/permissions"
	"leadflow/shared/cache"
	"leadflow/transport/http"
	"leadflow/transport/http/middleware"
	"leadflow/transport/http/router"

	"github.com/google/wire"

	appointmentRepository "leadflow/internal/domains/appointment/repository"
	appointmentService "leadflow/internal/domains/appointment/service"
	authService "leadflow/internal/domains/auth/service"
	availabilityRepository "leadflow/internal/domains/availability/repository"
	availabilityService "leadflow/internal/domains/availability/service"
	campaignRepository "leadflow/internal/domains/campaign/repository"
	campaignService "leadflow/internal/domains/campaign/service"
	leadRepository "leadflow/internal/domains/lead/repository"
	leadService "leadflow/internal/domains/lead/service"
	userRepository "leadflow/internal/domains/user/repository"
	userService "leadflow/internal/domains/user/service"

	appointmentHandler "leadflow/internal/handlers/appointment"
	authHandler "leadflow/internal/handlers/auth"
	availabilityHandler "leadflow/internal/handlers/availability"
	campaignHandler "leadflow/internal/handlers/campaign"
	leadHandler "leadflow/internal/handlers/lead"
	userHandler "leadflow/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	permissions.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var leadDomain = wire.NewSet(
	leadRepository.New,
	leadService.New,
)

var campaignDomain = wire.NewSet(
	campaignRepository.New,
	campaignService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var appointmentDomain = wire.NewSet(
	appointmentRepository.New,
	appointmentService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	leadDomain,
	campaignDomain,
	availabilityDomain,
	appointmentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	leadHandler.New,
	campaignHandler.New,
	availabilityHandler.New,
	appointmentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
