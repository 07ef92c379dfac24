package components

import (
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCartCommands,
		commands.NewOrderCommands,
		commands.NewProductCommands,
		commands.NewCouponCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewProductQueries,
		queries.NewCartQueries,
		queries.NewCouponQueries,
		queries.NewOrderQueries,
		queries.NewReportQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
