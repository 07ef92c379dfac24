package components

import (
	"storefront/internal/infra/db"
	"storefront/internal/infra/readstore"
	"storefront/internal/infra/uow"
	"storefront/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductReadStore)),
		),
		fx.Annotate(
			readstore.NewCartReadStore,
			fx.As(new(queries.CartReadStore)),
		),
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponReadStore)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewReportReadStore,
			fx.As(new(queries.ReportReadStore)),
		),
	),
)

// Write-side repositories are owned by the unit of work, which opens them
// against the transaction it runs. Only the UoW itself is wired here.
var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
