package components

import (
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/pkg/clock"
	"parkflow/internal/pkg/config"
	"parkflow/internal/pkg/platelock"
	"parkflow/internal/usecase/commands"
	"parkflow/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	platelock.New,
	fx.Annotate(
		billing.NewEngine,
		fx.As(new(billing.Quoter)),
	),
	NewLotTimezone,
)

// NewLotTimezone loads the IANA zone that decides which local day and
// hour an entry falls on for rate selection.
func NewLotTimezone(cfg config.Config) (*time.Location, error) {
	return time.LoadLocation(cfg.Parking.LotTimezone)
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewGateCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSessionQueries,
		queries.NewFeeQueries,
	),
)
