package components

import (
	"parkflow/internal/handler"
	"parkflow/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewGateHandler,
		api.NewPaymentHandler,
		api.NewSessionHandler,
		api.NewFeeHandler,
	),
	fx.Invoke(handler.NewRouter),
)
