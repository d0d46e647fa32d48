package ocr

import "go.uber.org/fx"

var Module = fx.Module("providers.ocr",
	fx.Provide(NewHTTPProvider),
)
