package providers

import (
	"github.com/quidflow/quidflow/internal/providers/llm"
	"github.com/quidflow/quidflow/internal/providers/ocr"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	llm.Module,
	ocr.Module,
)
