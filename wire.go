//go:build wireinject

package ttbuild

import (
	"github.com/google/wire"
)

func InitBuildCLI() (*BuildCLI, error) {
	wire.Build(
		ProvideBuildArgs,
		ProvideLogger,
		ProvideMetrics,
		NewBuildCLI,
	)
	return nil, nil
}
