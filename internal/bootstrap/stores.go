package bootstrap

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/strataviz/frameserve/internal/frame"
)

func ProvideFrameStore(db *gorm.DB) *frame.Store {
	return frame.NewStore(db)
}

func RunMigrations(frameStore *frame.Store) error {
	return frameStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(ProvideFrameStore),
	fx.Invoke(RunMigrations),
)
