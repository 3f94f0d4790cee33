package app

import (
	"context"

	"github.com/vk/fragments/internal/ctxlog"
)

// Run executes the configured command. A build with a port or with watch
// enabled keeps serving or watching until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	if a.config.Command == CommandRender {
		return a.Render(ctx)
	}

	if err := a.Build(ctx); err != nil {
		return err
	}
	if !a.config.keepsRunning() {
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	if a.config.Port > 0 {
		if err := a.startServer(ctx); err != nil {
			return err
		}
		defer a.closeServer(ctx)
	}

	if a.config.Watch {
		return a.Watch(ctx)
	}
	<-ctx.Done()
	a.logger.Debug("App.Run method finished.")
	return nil
}
