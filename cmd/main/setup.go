package main

import (
	"time"

	"price-ticker/src/board"
	"price-ticker/src/config"
	"price-ticker/src/controller"
	datasource "price-ticker/src/data_source"
	"price-ticker/src/engine"
	"price-ticker/src/logger"
	"price-ticker/src/server"
	"price-ticker/src/stream"
	"price-ticker/src/utils"

	"google.golang.org/grpc"
)

const engineExitTimeout = 2 * time.Second

// -----------------------------------------------------------------------------

// App holds every long-lived component of the host process
type App struct {
	Logger     *logger.Logger
	Engine     *engine.TickerEngine
	Controller *controller.StreamController
	Board      *board.PriceBoard
	HTTP       *server.TickerServer
	GRPC       *grpc.Server
}

// -----------------------------------------------------------------------------

// setupApp wires source, engine, controller, board and servers from config
func setupApp(cfg *config.Config, appLogger *logger.Logger) (*App, error) {
	policy, err := stream.ParseOverflowPolicy(cfg.Stream.OverflowPolicy)
	if err != nil {
		return nil, err
	}

	source := datasource.NewRandomWalkSource(cfg.Engine, nil, nil)

	var scheduler *utils.MarketScheduler
	if cfg.Engine.SessionCalendar != "" {
		scheduler = utils.NewMarketScheduler(cfg.Engine.SessionCalendar, appLogger.Named("Scheduler"))
	}

	eng := engine.NewTickerEngine(cfg.Engine, source, scheduler, appLogger.Named("Engine"))

	ctrl := controller.NewStreamController(eng, appLogger.Named("Controller"),
		stream.WithOverflowPolicy(policy),
		stream.WithBufferSize(cfg.Stream.BufferSize),
	)

	srv := server.NewTickerServer(cfg.MConfig, appLogger.Named("Server"))
	priceBoard := board.NewPriceBoard(ctrl, srv, appLogger.Named("Board"))
	srv.SetBoard(priceBoard, ctrl)

	return &App{
		Logger:     appLogger,
		Engine:     eng,
		Controller: ctrl,
		Board:      priceBoard,
		HTTP:       srv,
		GRPC:       grpc.NewServer(),
	}, nil
}

// -----------------------------------------------------------------------------

// Shutdown stops the run first so open streams end, then the servers
func (a *App) Shutdown() {
	a.Board.Stop()
	a.Controller.Close()

	if err := a.HTTP.Stop(); err != nil {
		a.Logger.Error("HTTP shutdown failed: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		a.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(engineExitTimeout):
		a.GRPC.Stop()
	}

	select {
	case <-a.Engine.Done():
	case <-time.After(engineExitTimeout):
		a.Logger.Warning("Engine loop did not exit within %v", engineExitTimeout)
	}
	a.Logger.Info("Shutdown complete")
}
