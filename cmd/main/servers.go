package main

import (
	"fmt"
	"net"

	"price-ticker/src/config"
	pb "price-ticker/src/grpc_control"
	"price-ticker/src/logger"
)

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all server components
func startServers(app *App, cfg *config.Config, appLogger *logger.Logger) error {

	// 1. HTTP / WebSocket server
	go func() {
		if err := app.HTTP.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 2. gRPC Control Server
	addr := fmt.Sprintf("%s:%d", cfg.GrpcHost, cfg.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
	}

	controlService := pb.NewControlService(app.Controller, appLogger.Named("ControlService"))
	pb.RegisterTickerControlServer(app.GRPC, controlService)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := app.GRPC.Serve(lis); err != nil {
			appLogger.Error("gRPC server stopped: %v", err)
		}
	}()

	return nil
}
