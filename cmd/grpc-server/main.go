package main

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"fusiondex/internal/catalog"
	"fusiondex/internal/grpcserver"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/utils"
)

func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	grpcCfg := utils.LoadGrpcConfig()
	listener, err := net.Listen("tcp", grpcCfg.Addr)
	if err != nil {
		slog.Error("grpc listen failed", "addr", grpcCfg.Addr, "error", err)
		os.Exit(1)
	}

	svc := grpcserver.NewServer(catalog.NewStore(db), utils.LoadCatalogConfig().Workers)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogger(slog.With("component", "grpc"))))
	grpcserver.RegisterCatalogServer(grpcServer, svc)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("shutdown signal received", "signal", sig.String())
		grpcServer.GracefulStop()
	}()

	slog.Info("gRPC server listening", "addr", grpcCfg.Addr)
	if err := grpcServer.Serve(listener); err != nil {
		slog.Error("grpc server stopped", "error", err)
		os.Exit(1)
	}
}
