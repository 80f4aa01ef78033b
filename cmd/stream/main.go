package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pb "price-ticker/src/grpc_control"
	"price-ticker/src/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// -----------------------------------------------------------------------------

// stream prints a fixed number of updates from a running ticker and then stops
// reading, which ends the remote run.
func main() {
	addr := flag.String("addr", "127.0.0.1:50051", "gRPC control address")
	symbols := flag.String("symbols", "BTC,ETH,SOL", "comma separated symbols")
	count := flag.Int("n", 20, "number of updates to print (0 = until interrupted)")
	drain := flag.Uint("drain", 0, "after streaming, drain up to this many queued updates")
	flag.Parse()

	log := logger.NewLogger(nil, "stream")
	defer log.Sync()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Critical("Failed to connect to %s: %v", *addr, err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := pb.NewPriceClient(conn)

	printed := 0
	for u, err := range client.Prices(ctx, strings.Split(*symbols, ",")) {
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error("Stream failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("%-8s %12.4f  %d\n", u.Symbol, u.Price, u.TimestampMs)

		printed++
		if *count > 0 && printed >= *count {
			break
		}
	}
	log.Info("Received %d updates", printed)

	if *drain > 0 {
		updates, err := client.Drain(context.Background(), uint32(*drain))
		if err != nil {
			log.Error("Drain failed: %v", err)
			return
		}
		log.Info("Drained %d queued updates", len(updates))
	}
}
