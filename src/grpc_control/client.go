package grpc_control

import (
	"context"
	"errors"
	"io"
	"iter"

	"price-ticker/src/models"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PriceClient wraps TickerControlClient with model types
type PriceClient struct {
	rpc TickerControlClient
}

func NewPriceClient(cc grpc.ClientConnInterface) *PriceClient {
	return &PriceClient{rpc: NewTickerControlClient(cc)}
}

// -----------------------------------------------------------------------------

// Prices starts a remote run and yields its updates. Breaking out of the range
// ends the call, which cancels the run on the server.
func (c *PriceClient) Prices(ctx context.Context, symbols []string) iter.Seq2[models.MPriceUpdate, error] {
	return func(yield func(models.MPriceUpdate, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stream, err := c.rpc.Stream(ctx, SymbolsToList(symbols))
		if err != nil {
			yield(models.MPriceUpdate{}, err)
			return
		}

		for {
			msg, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(models.MPriceUpdate{}, err)
				return
			}

			u, err := StructToUpdate(msg)
			if !yield(u, err) {
				return
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (c *PriceClient) Cancel(ctx context.Context) error {
	_, err := c.rpc.Cancel(ctx, &emptypb.Empty{})
	return err
}

// -----------------------------------------------------------------------------

func (c *PriceClient) IsRunning(ctx context.Context) (bool, error) {
	resp, err := c.rpc.Status(ctx, &emptypb.Empty{})
	if err != nil {
		return false, err
	}
	return resp.GetFields()["running"].GetBoolValue(), nil
}

// -----------------------------------------------------------------------------

func (c *PriceClient) Drain(ctx context.Context, max uint32) ([]models.MPriceUpdate, error) {
	resp, err := c.rpc.Drain(ctx, wrapperspb.UInt32(max))
	if err != nil {
		return nil, err
	}
	return ListToUpdates(resp)
}
