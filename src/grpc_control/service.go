package grpc_control

import (
	"context"
	"errors"

	"price-ticker/src/helpers"
	"price-ticker/src/logger"
	"price-ticker/src/models"
	"price-ticker/src/stream"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultDrainBatch = 100

// Controller is the serialized engine handle the service drives
type Controller interface {
	Stream(ctx context.Context, symbols []string) (*stream.PriceStream, error)
	Cancel()
	IsRunning() bool
	Drain(max int) []models.MPriceUpdate
}

// ControlService implements TickerControlServer
type ControlService struct {
	Controller Controller
	Logger     *logger.Logger
}

// NewControlService creates a new instance of ControlService
func NewControlService(ctrl Controller, log *logger.Logger) *ControlService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ControlService{
		Controller: ctrl,
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

// Stream sends every update of a new run until the client goes away or the
// run is cancelled. A client disconnect cancels the run.
func (s *ControlService) Stream(req *structpb.ListValue, out grpc.ServerStreamingServer[structpb.Struct]) error {
	symbols, err := ListToSymbols(req)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	seq, err := s.Controller.Stream(out.Context(), symbols)
	if err != nil {
		return toStatus(err)
	}
	defer seq.Close()

	s.Logger.Info("gRPC: streaming %d symbols", len(symbols))
	for u := range seq.All() {
		if err := out.Send(UpdateToStruct(u)); err != nil {
			s.Logger.Info("gRPC: stream send failed: %v", err)
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) Cancel(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	s.Controller.Cancel()
	return &emptypb.Empty{}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"running": structpb.NewBoolValue(s.Controller.IsRunning()),
	}}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) Drain(ctx context.Context, req *wrapperspb.UInt32Value) (*structpb.ListValue, error) {
	max := defaultDrainBatch
	if req != nil && req.GetValue() > 0 {
		max = int(req.GetValue())
	}
	return UpdatesToList(s.Controller.Drain(max)), nil
}

// -----------------------------------------------------------------------------

func toStatus(err error) error {
	switch {
	case errors.Is(err, helpers.ErrEmptySymbols):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, helpers.ErrRunActive):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, helpers.ErrControllerClosed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
