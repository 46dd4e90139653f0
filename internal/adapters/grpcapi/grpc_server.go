package grpcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/syncengine"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

const shutdownGrace = 5 * time.Second

// GrpcServer implements StateServiceServer
type GrpcServer struct {
	source   ports.StateSource
	settings *domain.SettingsStore
}

func NewGrpcServer(source ports.StateSource, settings *domain.SettingsStore) *grpc.Server {
	s := grpc.NewServer()
	RegisterStateServiceServer(s, &GrpcServer{source: source, settings: settings})
	return s
}

func (s *GrpcServer) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.encode(s.source.Latest())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

func (s *GrpcServer) WatchState(_ *emptypb.Empty, stream StateService_WatchStateServer) error {
	telemetry.StreamClients.WithLabelValues("grpc").Inc()
	defer telemetry.StreamClients.WithLabelValues("grpc").Dec()

	return syncengine.Follow(stream.Context(), s.source, func(v domain.StateView) error {
		st, err := s.encode(v)
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		return stream.Send(st)
	})
}

func (s *GrpcServer) encode(v domain.StateView) (*structpb.Struct, error) {
	data, err := json.Marshal(analysis.Summarize(v, s.settings.Get()))
	if err != nil {
		return nil, fmt.Errorf("encode summary: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return structpb.NewStruct(fields)
}

// Serve listens on addr until ctx is done, then stops gracefully.
func Serve(ctx context.Context, addr string, srv *grpc.Server) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	go func() {
		<-ctx.Done()
		log.Println("gRPC server shutting down...")
		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		// WatchState streams only end when clients leave
		select {
		case <-stopped:
		case <-time.After(shutdownGrace):
			srv.Stop()
		}
	}()

	log.Printf("gRPC server listening on %s", lis.Addr())
	if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
