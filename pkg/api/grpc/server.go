// Package grpcapi implements the keycalc.v1.Calculator gRPC service. Requests
// and responses are google.protobuf.Struct messages so no generated code is
// needed; any client holding a *grpc.ClientConn can call it through Client.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/store"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "keycalc.v1.Calculator"

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PressKey(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Server implements the Calculator gRPC service.
type Server struct {
	store *store.Store
	grpc  *grpc.Server
}

// New creates a new gRPC server wrapping the given store.
func New(s *store.Store) *Server {
	srv := &Server{store: s}

	gs := grpc.NewServer()
	RegisterCalculatorServer(gs, srv)
	srv.grpc = gs

	return srv
}

// RegisterCalculatorServer registers impl on gs.
func RegisterCalculatorServer(gs grpc.ServiceRegistrar, impl CalculatorServer) {
	gs.RegisterService(&serviceDesc, impl)
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves gRPC requests on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// --- Calculator Service ---

func (s *Server) CreateSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	snap, err := s.store.CreateSession()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return snapshotToProto(snap)
}

func (s *Server) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}
	snap, err := s.store.GetSession(id)
	if err != nil {
		return nil, storeStatus(err)
	}
	return snapshotToProto(snap)
}

func (s *Server) PressKey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}
	key, err := requiredString(req, "key")
	if err != nil {
		return nil, err
	}
	src, err := input.ParseSource(optionalString(req, "source"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	snap, consumed, err := s.store.Press(id, key, src)
	if err != nil {
		return nil, storeStatus(err)
	}
	resp, err := snapshotToProto(snap)
	if err != nil {
		return nil, err
	}
	resp.Fields["consumed"] = structpb.NewBoolValue(consumed)
	return resp, nil
}

func (s *Server) DeleteSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteSession(id); err != nil {
		return nil, storeStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"name": store.SessionName(id),
		"done": true,
	})
}

// --- Internal helpers ---

func requiredString(req *structpb.Struct, field string) (string, error) {
	v := optionalString(req, field)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	return v, nil
}

func optionalString(req *structpb.Struct, field string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[field].GetStringValue()
}

func storeStatus(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func snapshotToProto(snap store.Snapshot) (*structpb.Struct, error) {
	symbols := make([]interface{}, len(snap.Symbols))
	for i, sym := range snap.Symbols {
		symbols[i] = map[string]interface{}{
			"value": sym.Value,
			"kind":  sym.Kind,
		}
	}

	pb, err := structpb.NewStruct(map[string]interface{}{
		"id":         snap.ID,
		"name":       snap.Name,
		"display":    snap.Display,
		"symbols":    symbols,
		"error":      snap.Error,
		"theme":      snap.Theme,
		"createTime": snap.CreateTime.Format(time.RFC3339),
		"updateTime": snap.UpdateTime.Format(time.RFC3339),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to marshal session: %v", err)
	}
	return pb, nil
}
