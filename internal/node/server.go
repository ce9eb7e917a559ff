package node

import (
	"context"
	"log/slog"
	"slices"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lwwpb "lwwset/internal/api/lwwpb"
	"lwwset/internal/lww"
)

// Server implements the LWWSet gRPC service over one replica.
type Server struct {
	lwwpb.UnimplementedLWWSetServer
	set     *lww.Set[string, int64]
	nodeID  string
	logger  *slog.Logger
	metrics *Metrics
}

// NewServer creates a new gRPC server instance. metrics may be nil.
func NewServer(set *lww.Set[string, int64], nodeID string, logger *slog.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		set:     set,
		nodeID:  nodeID,
		logger:  logger.With("node", nodeID),
		metrics: metrics,
	}
}

// Add handles Add requests. A zero timestamp is replaced by the replica clock.
func (s *Server) Add(ctx context.Context, req *lwwpb.AddRequest) (*lwwpb.MutationResponse, error) {
	if req.Element == "" {
		return nil, status.Error(codes.InvalidArgument, "element cannot be empty")
	}

	ts := req.Timestamp
	if ts == 0 {
		var err error
		if ts, err = s.set.AddNow(req.Element); err != nil {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
	} else {
		s.set.Add(req.Element, ts)
	}

	s.logger.Info("add", "element", req.Element, "ts", ts, "request_id", req.RequestId)
	s.metrics.observeOp("add")
	return &lwwpb.MutationResponse{Timestamp: ts}, nil
}

// Remove handles Remove requests. A zero timestamp is replaced by the replica clock.
func (s *Server) Remove(ctx context.Context, req *lwwpb.RemoveRequest) (*lwwpb.MutationResponse, error) {
	if req.Element == "" {
		return nil, status.Error(codes.InvalidArgument, "element cannot be empty")
	}

	ts := req.Timestamp
	if ts == 0 {
		var err error
		if ts, err = s.set.RemoveNow(req.Element); err != nil {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
	} else {
		s.set.Remove(req.Element, ts)
	}

	s.logger.Info("remove", "element", req.Element, "ts", ts, "request_id", req.RequestId)
	s.metrics.observeOp("remove")
	return &lwwpb.MutationResponse{Timestamp: ts}, nil
}

// Exists handles Exists requests.
func (s *Server) Exists(ctx context.Context, req *lwwpb.ExistsRequest) (*lwwpb.ExistsResponse, error) {
	if req.Element == "" {
		return nil, status.Error(codes.InvalidArgument, "element cannot be empty")
	}

	s.metrics.observeOp("exists")
	return &lwwpb.ExistsResponse{Exists: s.set.Probe(req.Element)}, nil
}

// Get handles Get requests. Elements are returned sorted for readability;
// clients must not rely on the order.
func (s *Server) Get(ctx context.Context, req *lwwpb.GetRequest) (*lwwpb.GetResponse, error) {
	elements := s.set.Get()
	slices.Sort(elements)

	s.logger.Debug("get", "count", len(elements))
	s.metrics.observeOp("get")
	return &lwwpb.GetResponse{Elements: elements}, nil
}

// State returns a dump of both logs.
func (s *Server) State(ctx context.Context, req *lwwpb.StateRequest) (*lwwpb.StateResponse, error) {
	s.logger.Debug("state dump", "dump", s.set.Dump())
	s.metrics.observeOp("state")

	resp := stateToProto(s.set.State())
	resp.NodeId = s.nodeID
	return resp, nil
}
