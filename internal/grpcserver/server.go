// Package grpcserver exposes catalog lookups over gRPC. Messages are plain
// structs carried by a JSON codec.
package grpcserver

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fusiondex/internal/catalog"
	"fusiondex/internal/fusion"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/apperr"
)

type CatalogServer interface {
	GetSprite(context.Context, *GetSpriteRequest) (*GetSpriteResponse, error)
	CountFusions(context.Context, *CountFusionsRequest) (*CountFusionsResponse, error)
	FusionTotals(context.Context, *FusionTotalsRequest) (*FusionTotalsResponse, error)
}

type Server struct {
	Store      *catalog.Store
	Aggregator *fusion.Aggregator
}

func NewServer(store *catalog.Store, workers int) *Server {
	return &Server{Store: store, Aggregator: fusion.NewAggregator(store, workers)}
}

func (s *Server) GetSprite(ctx context.Context, req *GetSpriteRequest) (*GetSpriteResponse, error) {
	if req == nil || req.SpriteID == "" {
		return nil, status.Error(codes.InvalidArgument, "sprite_id required")
	}
	id, err := sprite.Parse(req.SpriteID)
	if err != nil {
		return nil, toStatus(err)
	}

	img, err := s.Store.GetImage(ctx, id.String())
	if err != nil {
		return nil, toStatus(err)
	}
	if img == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}
	entries, err := s.Store.DexEntriesFor(ctx, id.String())
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetSpriteResponse{Image: img, DexEntries: entries}, nil
}

func (s *Server) CountFusions(ctx context.Context, req *CountFusionsRequest) (*CountFusionsResponse, error) {
	if req == nil || req.Species < 1 || req.Species > sprite.MaxSpecies {
		return nil, status.Errorf(codes.InvalidArgument, "species must be in [1, %d]", sprite.MaxSpecies)
	}
	fc, err := s.Store.FusionCount(ctx, req.Species)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CountFusionsResponse{Species: req.Species, Head: fc.Head, Body: fc.Body}, nil
}

func (s *Server) FusionTotals(ctx context.Context, req *FusionTotalsRequest) (*FusionTotalsResponse, error) {
	from, to := 1, sprite.MaxSpecies
	if req != nil && req.From != 0 {
		from = req.From
	}
	if req != nil && req.To != 0 {
		to = req.To
	}
	if from < 1 || to > sprite.MaxSpecies || from > to {
		return nil, status.Errorf(codes.InvalidArgument, "range must lie in [1, %d]", sprite.MaxSpecies)
	}

	totals, err := s.Aggregator.ComputeFusionTotals(ctx, from, to)
	if err != nil {
		return nil, toStatus(err)
	}
	return &FusionTotalsResponse{Totals: totals}, nil
}

func toStatus(err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindParse:
		return status.Error(codes.InvalidArgument, err.Error())
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case apperr.KindOutOfBounds:
		return status.Error(codes.OutOfRange, err.Error())
	}
	if ctxErr := status.FromContextError(err); ctxErr.Code() != codes.Unknown {
		return ctxErr.Err()
	}
	return status.Error(codes.Internal, "internal error")
}

// UnaryLogger logs every call with its status code and latency.
func UnaryLogger(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"took", time.Since(start),
		)
		return resp, err
	}
}
