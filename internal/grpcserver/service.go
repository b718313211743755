package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName        = "fusiondex.Catalog"
	methodGetSprite    = "/fusiondex.Catalog/GetSprite"
	methodCountFusions = "/fusiondex.Catalog/CountFusions"
	methodFusionTotals = "/fusiondex.Catalog/FusionTotals"
)

// ServiceDesc describes fusiondex.Catalog for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSprite", Handler: getSpriteHandler},
		{MethodName: "CountFusions", Handler: countFusionsHandler},
		{MethodName: "FusionTotals", Handler: fusionTotalsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fusiondex/catalog",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func getSpriteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSpriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetSprite(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetSprite}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetSprite(ctx, req.(*GetSpriteRequest))
	})
}

func countFusionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CountFusionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).CountFusions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCountFusions}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).CountFusions(ctx, req.(*CountFusionsRequest))
	})
}

func fusionTotalsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FusionTotalsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).FusionTotals(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodFusionTotals}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).FusionTotals(ctx, req.(*FusionTotalsRequest))
	})
}

// Client calls fusiondex.Catalog over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetSprite(ctx context.Context, in *GetSpriteRequest, opts ...grpc.CallOption) (*GetSpriteResponse, error) {
	out := new(GetSpriteResponse)
	if err := c.invoke(ctx, methodGetSprite, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CountFusions(ctx context.Context, in *CountFusionsRequest, opts ...grpc.CallOption) (*CountFusionsResponse, error) {
	out := new(CountFusionsResponse)
	if err := c.invoke(ctx, methodCountFusions, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FusionTotals(ctx context.Context, in *FusionTotalsRequest, opts ...grpc.CallOption) (*FusionTotalsResponse, error) {
	out := new(FusionTotalsResponse)
	if err := c.invoke(ctx, methodFusionTotals, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
