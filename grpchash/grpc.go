// Package grpchash exposes the hash pipeline as a gRPC service for callers
// that hold JSON documents rather than compiled-in Go types.
package grpchash

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// HasherServer is the server API for the Hasher gRPC service.
//
// We intentionally use protobuf well-known types (Struct, wrappers) so this
// package does not require a protoc/codegen toolchain.
//
// Hash request Struct fields:
//   - "schema": string, name of a server-side document schema
//   - "algorithm": string, optional digest algorithm (default sha2-256)
//   - "document": object, the JSON document to hash
//
// Proto definition: hasher.proto.
type HasherServer interface {
	Hash(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Algorithms(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// UnimplementedHasherServer can be embedded to have forward compatible implementations.
type UnimplementedHasherServer struct{}

func (UnimplementedHasherServer) Hash(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Hash not implemented")
}
func (UnimplementedHasherServer) Algorithms(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Algorithms not implemented")
}

// RegisterHasherServer registers the Hasher service on a gRPC server.
func RegisterHasherServer(s grpc.ServiceRegistrar, srv HasherServer) {
	s.RegisterService(&Hasher_ServiceDesc, srv)
}

// HasherClient is the client API for the Hasher gRPC service.
type HasherClient interface {
	Hash(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Algorithms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type hasherClient struct{ cc grpc.ClientConnInterface }

func NewHasherClient(cc grpc.ClientConnInterface) HasherClient { return &hasherClient{cc: cc} }

func (c *hasherClient) Hash(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, "/fieldhash.grpchash.v1.Hasher/Hash", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hasherClient) Algorithms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	err := c.cc.Invoke(ctx, "/fieldhash.grpchash.v1.Hasher/Algorithms", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Hasher_Hash_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HasherServer).Hash(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/fieldhash.grpchash.v1.Hasher/Hash"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HasherServer).Hash(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Hasher_Algorithms_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HasherServer).Algorithms(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/fieldhash.grpchash.v1.Hasher/Algorithms"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HasherServer).Algorithms(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Hasher_ServiceDesc is the grpc.ServiceDesc for the Hasher service.
var Hasher_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "fieldhash.grpchash.v1.Hasher",
	HandlerType: (*HasherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Hash", Handler: _Hasher_Hash_Handler},
		{MethodName: "Algorithms", Handler: _Hasher_Algorithms_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hasher.proto",
}
