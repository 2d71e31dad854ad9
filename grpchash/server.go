package grpchash

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"fieldhash.dev/fieldhash/canonical"
	"fieldhash.dev/fieldhash/digest"
	"fieldhash.dev/fieldhash/docschema"
	"fieldhash.dev/fieldhash/hashing"
)

// Server exposes a docschema.Set over the Hasher gRPC service.
//
// Documents arrive as protobuf Structs, so all numbers are float64 on the
// wire; callers needing literal-exact integers should use the library or
// CLI, which decode JSON with number literals intact.
type Server struct {
	UnimplementedHasherServer

	schemas *docschema.Set
	hasher  *hashing.Hasher
}

// NewServer returns a Server hashing documents against schemas.
func NewServer(schemas *docschema.Set) *Server {
	return &Server{schemas: schemas, hasher: hashing.New(schemas)}
}

func (s *Server) Hash(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.schemas == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing schema set")
	}

	fields := in.GetFields()
	schemaName := fields["schema"].GetStringValue()
	if schemaName == "" {
		return nil, status.Error(codes.InvalidArgument, "missing schema name")
	}
	algID := fields["algorithm"].GetStringValue()
	if algID == "" {
		algID = digest.Default
	}
	docStruct := fields["document"].GetStructValue()
	if docStruct == nil {
		return nil, status.Error(codes.InvalidArgument, "missing document object")
	}

	doc, err := s.schemas.Doc(schemaName, docStruct.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	text, err := s.hasher.Hash(doc, algID)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(text), nil
}

func (s *Server) Algorithms(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	_ = ctx
	ids := hashing.SupportedAlgorithms()
	vals := make([]*structpb.Value, 0, len(ids))
	for _, id := range ids {
		vals = append(vals, structpb.NewStringValue(id))
	}
	return &structpb.ListValue{Values: vals}, nil
}

func mapErr(err error) error {
	switch {
	case canonical.IsKind(err, canonical.KindAlgorithm):
		return status.Error(codes.InvalidArgument, err.Error())
	case canonical.IsKind(err, canonical.KindSchema):
		return status.Error(codes.FailedPrecondition, err.Error())
	case canonical.IsKind(err, canonical.KindEncode), canonical.IsKind(err, canonical.KindCanonical):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
