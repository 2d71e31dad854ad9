package grpchash

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a convenience wrapper over the Hasher gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client HasherClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewHasherClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Hash requests the digest of document under the named server-side schema.
// An empty algID selects the server's default algorithm.
func (c *Client) Hash(schemaName, algID string, document map[string]any) (string, error) {
	docVal, err := structpb.NewStruct(document)
	if err != nil {
		return "", fmt.Errorf("grpchash: encoding document: %w", err)
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"schema":   structpb.NewStringValue(schemaName),
		"document": structpb.NewStructValue(docVal),
	}}
	if algID != "" {
		req.Fields["algorithm"] = structpb.NewStringValue(algID)
	}

	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.Hash(ctx, req)
	if err != nil {
		return "", err
	}
	return reply.GetValue(), nil
}

// Algorithms returns the server's supported algorithm identifiers.
func (c *Client) Algorithms() ([]string, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.Algorithms(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(reply.GetValues()))
	for _, v := range reply.GetValues() {
		out = append(out, v.GetStringValue())
	}
	return out, nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(context.Background(), c.Timeout)
	}
	return context.WithCancel(context.Background())
}
