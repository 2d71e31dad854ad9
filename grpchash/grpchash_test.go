package grpchash

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"fieldhash.dev/fieldhash/docschema"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	set, err := docschema.NewSet(&docschema.Schema{
		Name: "person",
		Fields: []docschema.FieldDef{
			{Name: "name", Order: 1},
			{Name: "age", Order: 2},
		},
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterHasherServer(srv, NewServer(set))

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewHasherClient(cc), Timeout: 2 * time.Second}
}

func TestGRPCHash_RoundTrip(t *testing.T) {
	client := newTestClient(t)

	doc := map[string]any{"name": "John Doe", "age": 30}
	got, err := client.Hash("person", "", doc)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	want := "68MhDYWaHp32aTr3UL3wy805NKvTT+JZQlGWeMqvt68="
	if got != want {
		t.Fatalf("hash = %s, want %s", got, want)
	}

	// Same document again must hash identically.
	again, err := client.Hash("person", "sha2-256", doc)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if again != got {
		t.Fatalf("repeat hash = %s, want %s", again, got)
	}
}

func TestGRPCHash_IgnoresUndeclaredMembers(t *testing.T) {
	client := newTestClient(t)

	a, err := client.Hash("person", "", map[string]any{"name": "John Doe", "age": 30})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := client.Hash("person", "", map[string]any{"name": "John Doe", "age": 30, "shoe": 44})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("undeclared member changed the hash: %s vs %s", a, b)
	}
}

func TestGRPCHash_Errors(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Hash("", "", map[string]any{"name": "x"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("missing schema name: %v", err)
	}
	_, err = client.Hash("no-such-schema", "", map[string]any{"name": "x"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("unknown schema: %v", err)
	}
	_, err = client.Hash("person", "MD9", map[string]any{"name": "x"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("unknown algorithm: %v", err)
	}
}

func TestGRPCAlgorithms(t *testing.T) {
	client := newTestClient(t)

	algs, err := client.Algorithms()
	if err != nil {
		t.Fatalf("Algorithms: %v", err)
	}
	if len(algs) == 0 {
		t.Fatal("algorithm list must not be empty")
	}
	found := false
	for _, id := range algs {
		if id == "sha2-256" {
			found = true
		}
	}
	if !found {
		t.Fatalf("sha2-256 missing from %v", algs)
	}
}
