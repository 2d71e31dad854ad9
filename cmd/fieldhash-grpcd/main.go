// fieldhash-grpcd serves the Hasher gRPC service over a directory of YAML
// document schemas.
package main

import (
	"net"
	"os"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"

	"fieldhash.dev/fieldhash/docschema"
	"fieldhash.dev/fieldhash/grpchash"
	"fieldhash.dev/fieldhash/hashing"
)

type config struct {
	GRPCAddr  string `envconfig:"FH_GRPC_ADDR" default:"127.0.0.1:7979"`
	SchemaDir string `envconfig:"FH_SCHEMA_DIR" required:"true"`
	LogLevel  string `envconfig:"FH_LOG_LEVEL" default:"info"`
}

func main() {
	var cfg config
	if err := envconfig.Process("fh", &cfg); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	defer logger.Sync()

	schemas, err := docschema.LoadSetDir(cfg.SchemaDir)
	if err != nil {
		logger.Fatal("loading schemas", zap.Error(err))
	}
	logger.Info("schemas loaded",
		zap.Strings("schemas", schemas.Names()),
		zap.Strings("algorithms", hashing.SupportedAlgorithms()),
	)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpchash.RegisterHasherServer(s, grpchash.NewServer(schemas))

	logger.Info("fieldhash-grpcd listening", zap.String("addr", lis.Addr().String()))
	if err := s.Serve(lis); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
