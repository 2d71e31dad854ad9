// fieldhash is the command-line front end for the hash pipeline: it hashes
// JSON documents against YAML-declared field schemas.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fieldhash.dev/fieldhash/canonical"
	"fieldhash.dev/fieldhash/canonjson"
	"fieldhash.dev/fieldhash/canonpack"
	"fieldhash.dev/fieldhash/digest"
	"fieldhash.dev/fieldhash/docschema"
	"fieldhash.dev/fieldhash/hashing"
	"fieldhash.dev/fieldhash/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "hash":
		return cmdHash(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "algorithms":
		return cmdAlgorithms(args[1:], out, errOut)
	case "schema":
		return cmdSchema(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "fieldhash: deterministic field-selective hashing for JSON documents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fieldhash hash --schema <schemas.yaml> --root <name> [--alg <id>] [--encoder json|msgpack] [--cid] [--store <dir>] [file]")
	fmt.Fprintln(w, "  fieldhash verify --schema <schemas.yaml> --root <name> --hash <text> [--alg <id>] [--encoder json|msgpack] [file]")
	fmt.Fprintln(w, "  fieldhash algorithms")
	fmt.Fprintln(w, "  fieldhash schema check <schemas.yaml>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - the document is read from file, or stdin when no file is given")
	fmt.Fprintln(w, "  - --root names the schema applied to the document's top level")
	fmt.Fprintln(w, "  - --cid prints a CIDv1 over the canonical bytes instead of Base64 text")
	fmt.Fprintln(w, "  - --store writes the canonical bytes into a local content-addressed dir")
	fmt.Fprintln(w, "  - hashes are only comparable for the same encoder")
}

func cmdHash(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var schemaPath, rootName, algID, encoderName, storeDir string
	var asCID bool
	fs.StringVar(&schemaPath, "schema", "", "YAML schema file")
	fs.StringVar(&rootName, "root", "", "schema applied to the document root")
	fs.StringVar(&algID, "alg", digest.Default, "digest algorithm")
	fs.StringVar(&encoderName, "encoder", "json", "canonical encoder: json or msgpack")
	fs.StringVar(&storeDir, "store", "", "store canonical bytes under this directory")
	fs.BoolVar(&asCID, "cid", false, "print a CIDv1 instead of Base64 digest text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	hasher, doc, code := pipelineFor(fs, schemaPath, rootName, encoderName, errOut)
	if code != 0 {
		return code
	}

	if asCID {
		id, err := hasher.HashCID(doc, algID)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, id.String())
	} else {
		text, err := hasher.Hash(doc, algID)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, text)
	}

	if storeDir != "" {
		b, err := hasher.CanonicalBytes(doc)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		store, err := localfs.New(storeDir)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		id, err := store.Put(b)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintf(errOut, "stored canonical bytes as %s\n", id.String())
	}
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var schemaPath, rootName, algID, encoderName, wantHash string
	fs.StringVar(&schemaPath, "schema", "", "YAML schema file")
	fs.StringVar(&rootName, "root", "", "schema applied to the document root")
	fs.StringVar(&algID, "alg", digest.Default, "digest algorithm")
	fs.StringVar(&encoderName, "encoder", "json", "canonical encoder: json or msgpack")
	fs.StringVar(&wantHash, "hash", "", "expected Base64 digest text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if wantHash == "" {
		fmt.Fprintln(errOut, "verify: --hash is required")
		return 2
	}

	hasher, doc, code := pipelineFor(fs, schemaPath, rootName, encoderName, errOut)
	if code != 0 {
		return code
	}
	got, err := hasher.Hash(doc, algID)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if got != wantHash {
		fmt.Fprintf(errOut, "mismatch: document hashes to %s\n", got)
		return 1
	}
	fmt.Fprintln(out, "ok")
	return 0
}

func cmdAlgorithms(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("algorithms", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ids := hashing.SupportedAlgorithms()
	sort.Strings(ids)
	for _, id := range ids {
		if id == digest.Default {
			fmt.Fprintf(out, "%s (default)\n", id)
			continue
		}
		fmt.Fprintln(out, id)
	}
	return 0
}

func cmdSchema(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 2 || args[0] != "check" {
		fmt.Fprintln(errOut, "usage: fieldhash schema check <schemas.yaml>")
		return 2
	}
	set, err := docschema.LoadSetFile(args[1])
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "ok: %s\n", strings.Join(set.Names(), ", "))
	return 0
}

// pipelineFor builds the hasher and the wrapped document from the common
// hash/verify flags. A non-zero third return is the exit code to use.
func pipelineFor(fs *flag.FlagSet, schemaPath, rootName, encoderName string, errOut io.Writer) (*hashing.Hasher, docschema.Doc, int) {
	if schemaPath == "" || rootName == "" {
		fmt.Fprintln(errOut, "both --schema and --root are required")
		return nil, docschema.Doc{}, 2
	}
	var encoder canonical.Encoder
	switch encoderName {
	case "json":
		encoder = canonjson.New()
	case "msgpack":
		encoder = canonpack.New()
	default:
		fmt.Fprintf(errOut, "unknown encoder %q\n", encoderName)
		return nil, docschema.Doc{}, 2
	}

	set, err := docschema.LoadSetFile(schemaPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, docschema.Doc{}, 1
	}

	data, err := readDocument(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, docschema.Doc{}, 1
	}
	raw, err := docschema.DecodeDocument(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, docschema.Doc{}, 1
	}
	doc, err := set.Doc(rootName, raw)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, docschema.Doc{}, 1
	}

	return hashing.New(set, hashing.WithEncoder(encoder)), doc, 0
}

func readDocument(fs *flag.FlagSet) ([]byte, error) {
	switch fs.NArg() {
	case 0:
		return io.ReadAll(os.Stdin)
	case 1:
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(fs.Arg(0)), err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("expected at most one document file")
	}
}
