// Command margo lists, extracts, creates, and verifies Mozilla Archive
// (MAR) files from the command line.
package main

import (
	"crypto/rsa"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mozilla-services/margo/mar"
	"github.com/mozilla-services/margo/mar/compress"
	"github.com/mozilla-services/margo/mar/keys"
	"github.com/mozilla-services/margo/mar/sign"
)

// Exit codes, per the CLI's external contract.
const (
	exitOK              = 0
	exitUsageError      = 1
	exitIoError         = 2
	exitFormatError     = 3
	exitVerificationErr = 4
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("margo", flag.ContinueOnError)
	var (
		listFile    string
		listDetail  string
		extractFile string
		createFile  string
		verifyFile  string
		useBzip2    bool
		useXZ       bool
		keySel      string
		channel     string
		prodVersion string
		showVersion bool
		debug       bool
	)
	fs.StringVar(&listFile, "t", "", "list contents of `FILE`")
	fs.StringVar(&listDetail, "T", "", "list contents of `FILE` with detail")
	fs.StringVar(&extractFile, "x", "", "extract all members of `FILE` into the current directory")
	fs.StringVar(&createFile, "c", "", "create `FILE` from the paths given as remaining arguments")
	fs.StringVar(&verifyFile, "v", "", "verify the signatures on `FILE`")
	fs.BoolVar(&useBzip2, "j", false, "use bzip2 compression, for -c (extraction auto-detects)")
	fs.BoolVar(&useXZ, "J", false, "use xz compression, for -c (extraction auto-detects)")
	fs.StringVar(&keySel, "k", "", "key: a path to a PEM key, or :name for a built-in key set")
	fs.StringVar(&channel, "H", "", "update channel, for -c")
	fs.StringVar(&prodVersion, "V", "", "product version, for -c")
	fs.BoolVar(&showVersion, "version", false, "print the build version and exit")
	fs.BoolVar(&debug, "debug", false, "print debug logs")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: margo [-t|-T|-x|-c|-v] FILE [options] [paths...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if showVersion {
		fmt.Println(version)
		return exitOK
	}

	modes := map[string]string{"-t": listFile, "-T": listDetail, "-x": extractFile, "-c": createFile, "-v": verifyFile}
	selected := 0
	var mode, target string
	for name, val := range modes {
		if val != "" {
			selected++
			mode, target = name, val
		}
	}
	if selected != 1 {
		fmt.Fprintln(os.Stderr, "margo: exactly one of -t, -T, -x, -c, -v is required")
		fs.Usage()
		return exitUsageError
	}
	if useBzip2 && useXZ {
		fmt.Fprintln(os.Stderr, "margo: -j and -J are mutually exclusive")
		return exitUsageError
	}

	switch mode {
	case "-t":
		return doList(target, false)
	case "-T":
		return doList(target, true)
	case "-x":
		return doExtract(target)
	case "-c":
		return doCreate(target, fs.Args(), codecFromFlags(useBzip2, useXZ), channel, prodVersion, keySel)
	case "-v":
		return doVerify(target, keySel)
	}
	return exitUsageError
}

func codecFromFlags(bzip2, xz bool) compress.Codec {
	switch {
	case bzip2:
		return compress.CodecBzip2
	case xz:
		return compress.CodecXZ
	default:
		return compress.CodecNone
	}
}

func openReader(path string) (*mar.Reader, *os.File, int) {
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Error("failed to open archive")
		return nil, nil, exitIoError
	}
	r, err := mar.Open(f)
	if err != nil {
		f.Close()
		log.WithError(err).Error("failed to parse archive")
		return nil, nil, exitFormatError
	}
	return r, f, exitOK
}

func doList(path string, detail bool) int {
	r, f, code := openReader(path)
	if r == nil {
		return code
	}
	defer f.Close()

	for _, e := range r.List() {
		if !detail {
			fmt.Printf("%s\t%d\n", e.Name, e.Size)
			continue
		}
		fmt.Printf("%04o\t%10d\t%10d\t%s\n", e.Mode, e.Size, e.Offset, e.Name)
	}
	if detail {
		if info, ok := r.ProductInfo(); ok {
			fmt.Printf("product: channel=%s version=%s\n", info.Channel, info.Version)
		}
		algos := r.Signatures()
		if len(algos) == 0 {
			fmt.Println("signatures: none")
		} else {
			fmt.Printf("signatures: %d declared\n", len(algos))
		}
	}
	return exitOK
}

func doExtract(path string) int {
	r, f, code := openReader(path)
	if r == nil {
		return code
	}
	defer f.Close()

	for _, e := range r.List() {
		if err := extractMember(r, e); err != nil {
			log.WithError(err).WithField("member", e.Name).Error("failed to extract member")
			return exitIoError
		}
	}
	return exitOK
}

func extractMember(r *mar.Reader, e mar.IndexEntry) error {
	name := filepath.FromSlash(e.Name)
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	out, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(e.Mode&0777))
	if err != nil {
		return err
	}
	defer out.Close()
	return r.Extract(e, out)
}

func doCreate(path string, paths []string, codec compress.Codec, channel, version, keySel string) int {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "margo: -c requires at least one path to add")
		return exitUsageError
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.WithError(err).Error("failed to create archive")
		return exitIoError
	}
	defer f.Close()

	if (channel != "") != (version != "") {
		fmt.Fprintln(os.Stderr, "margo: -H and -V must be given together")
		return exitUsageError
	}

	w := mar.NewWriter(f, codec)
	if channel != "" {
		if err := w.SetProductInfo(channel, version); err != nil {
			log.WithError(err).Error("invalid product info")
			return exitFormatError
		}
	}
	if keySel != "" {
		key, algorithmID, err := loadPrivateKey(keySel)
		if err != nil {
			log.WithError(err).Error("failed to load signing key")
			return exitIoError
		}
		if err := w.AddSigner(algorithmID, key); err != nil {
			log.WithError(err).Error("failed to register signer")
			return exitFormatError
		}
	}

	for _, p := range paths {
		if err := addPath(w, p); err != nil {
			log.WithError(err).WithField("path", p).Error("failed to add path")
			return exitIoError
		}
	}

	if err := w.Finalize(); err != nil {
		log.WithError(err).Error("failed to finalize archive")
		return exitFormatError
	}
	return exitOK
}

func addPath(w *mar.Writer, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		name := filepath.ToSlash(path)
		return w.AddMember(name, uint32(info.Mode().Perm()), in)
	})
}

func doVerify(path, keySel string) int {
	r, f, code := openReader(path)
	if r == nil {
		return code
	}
	defer f.Close()

	candidates, err := resolveVerifyKeys(keySel)
	if err != nil {
		log.WithError(err).Error("failed to load verification key")
		return exitIoError
	}

	outcome, err := r.Verify(candidates)
	switch outcome.Kind {
	case mar.OutcomeNoSignatures:
		fmt.Println("no signatures: archive is well-formed and unsigned")
		return exitOK
	case mar.OutcomeVerified:
		fmt.Printf("verified: %d signature(s)\n", outcome.N)
		return exitOK
	case mar.OutcomeUnknownAlgorithm:
		fmt.Printf("unknown algorithm for signature %d\n", outcome.Index)
		return exitVerificationErr
	case mar.OutcomeFailedSignature:
		fmt.Printf("signature %d failed to verify\n", outcome.Index)
		return exitVerificationErr
	default:
		if err != nil {
			log.WithError(err).Error("verify failed")
		}
		return exitVerificationErr
	}
}

// resolveVerifyKeys builds the per-algorithm candidate key map Verify
// needs from a -k selector: either a built-in key set name (":name")
// or a path to a PEM public key, which is registered for both
// declared signature algorithms since a standalone public key file
// doesn't say which one it pairs with.
func resolveVerifyKeys(keySel string) (map[uint32][]*rsa.PublicKey, error) {
	if keySel == "" {
		return nil, nil
	}
	if strings.HasPrefix(keySel, ":") {
		return keys.AnyAlgorithm(strings.TrimPrefix(keySel, ":"))
	}
	pemBytes, err := os.ReadFile(keySel)
	if err != nil {
		return nil, err
	}
	pub, err := sign.ParsePublicKey(pemBytes)
	if err != nil {
		return nil, err
	}
	return map[uint32][]*rsa.PublicKey{
		sign.SigAlgRsaPkcs1Sha1:   {pub},
		sign.SigAlgRsaPkcs1Sha384: {pub},
	}, nil
}

// loadPrivateKey resolves a -k selector to a signing key and the
// algorithm id to declare for it, inferred from the key's modulus
// size (2048-bit for SHA-1, 4096-bit for SHA-384), per spec.
func loadPrivateKey(keySel string) (*rsa.PrivateKey, uint32, error) {
	if strings.HasPrefix(keySel, ":") {
		return nil, 0, fmt.Errorf("margo: %s is a public key set, not usable for signing", keySel)
	}
	pemBytes, err := os.ReadFile(keySel)
	if err != nil {
		return nil, 0, err
	}
	key, err := sign.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, 0, err
	}
	if key.N.BitLen() <= 1024 {
		return nil, 0, fmt.Errorf("margo: %d-bit RSA keys may only verify legacy signatures, not sign new archives", key.N.BitLen())
	}
	algorithmID := uint32(sign.SigAlgRsaPkcs1Sha1)
	if key.N.BitLen() > 2048 {
		algorithmID = sign.SigAlgRsaPkcs1Sha384
	}
	return key, algorithmID, nil
}
