// Command seed-catalog loads furniture seed files into the data directory
// consumed by the API server, and optionally seeds an API key.
//
// Seed files are JSON arrays of furniture items; files ending in .gz are
// decompressed on the fly. Multiple files are parsed concurrently and merged
// into a single catalog.json.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/oakhaus/furnish/internal/domain/auth"
	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/storage/jsonfile"
)

func main() {
	var (
		dataDir      string
		apiKey       string
		apiKeyPepper string
		apiKeyUser   string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory to write catalog.json and apikeys.json into")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or FURNISH_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or FURNISH_API_KEY_PEPPER env)")
	flag.StringVar(&apiKeyUser, "api-key-user", "seed-user", "user id the seeded API key authenticates as")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one furniture seed file is required")
		os.Exit(1)
	}

	if apiKey == "" {
		apiKey = os.Getenv("FURNISH_SEED_API_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("FURNISH_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, files, apiKey, apiKeyPepper, apiKeyUser); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, dataDir string, files []string, apiKey, pepper, userID string) error {
	items, err := parseSeedFiles(ctx, files)
	if err != nil {
		return err
	}

	// Validate the merged set the same way the server does at startup, so a
	// bad seed fails here instead of at boot.
	cat := catalog.New()
	if err := cat.Load(items); err != nil {
		return errors.Wrap(err, "validate seed items")
	}

	slog.Info("writing catalog", slog.String("dir", dataDir), slog.Int("items", len(items)))
	if err := jsonfile.NewCatalogFile(dataDir).SaveAll(cat.Snapshot()); err != nil {
		return errors.Wrap(err, "write catalog")
	}

	if apiKey != "" {
		if err := seedAPIKey(dataDir, apiKey, pepper, userID); err != nil {
			return errors.Wrap(err, "seed api key")
		}
	}
	return nil
}

// parseSeedFiles reads every seed file concurrently and merges the results
// in argument order so repeated runs produce identical output.
func parseSeedFiles(ctx context.Context, files []string) ([]catalog.Item, error) {
	perFile := make([][]catalog.Item, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			items, err := parseSeedFile(path)
			if err != nil {
				return errors.Wrapf(err, "parse %s", path)
			}
			perFile[i] = items
			slog.Info("parsed seed file", slog.String("path", path), slog.Int("items", len(items)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []catalog.Item
	for _, items := range perFile {
		merged = append(merged, items...)
	}
	return merged, nil
}

func parseSeedFile(path string) ([]catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer gz.Close()
		r = gz
	}

	var items []catalog.Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return items, nil
}

// seedAPIKey writes apikeys.json containing the HMAC-SHA256 hash of the
// given key, mirroring what the server's security middleware computes.
func seedAPIKey(dataDir, apiKey, pepper, userID string) error {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	hash := hex.EncodeToString(mac.Sum(nil))

	keys := []auth.APIKeyInfo{{
		KeyHash: hash,
		UserID:  userID,
		Name:    "seeded",
		Active:  true,
	}}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	path := filepath.Join(dataDir, "apikeys.json")
	slog.Info("writing api keys", slog.String("path", path), slog.String("user", userID))
	return os.WriteFile(path, data, 0o600)
}
