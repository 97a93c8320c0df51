package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/bmpsync/internal/shared"
	tu "github.com/desertthunder/bmpsync/internal/testing"
)

type testEnv struct {
	dir        string
	dbPath     string
	configPath string
	server     *httptest.Server
}

// newTestEnv starts a listing server and writes a config pointing at it and a SQLite database.
func newTestEnv(t *testing.T, page string) *testEnv {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		dbPath:     filepath.Join(dir, "songs.db"),
		configPath: filepath.Join(dir, "config.toml"),
		server:     server,
	}

	config := fmt.Sprintf(`[scraper]
url = "%s/?sort=0"
base_url = "%s/"
timeout_seconds = 5

[sync]
submitter = "bmp"

[database]
driver = "sqlite3"
path = "%s"
`, server.URL, server.URL, filepath.ToSlash(env.dbPath))

	if err := os.WriteFile(env.configPath, []byte(config), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return env
}

// migrate creates the schema and optionally seeds the bmp user.
func (e *testEnv) migrate(t *testing.T, seedUser bool) {
	t.Helper()
	ctx := context.Background()

	db, err := shared.NewDatabase(ctx, shared.DriverSQLite, e.dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(ctx, db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if seedUser {
		if _, err := db.Exec(`INSERT INTO "user" (id, name, email) VALUES ($1, $2, $3)`, "bmp-id", "bmp", "bmp@example.com"); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
}

func (e *testEnv) countSongs(t *testing.T) int {
	t.Helper()

	db, err := shared.NewDatabase(context.Background(), shared.DriverSQLite, e.dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM song`).Scan(&n); err != nil {
		t.Fatalf("failed to count songs: %v", err)
	}
	return n
}

// run executes the CLI with the env's config and returns the captured output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
	})

	argv := append([]string{"bmpsync", "--config", e.configPath, "--env-file", filepath.Join(e.dir, ".env")}, args...)
	err := runner.app().Run(context.Background(), argv)
	return output.String(), err
}

func listing() string {
	return tu.ListingPage(
		tu.Entry{Href: "?dl=42", Title: "Solo Performance", Author: "Alice", Source: "FFXIV"},
		tu.Entry{Href: "?dl=43", Title: "Overture", Author: "Bob", Comment: "T1 T2"},
		tu.Entry{Title: "No link"},
	)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected stdout as default output")
			}
			if runner.openDB == nil {
				t.Error("expected database opener to be set")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		names := []string{}
		for _, c := range runner.register() {
			names = append(names, c.Name)
		}

		if strings.Join(names, ",") != "sync,tags,setup" {
			t.Errorf("unexpected commands: %v", names)
		}
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("explicit missing config fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
			missing := filepath.Join(t.TempDir(), "missing.toml")

			err := runner.app().Run(context.Background(), []string{"bmpsync", "--config", missing, "tags", "classify", "duet"})
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("flags override config", func(t *testing.T) {
			env := newTestEnv(t, listing())
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})

			err := runner.app().Run(context.Background(), []string{
				"bmpsync", "--config", env.configPath, "--url", "https://other.example/?sort=1", "--user", "alice",
				"tags", "classify", "solo",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if runner.config.Scraper.URL != "https://other.example/?sort=1" {
				t.Errorf("expected url override, got %s", runner.config.Scraper.URL)
			}
			if runner.config.Sync.Submitter != "alice" {
				t.Errorf("expected user override, got %s", runner.config.Sync.Submitter)
			}
			if runner.config.Database.Driver != shared.DriverSQLite {
				t.Errorf("expected driver from config file, got %s", runner.config.Database.Driver)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"tags": "duet"}, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := output.String(); got != "{\"tags\":\"duet\"}\n" {
				t.Errorf("unexpected output: %q", got)
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain write failure", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

		if err := runner.writePlain("hello %s", "world"); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestSyncCommand(t *testing.T) {
	t.Run("stores new songs then skips them", func(t *testing.T) {
		env := newTestEnv(t, listing())
		env.migrate(t, true)

		out, err := env.run(t, "sync", "run")
		if err != nil {
			t.Fatalf("first sync failed: %v", err)
		}
		if !strings.Contains(out, "2 scraped, 2 new songs stored in database.") {
			t.Errorf("unexpected summary: %q", out)
		}
		if n := env.countSongs(t); n != 2 {
			t.Errorf("expected 2 songs, got %d", n)
		}

		out, err = env.run(t)
		if err != nil {
			t.Fatalf("second sync failed: %v", err)
		}
		if !strings.Contains(out, "No new songs to add to the database.") {
			t.Errorf("expected no-new-songs message, got %q", out)
		}
		if !strings.Contains(out, "2 scraped, 0 new songs stored in database.") {
			t.Errorf("unexpected summary: %q", out)
		}
		if n := env.countSongs(t); n != 2 {
			t.Errorf("expected 2 songs after rerun, got %d", n)
		}
	})

	t.Run("aborts when submitter is missing", func(t *testing.T) {
		env := newTestEnv(t, listing())
		env.migrate(t, false)

		out, err := env.run(t, "sync", "run")
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		if !strings.Contains(out, "No user with 'bmp' name found in database. Aborting.") {
			t.Errorf("unexpected output: %q", out)
		}
		if n := env.countSongs(t); n != 0 {
			t.Errorf("expected no songs, got %d", n)
		}
	})

	t.Run("aborts on empty listing", func(t *testing.T) {
		env := newTestEnv(t, tu.ListingPage())
		env.migrate(t, true)

		out, err := env.run(t, "sync", "run")
		if !errors.Is(err, shared.ErrNoSongs) {
			t.Fatalf("expected ErrNoSongs, got %v", err)
		}
		if !strings.Contains(out, "No songs found. Is BMP down?") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		env := newTestEnv(t, listing())
		data, err := os.ReadFile(env.configPath)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
		bogus := strings.Replace(string(data), `driver = "sqlite3"`, `driver = "mysql"`, 1)
		if err := os.WriteFile(env.configPath, []byte(bogus), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		_, err = env.run(t, "sync", "run")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("scrape prints json", func(t *testing.T) {
		env := newTestEnv(t, listing())

		out, err := env.run(t, "sync", "scrape", "--format", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{`"external_id"`, `"42"`, `"43"`, `"duet"`} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %s in output: %s", want, out)
			}
		}
	})

	t.Run("scrape writes csv file", func(t *testing.T) {
		env := newTestEnv(t, listing())
		path := filepath.Join(env.dir, "songs.csv")

		out, err := env.run(t, "sync", "scrape", "--format", "csv", "--output", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "2 songs written to") {
			t.Errorf("unexpected output: %q", out)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "ID,Title,Author,Source,Comment,Tags,Download") {
			t.Errorf("unexpected csv header: %q", string(data))
		}
	})

	t.Run("scrape rejects unknown format", func(t *testing.T) {
		env := newTestEnv(t, listing())

		_, err := env.run(t, "sync", "scrape", "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestTagsCommand(t *testing.T) {
	env := newTestEnv(t, listing())

	t.Run("classifies title", func(t *testing.T) {
		out, err := env.run(t, "tags", "classify", "Quartet for Strings")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(out) != "quartet" {
			t.Errorf("expected quartet, got %q", out)
		}
	})

	t.Run("counts track markers in comment", func(t *testing.T) {
		out, err := env.run(t, "tags", "classify", "--comment", "T1 T2 T3", "Overture")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(out) != "trio" {
			t.Errorf("expected trio, got %q", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		out, err := env.run(t, "tags", "classify", "--json", "Duo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `"tags":["duet"]`) {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("no tags", func(t *testing.T) {
		out, err := env.run(t, "tags", "classify", "Overture")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(out) != "(no tags)" {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := env.run(t, "tags", "classify")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("database creates schema", func(t *testing.T) {
		env := newTestEnv(t, listing())

		out, err := env.run(t, "setup", "database")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Database schema is up to date") {
			t.Errorf("unexpected output: %q", out)
		}
		if n := env.countSongs(t); n != 0 {
			t.Errorf("expected empty song table, got %d", n)
		}
	})

	t.Run("config writes template", func(t *testing.T) {
		env := newTestEnv(t, listing())
		path := filepath.Join(env.dir, "new.toml")

		if _, err := env.run(t, "setup", "config", "--output", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load written config: %v", err)
		}
		if config.Sync.Submitter != "bmp" {
			t.Errorf("expected default submitter, got %s", config.Sync.Submitter)
		}
	})
}
