package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/errors"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/store"
)

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	prev := stdout
	stdout = io.Discard
	t.Cleanup(func() { stdout = prev })

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"cache", "completion", "config", "history", "realize", "render", "serve", "topology"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q in %v", name, got)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in       string
		fallback string
		want     []string
	}{
		{"", "json", []string{"json"}},
		{"svg", "json", []string{"svg"}},
		{"JSON, svg,,dot", "json", []string{"json", "svg", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, tt.fallback); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		base    string
		output  string
		want    map[string]string
		wantErr bool
	}{
		{"default base", []string{"json"}, "ring-4.realized", "", map[string]string{"json": "ring-4.realized.json"}, false},
		{"single output", []string{"svg"}, "x", "out/chip.svg", map[string]string{"svg": "out/chip.svg"}, false},
		{"multiple share stem", []string{"json", "dot"}, "x", "out/chip.json", map[string]string{"json": "out/chip.json", "dot": "out/chip.dot"}, false},
		{"stdout", []string{"dot"}, "x", "-", map[string]string{"dot": "-"}, false},
		{"stdout needs one format", []string{"dot", "svg"}, "x", "-", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := artifactPaths(tt.formats, tt.base, tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("artifactPaths() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("artifactPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInputBase(t *testing.T) {
	if got := inputBase("chips/a.json", ""); got != "chips/a.realized" {
		t.Errorf("inputBase(file) = %q", got)
	}
	if got := inputBase("", "grid:3x4"); got != "grid-3x4.realized" {
		t.Errorf("inputBase(topology) = %q", got)
	}
}

func TestRealizeWritesJSON(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "ring.json")

	if err := execute(t, "realize", "--topology", "ring:4", "--skip-fill", "--no-cache", "-o", out); err != nil {
		t.Fatalf("realize error = %v", err)
	}

	res, cfg, err := corralio.ReadRealizationFile(out)
	if err != nil {
		t.Fatalf("ReadRealizationFile() error = %v", err)
	}
	if !res.Feasible() || len(res.Couplers()) != 4 {
		t.Errorf("couplers = %v, want 4", res.Couplers())
	}
	if cfg.MaxQubitDegree != 4 || cfg.MaxCouplerDegree != 2 || !cfg.SkipFill {
		t.Errorf("config = %+v", cfg)
	}

	if err := execute(t, "render", out, "-f", "dot", "--no-cache"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "ring.dot"))
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), `"q0" -- `) && !strings.Contains(string(dot), `-- "q0"`) {
		t.Errorf("DOT has no q0 edge:\n%s", dot)
	}
}

func TestRealizeInfeasible(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "star.json")

	err := execute(t, "realize", "-t", "star:3", "-a", "2", "-b", "2", "--no-cache", "-o", out)
	if !errors.Is(err, errors.ErrCodeInfeasible) {
		t.Fatalf("realize error = %v, want %s", err, errors.ErrCodeInfeasible)
	}
	res, _, err := corralio.ReadRealizationFile(out)
	if err != nil {
		t.Fatalf("infeasible result not written: %v", err)
	}
	if res.Feasible() || res.Blocked.String() != "q0-q3" {
		t.Errorf("Blocked = %v, want q0-q3", res.Blocked)
	}
}

func TestRealizeInvalidInput(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no source", []string{"realize", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"bad topology", []string{"realize", "-t", "hexagon:3", "--no-cache"}, errors.ErrCodeInvalidTopology},
		{"bad caps", []string{"realize", "-t", "ring:4", "-b", "1", "--no-cache"}, errors.ErrCodeInvalidConfig},
		{"bad format", []string{"realize", "-t", "ring:4", "-f", "gif", "--no-cache"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRealizeSaveAndHistory(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "grid.json")

	if err := execute(t, "realize", "-t", "grid:2x3", "--no-cache", "--save", "-o", out); err != nil {
		t.Fatalf("realize error = %v", err)
	}

	st, err := store.NewFileStore(filepath.Join(dir, "data", "corral", "realizations"))
	if err != nil {
		t.Fatal(err)
	}
	recs, err := st.List(context.Background(), 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("List() = %d records, %v", len(recs), err)
	}
	rec := recs[0]
	if rec.Source != "grid:2x3" || len(rec.Pattern.Nodes) != 6 {
		t.Errorf("record = %+v", rec)
	}

	if err := execute(t, "history", "list"); err != nil {
		t.Errorf("history list error = %v", err)
	}
	export := filepath.Join(dir, "export.json")
	if err := execute(t, "history", "show", rec.ID, "-o", export); err != nil {
		t.Errorf("history show error = %v", err)
	}
	if _, err := os.Stat(export); err != nil {
		t.Errorf("export not written: %v", err)
	}
	if err := execute(t, "history", "delete", rec.ID); err != nil {
		t.Errorf("history delete error = %v", err)
	}
	if err := execute(t, "history", "show", rec.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("show deleted = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if err := execute(t, "history", "show", "nope"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("show bad id = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestTopologyShowExport(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "ladder.json")

	if err := execute(t, "topology", "show", "ladder:3", "-o", out); err != nil {
		t.Fatalf("topology show error = %v", err)
	}
	g, err := corralio.ImportGraph(out)
	if err != nil {
		t.Fatalf("ImportGraph() error = %v", err)
	}
	if g.NodeCount() != 6 || g.EdgeCount() != 7 {
		t.Errorf("ladder:3 = %d nodes, %d edges, want 6 and 7", g.NodeCount(), g.EdgeCount())
	}

	if err := execute(t, "realize", out, "--no-cache"); err != nil {
		t.Errorf("realize exported pattern error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ladder.realized.json")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "corral.toml")

	if err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := execute(t, "--config", path, "config", "show"); err != nil {
		t.Errorf("config show error = %v", err)
	}
}

func TestHistoryTable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &store.Record{ID: "a1", Source: "ring:4", CreatedAt: now.Add(-2 * time.Hour)}
	rec.Realization.Feasible = true
	rec.Realization.Config.MaxQubitDegree = 4
	rec.Realization.Config.MaxCouplerDegree = 2

	out := historyTable([]*store.Record{rec}, now)
	for _, want := range []string{"a1", "ring:4", "a=4 b=2", "2h ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("historyTable() missing %q:\n%s", want, out)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "May 11, 2025"},
	}
	for _, tt := range tests {
		if got := relativeTime(now, now.Add(-tt.ago)); got != tt.want {
			t.Errorf("relativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	var buf strings.Builder
	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"dot": []byte("graph G {}\n")},
		formats:   []string{"dot"},
		output:    stdoutPath,
		stdout:    &buf,
	})
	if err != nil || buf.String() != "graph G {}\n" {
		t.Errorf("stdout = %q, %v", buf.String(), err)
	}

	isolate(t)
	base := filepath.Join(t.TempDir(), "nested", "chip")
	err = writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"json": []byte("{}"), "dot": []byte("graph G {}")},
		formats:   []string{"json", "dot", "svg"},
		base:      base,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	for _, ext := range []string{".json", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}
	if _, err := os.Stat(base + ".svg"); !os.IsNotExist(err) {
		t.Errorf("svg written without an artifact")
	}
}

func TestCompleteTopology(t *testing.T) {
	isolate(t)
	got, directive := completeTopology(nil, nil, "gr")
	if len(got) != 1 || !strings.HasPrefix(got[0], "grid:\t") {
		t.Errorf("completeTopology(gr) = %v", got)
	}
	if directive != cobra.ShellCompDirectiveNoSpace {
		t.Errorf("directive = %v", directive)
	}
	if err := execute(t, "completion", "bash"); err != nil {
		t.Errorf("completion bash error = %v", err)
	}
}

func TestRealizeCacheClear(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "path.json")
	for range 2 {
		if err := execute(t, "realize", "-t", "path:5", "-o", out); err != nil {
			t.Fatalf("realize error = %v", err)
		}
	}

	cacheDir := filepath.Join(dir, "cache", "corral")
	count := func() int {
		n := 0
		filepath.WalkDir(cacheDir, func(_ string, d os.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				n++
			}
			return nil
		})
		return n
	}
	if count() == 0 {
		t.Fatal("realize left no cache entries")
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if n := count(); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}
