package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"

	"github.com/cruderly/wallie/pkg/i18n"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"serve", "render", "preview", "i18n", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wallie version") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wallie") {
		t.Error("bash completion should mention the command name")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestServePrintConfig(t *testing.T) {
	t.Setenv("WALLIE_CONFIG", "")
	t.Setenv("WALLIE_ADDR", "")

	out, err := execute(t, "serve", "--addr", "127.0.0.1:9000", "--metrics", "--print-config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `addr = "127.0.0.1:9000"`) {
		t.Errorf("flag not applied:\n%s", out)
	}
	if !strings.Contains(out, "metrics = true") {
		t.Errorf("metrics flag not applied:\n%s", out)
	}
}

func TestServeInvalidFlag(t *testing.T) {
	t.Setenv("WALLIE_CONFIG", "")

	_, err := execute(t, "serve", "--leads-endpoint", "ftp://example.com", "--print-config")
	if err == nil || !strings.Contains(err.Error(), "leads.endpoint") {
		t.Errorf("err = %v, want leads.endpoint validation error", err)
	}
}

func TestRenderOne(t *testing.T) {
	out, err := execute(t, "render", "en", "faq")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<html lang="en">`) {
		t.Errorf("render output does not look like the English page: %.200s", out)
	}

	out, err = execute(t, "render", "ru", "home")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<html lang="ru">`) {
		t.Error("home page not rendered")
	}
}

func TestRenderErrors(t *testing.T) {
	tests := [][]string{
		{"render", "en"},
		{"render", "de", "faq"},
		{"render", "en", "blog"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "render", "--out", dir, "--locale", "sr,en")
	if err != nil {
		t.Fatal(err)
	}

	for _, rel := range []string{
		"sr/index.html",
		"en/faq/index.html",
		"en/privacy/index.html",
		"static/css/site.css",
		"static/js/site.js",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "ru")); !os.IsNotExist(err) {
		t.Error("ru should not be rendered when not selected")
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("summary missing from output:\n%s", out)
	}
}

func TestI18nCheck(t *testing.T) {
	out, err := execute(t, "i18n", "check")
	if err != nil {
		t.Fatalf("embedded dictionaries should be complete: %v\n%s", err, out)
	}
	if !strings.Contains(out, "LOCALE") {
		t.Errorf("table missing from output:\n%s", out)
	}
}

func TestCheckCatalogMissing(t *testing.T) {
	catalog, err := i18n.Load(fstest.MapFS{
		"sr.toml": {Data: []byte("[hero]\ntitle = \"Zid\"\ncta = \"Pošalji\"\n")},
		"en.toml": {Data: []byte("[hero]\ntitle = \"Wall\"\n")},
		"ru.toml": {Data: []byte("[hero]\ntitle = \"Стена\"\ncta = \"Отправить\"\n")},
	})
	if err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err = checkCatalog(cmd, catalog)
	if !errors.Is(err, errMissingKeys) {
		t.Fatalf("err = %v, want errMissingKeys", err)
	}
	if !strings.Contains(out.String(), "en: hero.cta") {
		t.Errorf("missing key not listed:\n%s", out.String())
	}
}

func TestI18nGet(t *testing.T) {
	out, err := execute(t, "i18n", "get", "nav.faq")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "FAQ") {
		t.Errorf("output = %q", out)
	}
}
