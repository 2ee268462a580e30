package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	t.Run("creates store", func(t *testing.T) {
		env := newTestEnv(t) // runs init

		if _, err := os.Stat(filepath.Join(env.dir, ".docshell", "docshell.db")); err != nil {
			t.Errorf("Init() database missing: %v", err)
		}
	})

	t.Run("refuses to reinitialise", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr("init")
		if err == nil {
			t.Error("second init should fail without --force")
		}
		env.contains(out, "already")
	})

	t.Run("force reinitialises", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "x")

		env.run("init", "--force")

		out := env.run("ls")
		env.equals(out, "")
	})

	t.Run("named database", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("init", "--db", "notes")

		if _, err := os.Stat(filepath.Join(env.dir, ".docshell", "docshell-notes.db")); err != nil {
			t.Errorf("Init() named database missing: %v", err)
		}

		// Named databases are independent stores.
		env.save("docs/a.md", "default store")
		out := env.run("ls", "--db", "notes")
		env.equals(out, "")
	})

	t.Run("explicit directory", func(t *testing.T) {
		env := newTestEnv(t)
		other := t.TempDir()

		env.run("init", "--dir", other)

		if _, err := os.Stat(filepath.Join(other, ".docshell", "docshell.db")); err != nil {
			t.Errorf("Init() database missing in --dir target: %v", err)
		}
	})

	t.Run("store discovery walks up", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "from root")

		sub := filepath.Join(env.dir, "deep", "nested")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}

		cmd := env.command("ls")
		cmd.Dir = sub
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("ls from subdirectory failed: %v\n%s", err, out)
		}
		env.contains(string(out), "docs/a.md")
	})

	t.Run("db lists databases", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("init", "--db", "notes")

		out := env.run("db")
		env.contains(out, "docshell.db")
		env.contains(out, "docshell-notes.db")
		env.contains(out, "(default)")
	})

	t.Run("commands fail without store", func(t *testing.T) {
		binary := buildBinary(t)
		dir := t.TempDir()
		env := &testEnv{t: t, dir: dir, binary: binary}

		out, err := env.runErr("ls")
		if err == nil {
			t.Error("ls without init should fail")
		}
		env.contains(out, "not initialised")
	})
}
