package cmd

import (
	"strings"
	"testing"
)

func TestLs(t *testing.T) {
	t.Run("lists all documents", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "a")
		env.save("docs/b.md", "b")
		env.save("notes/c.md", "c")

		out := env.run("ls")
		env.contains(out, "docs/a.md")
		env.contains(out, "docs/b.md")
		env.contains(out, "notes/c.md")
	})

	t.Run("prefix filter", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "a")
		env.save("notes/c.md", "c")

		out := env.run("ls", "docs/")
		env.contains(out, "docs/a.md")
		if strings.Contains(out, "notes/c.md") {
			t.Error("Ls() prefix filter leaked other paths")
		}
	})

	t.Run("glob pattern", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "a")
		env.save("docs/b.txt", "b")
		env.save("docs/api/c.md", "c")

		out := env.run("ls", "docs/*.md")
		env.contains(out, "docs/a.md")
		if strings.Contains(out, "docs/b.txt") {
			t.Error("Ls() glob matched wrong extension")
		}
		if strings.Contains(out, "docs/api/c.md") {
			t.Error("Ls() single-star glob crossed a path segment")
		}

		out = env.run("ls", "docs/**")
		env.contains(out, "docs/api/c.md")
	})

	t.Run("empty store", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("ls")
		env.equals(out, "")
	})

	t.Run("long format", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "twelve bytes")

		out := env.run("ls", "-l")
		env.contains(out, "docs/a.md")
		env.contains(out, "12")
	})

	t.Run("JSON output", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "a")

		out := env.run("ls", "-o", "json")
		env.contains(out, `"path"`)
		env.contains(out, `"size"`)
		env.contains(out, `"updated_at"`)
	})
}

func TestNew(t *testing.T) {
	t.Run("creates untitled document", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("new")
		env.contains(out, "untitled.md")

		out = env.run("ls")
		env.contains(out, "untitled.md")
	})

	t.Run("names do not collide", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("new")
		out := env.run("new")
		env.contains(out, "untitled-1.md")
	})

	t.Run("custom extension", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("new", "txt")
		env.contains(out, "untitled.txt")
	})
}

func TestStatus(t *testing.T) {
	// One-shot CLI invocations hold no sessions; live session status is
	// exercised through the MCP server tests.
	t.Run("no open sessions", func(t *testing.T) {
		env := newTestEnv(t)
		env.save("docs/a.md", "a")

		out := env.run("status")
		env.contains(out, "No open sessions")
	})

	t.Run("JSON output", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("status", "-o", "json")
		env.contains(out, `"dirty":false`)
		env.contains(out, `"sessions"`)
	})
}
