package cmd

import "testing"

func TestVersion(t *testing.T) {
	t.Run("runs without a store", func(t *testing.T) {
		binary := buildBinary(t)
		env := &testEnv{t: t, dir: t.TempDir(), binary: binary}

		out := env.run("version")
		env.contains(out, "Build Tag:")
		env.contains(out, "Go Version:")
	})

	t.Run("JSON output", func(t *testing.T) {
		binary := buildBinary(t)
		env := &testEnv{t: t, dir: t.TempDir(), binary: binary}

		out := env.run("version", "-o", "json")
		env.contains(out, `"build_tag"`)
		env.contains(out, `"platform"`)
	})
}

func TestOutputFlag(t *testing.T) {
	t.Run("invalid format rejected", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr("ls", "-o", "xml")
		if err == nil {
			t.Error("invalid output format should fail")
		}
		env.contains(out, "output")
	})
}
