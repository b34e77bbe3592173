package scripting

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gotest.tools/v3/assert"
)

func writeScript(t *testing.T, dir, name, src string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(dir, 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func newTestEngine(t *testing.T, src string) *Engine {
	t.Helper()
	dir := t.TempDir()
	writeScript(t, dir, "test.lua", src)
	e, err := NewEngine(dir, zaptest.NewLogger(t))
	assert.NilError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestSteerReadsResult(t *testing.T) {
	e := newTestEngine(t, `
function push(ctx)
  return { vx = ctx.vx + ctx.dt, vy = ctx.ticks, sleep = ctx.id == 7 }
end
`)
	assert.Assert(t, e.Has("push"))

	got := e.Steer("push", SteerContext{Entity: 7, Ticks: 3, VX: 1, DT: 500 * time.Millisecond})
	assert.Equal(t, got, SteerResult{VX: 1.5, VY: 3, Sleep: true})

	got = e.Steer("push", SteerContext{Entity: 2, VX: 0})
	assert.Equal(t, got.Sleep, false)
}

func TestSteerMissingFieldsKeepVelocity(t *testing.T) {
	e := newTestEngine(t, `function idle(ctx) return {} end`)
	got := e.Steer("idle", SteerContext{VX: 2, VY: -1})
	assert.Equal(t, got, SteerResult{VX: 2, VY: -1})
}

func TestSteerFailuresKeepVelocity(t *testing.T) {
	e := newTestEngine(t, `
function boom(ctx) error("nope") end
function scalar(ctx) return 4 end
not_a_function = 3
`)
	in := SteerContext{VX: 1, VY: 2}
	want := SteerResult{VX: 1, VY: 2}
	for _, fn := range []string{"boom", "scalar", "not_a_function", "missing"} {
		assert.Equal(t, e.Steer(fn, in), want, fn)
	}
	assert.Assert(t, !e.Has("not_a_function"))
	assert.Assert(t, !e.Has("missing"))
}

func TestNewEngineLoadsSteeringSubdir(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "steering"), "sub.lua", `function sub(ctx) return { vx = 9 } end`)
	writeScript(t, dir, "notes.txt", `this is not lua`)
	e, err := NewEngine(dir, nil)
	assert.NilError(t, err)
	defer e.Close()
	assert.Equal(t, e.Steer("sub", SteerContext{}).VX, 9.0)
}

func TestNewEngineSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `function (`)
	_, err := NewEngine(dir, nil)
	assert.ErrorContains(t, err, "bad.lua")
}

func TestNewEngineMissingDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), nil)
	assert.NilError(t, err)
	defer e.Close()
	assert.Assert(t, !e.Has("wander"))
}

func TestShippedScripts(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), nil)
	assert.NilError(t, err)
	defer e.Close()

	w := e.Steer("wander", SteerContext{Entity: 1})
	assert.Assert(t, math.Abs(math.Hypot(w.VX, w.VY)-2) < 1e-9)

	s := e.Steer("settle", SteerContext{VX: 0.04})
	assert.Equal(t, s, SteerResult{Sleep: true})

	s = e.Steer("settle", SteerContext{VX: 4})
	assert.Equal(t, s, SteerResult{VX: 2})
}
