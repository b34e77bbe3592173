package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for steering logic.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in dir, then the
// optional steering/ subdirectory.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, d := range []string{dir, filepath.Join(dir, "steering")} {
		if err := e.loadDir(d); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global function with the given name exists.
func (e *Engine) Has(fn string) bool {
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// SteerContext is the per-entity state handed to a steering function.
type SteerContext struct {
	Entity uint64
	Tick   uint64
	Ticks  int // ticks this entity has been steered
	X, Y   float64
	VX, VY float64
	DT     time.Duration
}

// SteerResult is returned by a steering function.
type SteerResult struct {
	VX, VY float64
	Sleep  bool // entity should go dormant
}

// Steer calls the named Lua function with a context table and reads back
// {vx, vy, sleep}. Missing fields keep the input velocity. On any script
// failure the input velocity is returned unchanged.
func (e *Engine) Steer(name string, ctx SteerContext) SteerResult {
	keep := SteerResult{VX: ctx.VX, VY: ctx.VY}

	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		e.log.Error("lua steering function not found", zap.String("fn", name))
		return keep
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(ctx.Entity))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("ticks", lua.LNumber(ctx.Ticks))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("vx", lua.LNumber(ctx.VX))
	t.RawSetString("vy", lua.LNumber(ctx.VY))
	t.RawSetString("dt", lua.LNumber(ctx.DT.Seconds()))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua steering error", zap.String("fn", name), zap.Error(err))
		return keep
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua steering returned non-table", zap.String("fn", name))
		return keep
	}

	out := keep
	if v, ok := rt.RawGetString("vx").(lua.LNumber); ok {
		out.VX = float64(v)
	}
	if v, ok := rt.RawGetString("vy").(lua.LNumber); ok {
		out.VY = float64(v)
	}
	out.Sleep = lua.LVAsBool(rt.RawGetString("sleep"))
	return out
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
