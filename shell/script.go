package shell

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

const luaHTTPTimeout = 10 * time.Second

const luaShellGlobal = "slide_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to Lua. The single string argument is
// appended to the command line.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if L.GetTop() > 0 {
			line += " " + L.ToString(1)
		}
		sc := getShell(L)
		out, err := sc.Execute(context.Background(), line)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-lua-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(out))
		// return number of results pushed to stack.
		return 1
	}
}

var luaCommands = []string{"board", "show", "best", "move", "undo", "eval", "set", "random"}

func (sc *ShellController) newLuaState() *lua.LState {
	L := lua.NewState()
	// scripts may fetch positions with require("http") and emit results
	// with require("json")
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{Timeout: luaHTTPTimeout}).Loader)
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal(luaShellGlobal, lsc)
	for _, c := range luaCommands {
		L.SetGlobal("slide_"+c, L.NewFunction(luaCommand(c)))
	}
	return L
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	L := sc.newLuaState()
	defer L.Close()

	if err := L.DoFile(cmd.args[0]); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("script finished"), nil
}
