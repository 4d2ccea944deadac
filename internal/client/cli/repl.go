package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	t(key string) string
	status() string
	help()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context) error
	Lang(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a.
//
//	Always:
//	  - help                       show available commands
//	  - lang [code]                show or change the language
//	  - theme [light|dark|toggle]  show or change the theme
//	  - exit | quit                leave the program
//
//	Signed out:
//	  - register, login, reset
//
//	Signed in:
//	  - whoami, profile, avatar, logout
//
// Handlers print their own outcome; an error they return means input could
// not be read and is reported generically. The loop ends on EOF, exit or
// ctx cancellation.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "bikebed %s> ", a.status())

		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				fmt.Fprintln(w)
				return
			}
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var err error
		switch cmd {
		case "help":
			a.help()
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "reset":
			err = a.Reset(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "avatar":
			err = a.Avatar(ctx)
		case "lang":
			err = a.Lang(ctx, args)
		case "theme":
			err = a.Theme(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, a.t("bye"))
			return
		default:
			fmt.Fprintf(w, "%s: %s\n", a.t("unknown_command"), cmd)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintln(w, a.t("error_generic"))
		}
		if readErr != nil {
			return
		}
	}
}
