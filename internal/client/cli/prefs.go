package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/bikebed/internal/client/services"
)

// Lang prints the current language, or switches to args[0].
func (a *App) Lang(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(a.lang.Format("language_current", map[string]any{
			"Locale":    a.lang.Locale(),
			"Available": strings.Join(a.lang.Supported(), ", "),
		}))
		return nil
	}

	if !a.lang.ChangeLanguage(ctx, args[0]) {
		a.println(a.t("language_unsupported") + ": " + args[0])
		return nil
	}
	a.println(a.t("language_changed"))
	return nil
}

// Theme prints the current theme, or applies light, dark or toggle.
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(a.lang.Format("theme_current", map[string]any{"Mode": a.t("theme_" + string(a.theme.Mode()))}))
		return nil
	}

	var ok bool
	switch arg := strings.ToLower(args[0]); arg {
	case "toggle":
		_, ok = a.theme.Toggle(ctx)
	default:
		mode := services.ThemeMode(arg)
		if !mode.Valid() {
			a.println("theme [light|dark|toggle]")
			return nil
		}
		ok = a.theme.SetMode(ctx, mode)
	}
	if !ok {
		a.println(a.t("error_generic"))
		return nil
	}
	a.println(a.t("theme_changed"))
	return nil
}
