package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/bikebed/internal/validate"
)

// editableFields are the profile keys the profile command may change.
var editableFields = []string{"name", "phone", "bio", "address"}

func (a *App) WhoAmI(ctx context.Context) error {
	s := a.auth.Session()
	if s == nil {
		a.println(a.t("not_signed_in"))
		return nil
	}

	role := a.t("role_guest")
	if s.IsHost() {
		role = a.t("role_host")
	}

	a.println(a.t("profile_title"))
	fmt.Fprintf(a.out, "  %-8s %s\n", "email", s.Email)
	fmt.Fprintf(a.out, "  %-8s %s\n", "role", role)
	for _, key := range slices.Concat(editableFields, []string{"avatar"}) {
		if v := s.String(key); v != "" {
			fmt.Fprintf(a.out, "  %-8s %s\n", key, v)
		}
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println(a.t("not_signed_in"))
		return nil
	}

	field, err := GetSimpleText(a.reader, a.t("profile_field_prompt"), a.out)
	if err != nil {
		return err
	}
	field = strings.ToLower(field)
	if !slices.Contains(editableFields, field) {
		a.println(a.t("profile_unknown_field") + ": " + field)
		return nil
	}

	value, err := GetSimpleText(a.reader, a.t("profile_value_prompt"), a.out)
	if err != nil {
		return err
	}
	switch field {
	case "name":
		err = validate.Required(field, value)
	case "phone":
		err = validate.Phone(value)
	}
	if err != nil {
		a.println(err.Error())
		return nil
	}

	res := a.auth.UpdateProfile(ctx, map[string]any{field: value})
	if !res.Success {
		a.printFailure(res)
		return nil
	}
	a.println(a.t("profile_updated"))
	return nil
}

func (a *App) Avatar(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println(a.t("not_signed_in"))
		return nil
	}

	path, err := GetSimpleText(a.reader, a.t("avatar_prompt"), a.out)
	if err != nil {
		return err
	}

	res := a.auth.UploadAvatar(ctx, path)
	if !res.Success {
		a.printFailure(res)
		return nil
	}
	a.println(a.t("avatar_updated"))
	return nil
}
