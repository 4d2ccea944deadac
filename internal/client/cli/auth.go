package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/bikebed/internal/client/models"
	"github.com/dmitrijs2005/bikebed/internal/client/services"
	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/validate"
)

// printFailure shows a failed result, localized when the cause is known.
func (a *App) printFailure(res services.Result) {
	switch {
	case errors.Is(res.Err, common.ErrUnauthenticated):
		a.println(a.t("not_signed_in"))
	case errors.Is(res.Err, common.ErrInvalidCredentials):
		a.println(a.t("invalid_credentials"))
	case errors.Is(res.Err, services.ErrAvatarUnsupported):
		a.println(a.t("avatar_unsupported"))
	default:
		a.println(res.Error)
	}
}

func displayName(s *models.Session) string {
	if name := s.String("name"); name != "" {
		return name
	}
	return s.Email
}

// parseRole maps the answer to the role question; blank means guest.
func parseRole(answer string) string {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "g", "guest", common.RoleGuestUser:
		return common.RoleGuestUser
	case "h", "host":
		return common.RoleHost
	default:
		return answer
	}
}

// Register asks for the sign-up form and creates the account, which also
// signs it in.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, a.t("email_prompt"), a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.t("password_prompt"), a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(a.reader, a.t("confirm_password_prompt"), a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	name, err := GetSimpleText(a.reader, a.t("name_prompt"), a.out)
	if err != nil {
		return err
	}
	roleAnswer, err := GetSimpleText(a.reader, a.t("role_prompt"), a.out)
	if err != nil {
		return err
	}
	role := parseRole(roleAnswer)

	if err := validate.Registration(email, string(password), string(confirm)); err != nil {
		a.println(err.Error())
		return nil
	}
	if err := validate.Role(role); err != nil {
		a.println(err.Error())
		return nil
	}

	profile := map[string]any{common.RoleMetadataKey: role}
	if name != "" {
		profile["name"] = name
	}

	res := a.auth.SignUp(ctx, email, string(password), profile)
	if !res.Success {
		a.printFailure(res)
		return nil
	}
	a.println(a.t("register_success"))
	return nil
}

// Login shows the same localized banner for every sign-in failure; the
// cause is logged by the auth service.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, a.t("email_prompt"), a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.t("password_prompt"), a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.SignIn(ctx, email, string(password))
	if !res.Success {
		a.println(a.t("invalid_credentials"))
		return nil
	}
	a.println(a.lang.Format("welcome_back", map[string]any{"Name": displayName(res.Session)}))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println(a.t("not_signed_in"))
		return nil
	}
	res := a.auth.SignOut(ctx)
	if !res.Success {
		a.printFailure(res)
		return nil
	}
	a.println(a.t("signed_out"))
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, a.t("email_prompt"), a.out)
	if err != nil {
		return err
	}
	if err := validate.Email(email); err != nil {
		a.println(err.Error())
		return nil
	}

	res := a.auth.ResetPassword(ctx, email)
	if !res.Success {
		a.println(a.t("reset_failed") + ": " + res.Error)
		return nil
	}
	a.println(a.t("reset_sent"))
	return nil
}
