package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates a new account. Validation runs locally first so the
// command fails fast with the backend's own messages.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	data := models.RegisterData{
		FirstName:       cmd.String("first-name"),
		LastName:        cmd.String("last-name"),
		Email:           cmd.String("email"),
		Password:        cmd.String("password"),
		ConfirmPassword: cmd.String("password"),
		Age:             int(cmd.Int("age")),
	}

	r.logger.Info("registering account", "email", data.Email)

	user, err := r.auth.Register(ctx, data)
	if err != nil {
		return err
	}

	r.writePlain("✓ Cuenta creada: %s\n", user.DisplayName())
	return r.writePlain("Inicia sesión con 'cinetx auth login'\n")
}

// AuthLogin obtains a session token and persists it for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	data := models.LoginData{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}

	r.logger.Info("logging in", "email", data.Email)

	identity, err := r.auth.Login(ctx, data)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Sesión iniciada como %s\n", identity.User.DisplayName())
}

// AuthLogout ends the session. The local session clears even when the
// backend call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Logout(ctx); err != nil {
		r.logger.Warn("remote logout failed, local session cleared", "error", err)
	}
	return r.writePlain("✓ Sesión cerrada\n")
}

// AuthStatus shows the current session state, verifying the token remotely.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	if r.sessions.Token() == "" {
		return r.writePlain("✗ Sin sesión activa\n")
	}

	valid, err := r.auth.VerifyToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: no se pudo verificar la sesión: %v", shared.ErrNetwork, err)
	}

	if !valid {
		r.sessions.Clear()
		return r.writePlain("✗ La sesión expiró, inicia sesión de nuevo\n")
	}

	r.writePlain("✓ Sesión activa\n")
	if identity := r.sessions.Current(); identity != nil && identity.User.ID != "" {
		r.writePlain("Usuario: %s <%s>\n", identity.User.DisplayName(), identity.User.Email)
	}
	return nil
}

// AuthProfile prints the authenticated profile.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	profile, err := r.auth.Profile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlainHeader(profile.DisplayName())
	r.writePlain("Email: %s\n", profile.Email)
	if profile.Age > 0 {
		r.writePlain("Edad: %d\n", profile.Age)
	}
	return nil
}

// AuthUpdate updates the provided profile fields.
func (r *Runner) AuthUpdate(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	data := models.UpdateProfileData{
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
		Email:     cmd.String("email"),
		Age:       int(cmd.Int("age")),
	}

	if data == (models.UpdateProfileData{}) {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	user, err := r.auth.UpdateProfile(ctx, data)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Perfil actualizado: %s\n", user.DisplayName())
}

// AuthChangePassword changes the account password.
func (r *Runner) AuthChangePassword(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	data := models.ChangePasswordData{
		CurrentPassword: cmd.String("current"),
		NewPassword:     cmd.String("new"),
		ConfirmPassword: cmd.String("new"),
	}

	if err := r.auth.ChangePassword(ctx, data); err != nil {
		return err
	}

	return r.writePlain("✓ Contraseña actualizada\n")
}

// AuthForgotPassword requests a password reset email.
func (r *Runner) AuthForgotPassword(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	if err := r.auth.ForgotPassword(ctx, email); err != nil {
		return err
	}

	return r.writePlain("✓ Si la cuenta existe, se envió un correo de recuperación a %s\n", email)
}

// AuthResetPassword resets the password with an emailed token.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.ResetPassword(ctx, cmd.String("token"), cmd.String("password")); err != nil {
		return err
	}
	return r.writePlain("✓ Contraseña restablecida, inicia sesión de nuevo\n")
}

// AuthDeleteAccount permanently deletes the account after confirmation.
func (r *Runner) AuthDeleteAccount(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession(ctx)

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to confirm account deletion", shared.ErrMissingArgument)
	}

	if err := r.auth.DeleteAccount(ctx, cmd.String("password")); err != nil {
		return err
	}

	return r.writePlain("✓ Cuenta eliminada\n")
}
