package main

import (
	"context"
	"fmt"
	"time"

	"github.com/darasalabs/darasa/core/session"
)

func (cli *commandLine) login(ctx context.Context, email, password string) error {
	usr, err := cli.sess.Login(ctx, session.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	// the CLI equivalent of the role-based portal redirect
	switch usr.Role {
	case session.RoleTeacher:
		fmt.Fprintf(cli.out, "welcome %s - teacher portal (try: grades)\n", usr.Name)
	case session.RoleAdmin:
		fmt.Fprintf(cli.out, "welcome %s - admin portal (try: users, audit, analytics)\n", usr.Name)
	default:
		fmt.Fprintf(cli.out, "welcome %s - student portal (try: activities, submit)\n", usr.Name)
	}
	return nil
}

func (cli *commandLine) register(ctx context.Context, name, email, role, password, confirm string) error {
	usr, err := cli.sess.Register(ctx, session.NewAccount{
		Name:            name,
		Email:           email,
		Password:        password,
		PasswordConfirm: confirm,
		Role:            role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "account created and logged in as %s (%s)\n", usr.Name, usr.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	cli.sess.Logout(ctx)
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	st := cli.sess.Current()
	if !st.IsAuthenticated {
		fmt.Fprintln(cli.out, "not logged in")
		return nil
	}

	usr := st.User
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	if claims, err := session.PeekClaims(st.AccessToken); err == nil {
		if left := claims.ExpiresIn(); left > 0 {
			fmt.Fprintf(cli.out, "access token expires in %s\n", left.Round(time.Second))
		}
	}
	return nil
}
