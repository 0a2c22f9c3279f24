package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/operation"
	"github.com/darasalabs/darasa/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in")
	errWrongPortal = errors.New("this command is not available for your role")
)

type commandLine struct {
	conf *core.Config
	out  io.Writer

	sess        *session.Manager
	runner      *operation.Runner
	activities  *api.ActivityAPI
	submissions *api.SubmissionAPI
	grades      *api.GradeAPI
	admin       *api.AdminAPI
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                      - log in (password prompted)")
	fmt.Fprintln(cli.out, "  register -name NAME -email EMAIL -role ROLE")
	fmt.Fprintln(cli.out, "  logout                                  - log out and clear the session")
	fmt.Fprintln(cli.out, "  whoami                                  - show the current session")
	fmt.Fprintln(cli.out, "  activities [-type speaking|writing|quiz]")
	fmt.Fprintln(cli.out, "  submit -activity ID -content TEXT [-upload REF -size BYTES]")
	fmt.Fprintln(cli.out, "  grades                                  - pending review queue (teacher)")
	fmt.Fprintln(cli.out, "  grade -submission ID -score N [-feedback TEXT]")
	fmt.Fprintln(cli.out, "  users                                   - list users (admin)")
	fmt.Fprintln(cli.out, "  audit [-limit N]                        - audit log (admin)")
	fmt.Fprintln(cli.out, "  analytics                               - platform analytics (admin)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	switch args[1] {
	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
		email := loginCmd.String("email", "", "The account's email. The password will be prompted next.")
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *email == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *email, pwd)

	case "register":
		registerCmd := flag.NewFlagSet("register", flag.ExitOnError)
		name := registerCmd.String("name", "", "Full name.")
		email := registerCmd.String("email", "", "Email address.")
		role := registerCmd.String("role", session.RoleStudent, "Account role: student, teacher or admin.")
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *name == "" || *email == "" {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		confirm, err := cli.promptPassword("Confirm password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			registerCmd.Usage()
			return errHelp
		}
		return cli.register(ctx, *name, *email, *role, pwd, confirm)

	case "logout":
		return cli.logout(ctx)

	case "whoami":
		return cli.whoami()

	case "activities":
		actCmd := flag.NewFlagSet("activities", flag.ExitOnError)
		actType := actCmd.String("type", "", "Filter by activity type.")
		if err := actCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listActivities(ctx, *actType)

	case "submit":
		submitCmd := flag.NewFlagSet("submit", flag.ExitOnError)
		activity := submitCmd.String("activity", "", "Activity ID.")
		content := submitCmd.String("content", "", "Answer content.")
		upload := submitCmd.String("upload", "", "Reference of an uploaded asset.")
		size := submitCmd.Int64("size", 0, "Size of the uploaded asset in bytes.")
		if err := submitCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *activity == "" {
			submitCmd.Usage()
			return errHelp
		}
		return cli.submit(ctx, *activity, *content, *upload, *size)

	case "grades":
		return cli.pendingGrades(ctx)

	case "grade":
		gradeCmd := flag.NewFlagSet("grade", flag.ExitOnError)
		submissionID := gradeCmd.String("submission", "", "Submission ID.")
		score := gradeCmd.Float64("score", -1, "Score to record.")
		feedback := gradeCmd.String("feedback", "", "Optional feedback.")
		if err := gradeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *submissionID == "" || *score < 0 {
			gradeCmd.Usage()
			return errHelp
		}
		return cli.grade(ctx, *submissionID, *score, *feedback)

	case "users":
		return cli.listUsers(ctx)

	case "audit":
		auditCmd := flag.NewFlagSet("audit", flag.ExitOnError)
		limit := auditCmd.Int("limit", 50, "Maximum number of entries.")
		if err := auditCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.auditLog(ctx, *limit)

	case "analytics":
		return cli.analytics(ctx)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) requireRole(roles ...string) error {
	if !cli.sess.IsAuthenticated() {
		return errNotLoggedIn
	}
	if len(roles) > 0 && !cli.sess.HasRole(roles...) {
		return errWrongPortal
	}
	return nil
}
