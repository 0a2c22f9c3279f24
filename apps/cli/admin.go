package main

import (
	"context"
	"fmt"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core/session"
)

func (cli *commandLine) listUsers(ctx context.Context) error {
	if err := cli.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.admin.QueryUsers(ctx)
	})
	if !res.Success {
		return res.Err
	}

	for _, usr := range res.Data.([]session.User) {
		fmt.Fprintf(cli.out, "%s  %s <%s> (%s)\n", usr.ID, usr.Name, usr.Email, usr.Role)
	}
	return nil
}

func (cli *commandLine) auditLog(ctx context.Context, limit int) error {
	if err := cli.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.admin.QueryAudit(ctx, limit)
	})
	if !res.Success {
		return res.Err
	}

	for _, entry := range res.Data.([]api.AuditEntry) {
		target := ""
		if entry.Target.Valid {
			target = " -> " + entry.Target.String
		}
		fmt.Fprintf(cli.out, "%s  %s %s%s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.ActorID, entry.Action, target)
	}
	return nil
}

func (cli *commandLine) analytics(ctx context.Context) error {
	if err := cli.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.admin.Analytics(ctx)
	})
	if !res.Success {
		return res.Err
	}

	summary := res.Data.(api.AnalyticsSummary)
	fmt.Fprintf(cli.out, "active users:      %d\n", summary.ActiveUsers)
	fmt.Fprintf(cli.out, "submissions today: %d\n", summary.SubmissionsToday)
	fmt.Fprintf(cli.out, "pending reviews:   %d\n", summary.PendingReviews)
	if summary.AvgAIScore.Valid {
		fmt.Fprintf(cli.out, "avg AI score:      %.1f\n", summary.AvgAIScore.Float64)
	}
	return nil
}
