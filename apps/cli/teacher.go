package main

import (
	"context"
	"fmt"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core/operation"
	"github.com/darasalabs/darasa/core/session"
)

func (cli *commandLine) pendingGrades(ctx context.Context) error {
	if err := cli.requireRole(session.RoleTeacher, session.RoleAdmin); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.grades.Pending(ctx)
	})
	if !res.Success {
		return res.Err
	}

	subs := res.Data.([]api.Submission)
	if len(subs) == 0 {
		fmt.Fprintln(cli.out, "review queue is empty")
		return nil
	}
	for _, sub := range subs {
		aiScore := "-"
		if sub.AIScore.Valid {
			aiScore = fmt.Sprintf("%.1f", sub.AIScore.Float64)
		}
		fmt.Fprintf(cli.out, "%s  activity=%s student=%s ai=%s\n", sub.ID, sub.ActivityID, sub.StudentID, aiScore)
	}
	return nil
}

func (cli *commandLine) grade(ctx context.Context, submissionID string, score float64, feedback string) error {
	if err := cli.requireRole(session.RoleTeacher, session.RoleAdmin); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.grades.Review(ctx, submissionID, api.GradeReview{Score: score, Feedback: feedback})
	}, operation.Options{NotifySuccess: true, SuccessMessage: "review recorded"})
	if !res.Success {
		return res.Err
	}

	sub := res.Data.(api.Submission)
	fmt.Fprintf(cli.out, "submission %s is now %s\n", sub.ID, sub.Status)
	return nil
}
