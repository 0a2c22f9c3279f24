package main

import (
	"context"
	"fmt"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core/operation"
)

func (cli *commandLine) listActivities(ctx context.Context, activityType string) error {
	if err := cli.requireRole(); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.activities.Query(ctx, activityType)
	})
	if !res.Success {
		return res.Err
	}

	activities := res.Data.([]api.Activity)
	if len(activities) == 0 {
		fmt.Fprintln(cli.out, "no activities")
		return nil
	}
	for _, act := range activities {
		due := "no due date"
		if act.DueAt.Valid {
			due = "due " + act.DueAt.Time.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(cli.out, "%s  [%s]  %s (%s)\n", act.ID, act.Type, act.Title, due)
	}
	return nil
}

func (cli *commandLine) submit(ctx context.Context, activityID, content, uploadRef string, uploadSize int64) error {
	if err := cli.requireRole(); err != nil {
		return err
	}

	res := cli.runner.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return cli.submissions.Submit(ctx, api.NewSubmission{
			ActivityID: activityID,
			Content:    content,
			UploadRef:  uploadRef,
			UploadSize: uploadSize,
		})
	}, operation.Options{NotifySuccess: true, SuccessMessage: "submission received"})
	if !res.Success {
		return res.Err
	}

	sub := res.Data.(api.Submission)
	fmt.Fprintf(cli.out, "submission %s created (%s)\n", sub.ID, sub.Status)
	return nil
}
