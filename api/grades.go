package api

import (
	"context"
	"net/url"

	"github.com/darasalabs/darasa/transport"
)

// GradeAPI is the teacher's review surface: the pending queue and the
// accept/override flow over AI-generated scores.
type GradeAPI struct {
	client *transport.Client
}

func NewGradeAPI(client *transport.Client) *GradeAPI {
	return &GradeAPI{client: client}
}

// Pending lists submissions awaiting teacher review.
func (a *GradeAPI) Pending(ctx context.Context) ([]Submission, error) {
	var subs []Submission
	if err := a.client.Get(ctx, "/grades/pending", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Review records the teacher's verdict on a submission.
func (a *GradeAPI) Review(ctx context.Context, submissionID string, review GradeReview) (Submission, error) {
	var sub Submission
	if err := a.client.Post(ctx, "/grades/"+url.PathEscape(submissionID), &review, &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// History lists submissions the teacher already reviewed.
func (a *GradeAPI) History(ctx context.Context) ([]Submission, error) {
	var subs []Submission
	if err := a.client.Get(ctx, "/grades/history", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
