package api

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/transport"
)

var errUploadTooLarge = errors.New("upload exceeds the maximum allowed size")

// SubmissionAPI submits activities and lists the student's own submissions.
type SubmissionAPI struct {
	client        *transport.Client
	maxUploadSize int64
}

func NewSubmissionAPI(client *transport.Client, conf *core.Config) *SubmissionAPI {
	return &SubmissionAPI{client: client, maxUploadSize: conf.MaxUploadSize}
}

// Submit sends a student's answer. Oversized uploads are rejected locally
// before any network call.
func (a *SubmissionAPI) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	if ns.ActivityID == "" {
		return Submission{}, core.NewValidationError(nil, core.FieldError{Field: "activity_id", Error: "this field is required"})
	}
	if a.maxUploadSize > 0 && ns.UploadSize > a.maxUploadSize {
		return Submission{}, core.NewValidationError(errUploadTooLarge,
			core.FieldError{Field: "upload_ref", Error: errUploadTooLarge.Error()})
	}

	var sub Submission
	if err := a.client.Post(ctx, "/submissions", &ns, &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// Query lists the caller's own submissions.
func (a *SubmissionAPI) Query(ctx context.Context) ([]Submission, error) {
	var subs []Submission
	if err := a.client.Get(ctx, "/submissions", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Get fetches one submission, including its AI score once available.
func (a *SubmissionAPI) Get(ctx context.Context, id string) (Submission, error) {
	var sub Submission
	if err := a.client.Get(ctx, "/submissions/"+url.PathEscape(id), &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}
