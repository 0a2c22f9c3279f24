package api

import (
	"context"
	"net/url"

	"github.com/darasalabs/darasa/transport"
)

// ActivityAPI lists and fetches the assessable activities.
type ActivityAPI struct {
	client *transport.Client
}

func NewActivityAPI(client *transport.Client) *ActivityAPI {
	return &ActivityAPI{client: client}
}

// Query lists activities, optionally filtered by type.
func (a *ActivityAPI) Query(ctx context.Context, activityType string) ([]Activity, error) {
	path := "/activities"
	if activityType != "" {
		path += "?type=" + url.QueryEscape(activityType)
	}
	var activities []Activity
	if err := a.client.Get(ctx, path, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (a *ActivityAPI) Get(ctx context.Context, id string) (Activity, error) {
	var activity Activity
	if err := a.client.Get(ctx, "/activities/"+url.PathEscape(id), &activity); err != nil {
		return Activity{}, err
	}
	return activity, nil
}
