package api_test

import (
	"context"
	"testing"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/session"
	"github.com/darasalabs/darasa/storage/sessionstore"
	testutil "github.com/darasalabs/darasa/tests"
	"github.com/darasalabs/darasa/transport"
)

func newSubmissionAPI(baseURL string) *api.SubmissionAPI {
	conf := testutil.NewTestConfig(baseURL)
	client := transport.NewClient(conf, transport.Options{
		Store:  sessionstore.NewMemStore(),
		Logger: testutil.NewTestLogger(),
	})
	return api.NewSubmissionAPI(client, conf)
}

func TestSubmissionAPI_Submit_localValidation(t *testing.T) {
	ctx := context.Background()
	// base URL is never hit: validation must reject before any network call
	subAPI := newSubmissionAPI("http://127.0.0.1:1")

	tests := []struct {
		name      string
		ns        api.NewSubmission
		wantField string
	}{
		{
			name:      "missing activity",
			ns:        api.NewSubmission{Content: "my answer"},
			wantField: "activity_id",
		},
		{
			name: "upload too large",
			ns: api.NewSubmission{
				ActivityID: "a1",
				UploadRef:  "rec-001",
				UploadSize: 2 << 20, // test cap is 1 MiB
			},
			wantField: "upload_ref",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := subAPI.Submit(ctx, tt.ns)
			if err == nil {
				t.Fatal("Submit() expected error, got nil")
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("Submit() error = %T(%v), want *core.ValidationError", err, err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != tt.wantField {
				t.Errorf("Fields = %+v, want one error on %q", vErr.Fields, tt.wantField)
			}
		})
	}

	t.Run("upload at the cap passes validation", func(t *testing.T) {
		_, err := subAPI.Submit(ctx, api.NewSubmission{
			ActivityID: "a1",
			UploadRef:  "rec-001",
			UploadSize: 1 << 20,
		})
		// reaches the (dead) network, so anything but a validation error
		if _, ok := err.(*core.ValidationError); ok {
			t.Errorf("Submit() rejected an upload at the cap: %v", err)
		}
	})
}

func TestActivityAPI_Query(t *testing.T) {
	fake := testutil.NewFakeAPI()
	defer fake.Close()
	fake.AddUser("Alice Juma", "alice@test.cd", "s3cret", session.RoleStudent)

	store := sessionstore.NewMemStore()
	client := transport.NewClient(testutil.NewTestConfig(fake.URL()), transport.Options{
		Store:  store,
		Logger: testutil.NewTestLogger(),
	})

	actAPI := api.NewActivityAPI(client)
	ctx := context.Background()

	t.Run("unauthenticated", func(t *testing.T) {
		if _, err := actAPI.Query(ctx, ""); err == nil {
			t.Error("Query() without a session expected error, got nil")
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		var payload struct {
			User         *session.User `json:"user"`
			AccessToken  string        `json:"accessToken"`
			RefreshToken string        `json:"refreshToken"`
		}
		creds := map[string]string{"email": "alice@test.cd", "password": "s3cret"}
		if err := client.Post(ctx, "/auth/login", creds, &payload); err != nil {
			t.Fatalf("login failed, %v", err)
		}
		_ = store.Save(session.State{User: payload.User, AccessToken: payload.AccessToken, RefreshToken: payload.RefreshToken})

		activities, err := actAPI.Query(ctx, api.ActivitySpeaking)
		if err != nil {
			t.Fatalf("Query() failed, %v", err)
		}
		if len(activities) != 1 || activities[0].Type != api.ActivitySpeaking {
			t.Errorf("activities = %+v", activities)
		}
	})
}
