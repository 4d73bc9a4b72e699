package launches

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"launch-notifier/model"
)

const testURL = "https://fdo.rocketlaunch.live/json/launches/next/5"

func TestFetch(t *testing.T) {
	defer gock.Off()

	gock.New("https://fdo.rocketlaunch.live").
		Get("/json/launches/next/5").
		Reply(200).
		JSON(map[string]any{
			"result": []map[string]any{
				{
					"id":                 123,
					"name":               "Starlink 10-1",
					"provider":           map[string]any{"name": "SpaceX"},
					"launch_description": "Falcon 9 launches Starlink satellites.",
					"quicktext":          "Falcon 9 - Starlink 10-1",
					"t0":                 "2026-10-18T13:00Z",
				},
			},
		})

	c := NewClient(testURL, 5*time.Second, nil)
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.ID("123"), got[0].ID)
	assert.Equal(t, "SpaceX", got[0].Provider.Name)
	assert.True(t, gock.IsDone())
}

func TestFetchMissingResult(t *testing.T) {
	defer gock.Off()

	gock.New("https://fdo.rocketlaunch.live").
		Get("/json/launches/next/5").
		Reply(200).
		BodyString(`{"count": 0}`)

	got, err := NewClient(testURL, 5*time.Second, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchNon200(t *testing.T) {
	defer gock.Off()

	gock.New("https://fdo.rocketlaunch.live").
		Get("/json/launches/next/5").
		Reply(http.StatusInternalServerError).
		BodyString("boom")

	_, err := NewClient(testURL, 5*time.Second, nil).Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "Internal Server Error", statusErr.Reason())
}

func TestFetchBadBody(t *testing.T) {
	defer gock.Off()

	gock.New("https://fdo.rocketlaunch.live").
		Get("/json/launches/next/5").
		Reply(200).
		BodyString("<html>")

	_, err := NewClient(testURL, 5*time.Second, nil).Fetch(context.Background())
	assert.ErrorContains(t, err, "decode launches")
}
