package events_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/events"
	"folio/internal/testsupport"
)

func countEvents(t *testing.T, dbManager *testsupport.TestDBManager) int64 {
	t.Helper()
	var count int64
	require.NoError(t, dbManager.GetConnection().Model(&events.Event{}).Count(&count).Error)
	return count
}

func validInput() *events.RecordEventInput {
	return &events.RecordEventInput{
		EventType: events.EventTypePageView,
		VisitorID: "a3f9c2e14b7d8a6f",
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0 Test Browser",
		Path:      "/projects",
		Referrer:  "https://duckduckgo.com/",
	}
}

func TestRecordEvent(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	t.Run("stores exactly one row for a valid page view", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		err := events.RecordEvent(dbManager, logger, validInput())
		require.NoError(t, err)

		var stored []events.Event
		require.NoError(t, db.Find(&stored).Error)
		require.Len(t, stored, 1)

		event := stored[0]
		assert.Equal(t, events.EventTypePageView, event.EventType)
		assert.Equal(t, "a3f9c2e14b7d8a6f", event.VisitorID)
		assert.Equal(t, "/projects", event.Path)
		assert.Equal(t, "https://duckduckgo.com/", event.Referrer)
		assert.False(t, event.IsAdmin)
		assert.Nil(t, event.UserID)
		assert.Equal(t, events.UnknownCountry, event.Country)
		assert.False(t, event.CreatedAt.IsZero())
	})

	t.Run("trims the visitor id before storing", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		input := validInput()
		input.VisitorID = "  trimmed-visitor  "
		require.NoError(t, events.RecordEvent(dbManager, logger, input))

		var event events.Event
		require.NoError(t, db.First(&event).Error)
		assert.Equal(t, "trimmed-visitor", event.VisitorID)
	})

	t.Run("extracts the project id from projectView metadata", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		input := validInput()
		input.EventType = events.EventTypeProjectView
		input.Metadata = json.RawMessage(`{"projectId": 7}`)
		require.NoError(t, events.RecordEvent(dbManager, logger, input))

		var event events.Event
		require.NoError(t, db.First(&event).Error)
		assert.Equal(t, uint(7), event.ProjectID)
		assert.Equal(t, uint(0), event.SkillID)
		assert.JSONEq(t, `{"projectId": 7}`, string(event.Metadata))
	})

	t.Run("accepts a numeric-string project id", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		input := validInput()
		input.EventType = events.EventTypeProjectView
		input.Metadata = json.RawMessage(`{"projectId": "12"}`)
		require.NoError(t, events.RecordEvent(dbManager, logger, input))

		var event events.Event
		require.NoError(t, db.First(&event).Error)
		assert.Equal(t, uint(12), event.ProjectID)
	})

	t.Run("extracts the skill id from skillView metadata", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		input := validInput()
		input.EventType = events.EventTypeSkillView
		input.Metadata = json.RawMessage(`{"skillId": 3}`)
		require.NoError(t, events.RecordEvent(dbManager, logger, input))

		var event events.Event
		require.NoError(t, db.First(&event).Error)
		assert.Equal(t, uint(3), event.SkillID)
		assert.Equal(t, uint(0), event.ProjectID)
	})

	t.Run("rejects invalid drafts without writing", func(t *testing.T) {
		invalidCases := []struct {
			name   string
			mutate func(*events.RecordEventInput)
		}{
			{
				name:   "unknown event type",
				mutate: func(in *events.RecordEventInput) { in.EventType = "clicked" },
			},
			{
				name:   "empty visitor id",
				mutate: func(in *events.RecordEventInput) { in.VisitorID = "" },
			},
			{
				name:   "empty path",
				mutate: func(in *events.RecordEventInput) { in.Path = "" },
			},
			{
				name:   "empty ip",
				mutate: func(in *events.RecordEventInput) { in.IP = "" },
			},
			{
				name:   "empty user agent",
				mutate: func(in *events.RecordEventInput) { in.UserAgent = "" },
			},
			{
				name:   "negative time spent",
				mutate: func(in *events.RecordEventInput) { in.TimeSpent = -5 },
			},
			{
				name:   "malformed metadata",
				mutate: func(in *events.RecordEventInput) { in.Metadata = json.RawMessage(`{"broken`) },
			},
			{
				name: "projectView without a project id",
				mutate: func(in *events.RecordEventInput) {
					in.EventType = events.EventTypeProjectView
					in.Metadata = json.RawMessage(`{}`)
				},
			},
			{
				name: "projectView with a non-positive id",
				mutate: func(in *events.RecordEventInput) {
					in.EventType = events.EventTypeProjectView
					in.Metadata = json.RawMessage(`{"projectId": 0}`)
				},
			},
			{
				name: "skillView without metadata",
				mutate: func(in *events.RecordEventInput) {
					in.EventType = events.EventTypeSkillView
					in.Metadata = nil
				},
			},
		}

		for _, tc := range invalidCases {
			t.Run(tc.name, func(t *testing.T) {
				testsupport.CleanAllTables(db)

				input := validInput()
				tc.mutate(input)

				err := events.RecordEvent(dbManager, logger, input)
				require.Error(t, err)

				var validationErr *events.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				assert.Equal(t, int64(0), countEvents(t, dbManager))
			})
		}
	})

	t.Run("suppresses events from admin users", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		admin := testsupport.CreateTestUser(db, "owner@example.com", "irrelevant", true)

		input := validInput()
		input.UserID = &admin.ID

		err := events.RecordEvent(dbManager, logger, input)
		assert.ErrorIs(t, err, events.ErrNotTracked)
		assert.Equal(t, int64(0), countEvents(t, dbManager))
	})

	t.Run("keeps events from non-admin users with the user attached", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		user := testsupport.CreateTestUser(db, "reader@example.com", "irrelevant", false)

		input := validInput()
		input.UserID = &user.ID
		require.NoError(t, events.RecordEvent(dbManager, logger, input))

		var event events.Event
		require.NoError(t, db.First(&event).Error)
		require.NotNil(t, event.UserID)
		assert.Equal(t, user.ID, *event.UserID)
		assert.False(t, event.IsAdmin)
	})

	t.Run("records an unknown user id as anonymous", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		staleID := uint(99999)
		input := validInput()
		input.UserID = &staleID
		require.NoError(t, events.RecordEvent(dbManager, logger, input))

		var event events.Event
		require.NoError(t, db.First(&event).Error)
		assert.Nil(t, event.UserID)
	})
}

func TestParseMetadata(t *testing.T) {
	testCases := []struct {
		name      string
		eventType events.EventType
		raw       string
		expected  events.Metadata
		wantErr   bool
	}{
		{
			name:      "pageView ignores the payload",
			eventType: events.EventTypePageView,
			raw:       `{"anything": true}`,
			expected:  events.EmptyMetadata{},
		},
		{
			name:      "contactSubmission with no payload",
			eventType: events.EventTypeContactSubmission,
			raw:       "",
			expected:  events.EmptyMetadata{},
		},
		{
			name:      "projectView with a numeric id",
			eventType: events.EventTypeProjectView,
			raw:       `{"projectId": 42}`,
			expected:  events.ProjectViewMetadata{ProjectID: 42},
		},
		{
			name:      "projectView with a string id",
			eventType: events.EventTypeProjectView,
			raw:       `{"projectId": "42"}`,
			expected:  events.ProjectViewMetadata{ProjectID: 42},
		},
		{
			name:      "skillView with a numeric id",
			eventType: events.EventTypeSkillView,
			raw:       `{"skillId": 9}`,
			expected:  events.SkillViewMetadata{SkillID: 9},
		},
		{
			name:      "projectView with an array payload",
			eventType: events.EventTypeProjectView,
			raw:       `[1, 2, 3]`,
			wantErr:   true,
		},
		{
			name:      "projectView with a non-numeric string id",
			eventType: events.EventTypeProjectView,
			raw:       `{"projectId": "forty-two"}`,
			wantErr:   true,
		},
		{
			name:      "projectView with a negative id",
			eventType: events.EventTypeProjectView,
			raw:       `{"projectId": -3}`,
			wantErr:   true,
		},
		{
			name:      "skillView missing the id key",
			eventType: events.EventTypeSkillView,
			raw:       `{"projectId": 1}`,
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var raw json.RawMessage
			if tc.raw != "" {
				raw = json.RawMessage(tc.raw)
			}

			meta, err := events.ParseMetadata(tc.eventType, raw)
			if tc.wantErr {
				require.Error(t, err)
				var validationErr *events.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, meta)
		})
	}
}

func TestEventTypeValid(t *testing.T) {
	assert.True(t, events.EventTypePageView.Valid())
	assert.True(t, events.EventTypeContactSubmission.Valid())
	assert.True(t, events.EventTypeResumeDownload.Valid())
	assert.True(t, events.EventTypeProjectView.Valid())
	assert.True(t, events.EventTypeSkillView.Valid())

	assert.False(t, events.EventType("").Valid())
	assert.False(t, events.EventType("pageview").Valid())
	assert.False(t, events.EventType("click").Valid())
}
