package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/strutils"
)

func TestEncodePayload(t *testing.T) {
	t.Parallel()

	t.Run("encodes the payload named by the tag", func(t *testing.T) {
		t.Parallel()

		entry := domain.AuditEntry{
			ID:   "00000000-0000-0000-0000-000000000001",
			Type: domain.AuditGameEnded,
			Payload: domain.GameEndedPayload{
				TeamID:    "00000000-0000-0000-0000-000000000002",
				CourtID:   "00000000-0000-0000-0000-000000000003",
				ElapsedMS: 930000,
			},
			Timestamp: time.Now(),
		}

		data, err := encodePayload(entry)
		require.NoError(t, err)

		equal, err := strutils.JSONStringsEqual(data, []byte(`{
			"teamId": "00000000-0000-0000-0000-000000000002",
			"courtId": "00000000-0000-0000-0000-000000000003",
			"elapsedMs": 930000
		}`))
		require.NoError(t, err)
		require.True(t, equal)
	})

	t.Run("encodes nested team lists", func(t *testing.T) {
		t.Parallel()

		entry := domain.AuditEntry{
			ID:   "00000000-0000-0000-0000-000000000001",
			Type: domain.AuditAutoMatch,
			Payload: domain.AutoMatchPayload{
				Teams: []domain.FormedTeam{
					{
						TeamID:    "00000000-0000-0000-0000-000000000002",
						Name:      "Team 1",
						PlayerIDs: []string{"00000000-0000-0000-0000-000000000003", "00000000-0000-0000-0000-000000000004"},
					},
				},
			},
			Timestamp: time.Now(),
		}

		data, err := encodePayload(entry)
		require.NoError(t, err)

		equal, err := strutils.JSONStringsEqual(data, []byte(`{
			"teams": [
				{
					"teamId": "00000000-0000-0000-0000-000000000002",
					"name": "Team 1",
					"playerIds": ["00000000-0000-0000-0000-000000000003", "00000000-0000-0000-0000-000000000004"]
				}
			]
		}`))
		require.NoError(t, err)
		require.True(t, equal)
	})

	t.Run("rejects a payload that does not match the tag", func(t *testing.T) {
		t.Parallel()

		entry := domain.AuditEntry{
			ID:   "00000000-0000-0000-0000-000000000001",
			Type: domain.AuditGameStarted,
			Payload: domain.GameEndedPayload{
				TeamID:    "00000000-0000-0000-0000-000000000002",
				CourtID:   "00000000-0000-0000-0000-000000000003",
				ElapsedMS: 930000,
			},
			Timestamp: time.Now(),
		}

		_, err := encodePayload(entry)
		require.Error(t, err)
	})

	t.Run("rejects a missing payload", func(t *testing.T) {
		t.Parallel()

		entry := domain.AuditEntry{
			ID:        "00000000-0000-0000-0000-000000000001",
			Type:      domain.AuditSessionReset,
			Payload:   nil,
			Timestamp: time.Now(),
		}

		_, err := encodePayload(entry)
		require.Error(t, err)
	})
}

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	t.Run("decodes into the concrete type named by the tag", func(t *testing.T) {
		t.Parallel()

		payload, err := decodePayload(domain.AuditTimerToggled, []byte(`{
			"courtId": "00000000-0000-0000-0000-000000000003",
			"paused": true,
			"elapsedMs": 123000
		}`))
		require.NoError(t, err)

		require.Equal(t, domain.TimerToggledPayload{
			CourtID:   "00000000-0000-0000-0000-000000000003",
			Paused:    true,
			ElapsedMS: 123000,
		}, payload)
	})

	t.Run("decodes omitted optional fields", func(t *testing.T) {
		t.Parallel()

		payload, err := decodePayload(domain.AuditPlayerDeleted, []byte(`{
			"playerId": "00000000-0000-0000-0000-000000000002",
			"name": "Alice"
		}`))
		require.NoError(t, err)

		require.Equal(t, domain.PlayerDeletedPayload{
			PlayerID: "00000000-0000-0000-0000-000000000002",
			Name:     "Alice",
			TeamIDs:  nil,
		}, payload)
	})

	t.Run("rejects an unknown tag", func(t *testing.T) {
		t.Parallel()

		_, err := decodePayload(domain.AuditType("made_up_operation"), []byte(`{}`))
		require.Error(t, err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()

		_, err := decodePayload(domain.AuditGameStarted, []byte(`{"teamId": `))
		require.Error(t, err)
	})
}

func TestPayloadTypeCoversAllTags(t *testing.T) {
	t.Parallel()

	// Every tag must decode and every decoded payload must map back to the
	// same tag, so new audit types can't silently miss a codec branch.
	allTypes := []domain.AuditType{
		domain.AuditSessionCreated,
		domain.AuditPlayerAdded,
		domain.AuditPlayerUpdated,
		domain.AuditPlayerDeleted,
		domain.AuditGameCountAdjusted,
		domain.AuditAutoMatch,
		domain.AuditGameStarted,
		domain.AuditGameEnded,
		domain.AuditTimerToggled,
		domain.AuditPlayersSwapped,
		domain.AuditTeamDeleted,
		domain.AuditSessionReset,
		domain.AuditStatsReset,
	}

	for _, auditType := range allTypes {
		t.Run(string(auditType), func(t *testing.T) {
			t.Parallel()

			payload, err := decodePayload(auditType, []byte(`{}`))
			require.NoError(t, err)

			roundtrippedType, err := payloadType(payload)
			require.NoError(t, err)
			require.Equal(t, auditType, roundtrippedType)
		})
	}
}
