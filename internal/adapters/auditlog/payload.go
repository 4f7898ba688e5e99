package auditlog

import (
	"encoding/json"
	"fmt"

	"github.com/openplaylab/courtflow/internal/domain"
)

// payloadType returns the audit type a payload value belongs to.
func payloadType(payload domain.AuditPayload) (domain.AuditType, error) {
	switch payload.(type) {
	case domain.SessionCreatedPayload:
		return domain.AuditSessionCreated, nil
	case domain.PlayerAddedPayload:
		return domain.AuditPlayerAdded, nil
	case domain.PlayerUpdatedPayload:
		return domain.AuditPlayerUpdated, nil
	case domain.PlayerDeletedPayload:
		return domain.AuditPlayerDeleted, nil
	case domain.GameCountAdjustedPayload:
		return domain.AuditGameCountAdjusted, nil
	case domain.AutoMatchPayload:
		return domain.AuditAutoMatch, nil
	case domain.GameStartedPayload:
		return domain.AuditGameStarted, nil
	case domain.GameEndedPayload:
		return domain.AuditGameEnded, nil
	case domain.TimerToggledPayload:
		return domain.AuditTimerToggled, nil
	case domain.PlayersSwappedPayload:
		return domain.AuditPlayersSwapped, nil
	case domain.TeamDeletedPayload:
		return domain.AuditTeamDeleted, nil
	case domain.SessionResetPayload:
		return domain.AuditSessionReset, nil
	case domain.StatsResetPayload:
		return domain.AuditStatsReset, nil
	default:
		return "", fmt.Errorf("unknown audit payload type %T", payload)
	}
}

// encodePayload marshals the entry's payload after checking that it carries
// the payload type its tag names. Mismatched pairs never reach storage.
func encodePayload(entry domain.AuditEntry) ([]byte, error) {
	payloadsType, err := payloadType(entry.Payload)
	if err != nil {
		return nil, err
	}
	if payloadsType != entry.Type {
		return nil, fmt.Errorf("audit payload %T does not match entry type '%s'", entry.Payload, entry.Type)
	}

	data, err := json.Marshal(entry.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	return data, nil
}

func unmarshalPayload[T domain.AuditPayload](auditType domain.AuditType, data []byte) (domain.AuditPayload, error) {
	var payload T
	err := json.Unmarshal(data, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit payload for type '%s': %w", auditType, err)
	}
	return payload, nil
}

// decodePayload unmarshals a stored payload into the concrete type named by
// the tag.
func decodePayload(auditType domain.AuditType, data []byte) (domain.AuditPayload, error) {
	switch auditType {
	case domain.AuditSessionCreated:
		return unmarshalPayload[domain.SessionCreatedPayload](auditType, data)
	case domain.AuditPlayerAdded:
		return unmarshalPayload[domain.PlayerAddedPayload](auditType, data)
	case domain.AuditPlayerUpdated:
		return unmarshalPayload[domain.PlayerUpdatedPayload](auditType, data)
	case domain.AuditPlayerDeleted:
		return unmarshalPayload[domain.PlayerDeletedPayload](auditType, data)
	case domain.AuditGameCountAdjusted:
		return unmarshalPayload[domain.GameCountAdjustedPayload](auditType, data)
	case domain.AuditAutoMatch:
		return unmarshalPayload[domain.AutoMatchPayload](auditType, data)
	case domain.AuditGameStarted:
		return unmarshalPayload[domain.GameStartedPayload](auditType, data)
	case domain.AuditGameEnded:
		return unmarshalPayload[domain.GameEndedPayload](auditType, data)
	case domain.AuditTimerToggled:
		return unmarshalPayload[domain.TimerToggledPayload](auditType, data)
	case domain.AuditPlayersSwapped:
		return unmarshalPayload[domain.PlayersSwappedPayload](auditType, data)
	case domain.AuditTeamDeleted:
		return unmarshalPayload[domain.TeamDeletedPayload](auditType, data)
	case domain.AuditSessionReset:
		return unmarshalPayload[domain.SessionResetPayload](auditType, data)
	case domain.AuditStatsReset:
		return unmarshalPayload[domain.StatsResetPayload](auditType, data)
	default:
		return nil, fmt.Errorf("unknown audit type: '%s'", auditType)
	}
}
