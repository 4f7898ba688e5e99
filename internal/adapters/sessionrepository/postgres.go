package sessionrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/reporting"
	"github.com/openplaylab/courtflow/internal/strutils"
)

type Postgres struct {
	db     *sqlx.DB
	schema string

	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("courtflow/sessionrepository/postgres")

	return &Postgres{
		db:     db,
		schema: schema,

		tracer: tracer,
	}
}

type dbSession struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	TeamSize       int       `db:"team_size"`
	GameDurationMS int64     `db:"game_duration_ms"`
	TeamCounter    int       `db:"team_counter"`
	CreatedAt      time.Time `db:"created_at"`
}

type dbPlayer struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	State           string     `db:"state"`
	GameCount       int        `db:"game_count"`
	LastGameEndAt   *time.Time `db:"last_game_end_at"`
	TeammateHistory []byte     `db:"teammate_history"`
	Gender          string     `db:"gender"`
	Rank            string     `db:"rank"`
	CreatedAt       time.Time  `db:"created_at"`
}

type dbTeam struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	PlayerIDs pq.StringArray `db:"player_ids"`
	State     string         `db:"state"`
	CourtID   *string        `db:"court_id"`
	StartedAt *time.Time     `db:"started_at"`
	EndedAt   *time.Time     `db:"ended_at"`
}

type dbCourt struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Position     int        `db:"position"`
	Status       string     `db:"status"`
	TeamID       *string    `db:"team_id"`
	TimerStart   *time.Time `db:"timer_start"`
	IsPaused     bool       `db:"is_paused"`
	PausedTimeMS *int64     `db:"paused_time_ms"`
}

func rowToPlayer(row dbPlayer) (domain.Player, error) {
	state := domain.PlayerState(row.State)
	if !state.Valid() {
		return domain.Player{}, fmt.Errorf("invalid player state in db: '%s'", row.State)
	}

	// A null history would panic the engine on first increment
	history := map[string]int{}
	if len(row.TeammateHistory) > 0 {
		if err := json.Unmarshal(row.TeammateHistory, &history); err != nil {
			return domain.Player{}, fmt.Errorf("failed to unmarshal teammate history: %w", err)
		}
	}
	if history == nil {
		history = map[string]int{}
	}

	return domain.Player{
		ID:              row.ID,
		Name:            row.Name,
		State:           state,
		GameCount:       row.GameCount,
		LastGameEndAt:   row.LastGameEndAt,
		TeammateHistory: history,
		Gender:          row.Gender,
		Rank:            row.Rank,
		CreatedAt:       row.CreatedAt,
	}, nil
}

func rowToTeam(row dbTeam) (domain.Team, error) {
	state := domain.TeamState(row.State)
	if !state.Valid() {
		return domain.Team{}, fmt.Errorf("invalid team state in db: '%s'", row.State)
	}

	return domain.Team{
		ID:        row.ID,
		Name:      row.Name,
		PlayerIDs: []string(row.PlayerIDs),
		State:     state,
		CourtID:   row.CourtID,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
	}, nil
}

func rowToCourt(row dbCourt) (domain.Court, error) {
	status := domain.CourtStatus(row.Status)
	if !status.Valid() {
		return domain.Court{}, fmt.Errorf("invalid court status in db: '%s'", row.Status)
	}

	var pausedTime *time.Duration
	if row.PausedTimeMS != nil {
		duration := time.Duration(*row.PausedTimeMS) * time.Millisecond
		pausedTime = &duration
	}

	return domain.Court{
		ID:         row.ID,
		Name:       row.Name,
		Position:   row.Position,
		Status:     status,
		TeamID:     row.TeamID,
		TimerStart: row.TimerStart,
		IsPaused:   row.IsPaused,
		PausedTime: pausedTime,
	}, nil
}

func upsertPlayer(ctx context.Context, txx *sqlx.Tx, sessionID string, player domain.Player) error {
	history := player.TeammateHistory
	if history == nil {
		history = map[string]int{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal teammate history: %w", err)
	}

	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO players
		(id, session_id, name, state, game_count, last_game_end_at, teammate_history, gender, rank, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			state = EXCLUDED.state,
			game_count = EXCLUDED.game_count,
			last_game_end_at = EXCLUDED.last_game_end_at,
			teammate_history = EXCLUDED.teammate_history,
			gender = EXCLUDED.gender,
			rank = EXCLUDED.rank`,
		player.ID,
		sessionID,
		player.Name,
		string(player.State),
		player.GameCount,
		player.LastGameEndAt,
		historyJSON,
		player.Gender,
		player.Rank,
		player.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

func upsertTeam(ctx context.Context, txx *sqlx.Tx, sessionID string, team domain.Team) error {
	_, err := txx.ExecContext(
		ctx,
		`INSERT INTO teams
		(id, session_id, name, player_ids, state, court_id, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			player_ids = EXCLUDED.player_ids,
			state = EXCLUDED.state,
			court_id = EXCLUDED.court_id,
			started_at = EXCLUDED.started_at,
			ended_at = EXCLUDED.ended_at`,
		team.ID,
		sessionID,
		team.Name,
		pq.Array(team.PlayerIDs),
		string(team.State),
		team.CourtID,
		team.StartedAt,
		team.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

func upsertCourt(ctx context.Context, txx *sqlx.Tx, sessionID string, court domain.Court) error {
	var pausedTimeMS *int64
	if court.PausedTime != nil {
		ms := court.PausedTime.Milliseconds()
		pausedTimeMS = &ms
	}

	_, err := txx.ExecContext(
		ctx,
		`INSERT INTO courts
		(id, session_id, name, position, status, team_id, timer_start, is_paused, paused_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			status = EXCLUDED.status,
			team_id = EXCLUDED.team_id,
			timer_start = EXCLUDED.timer_start,
			is_paused = EXCLUDED.is_paused,
			paused_time_ms = EXCLUDED.paused_time_ms`,
		court.ID,
		sessionID,
		court.Name,
		court.Position,
		string(court.Status),
		court.TeamID,
		court.TimerStart,
		court.IsPaused,
		pausedTimeMS,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert court: %w", err)
	}
	return nil
}

func (p *Postgres) Create(ctx context.Context, state domain.SessionState) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.Create")
	defer span.End()

	if !strutils.UUIDIsNormalized(state.ID) {
		err := fmt.Errorf("session id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"sessionID": state.ID,
		})
		return err
	}

	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"schema": p.schema,
		})
		return err
	}

	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO sessions
		(id, name, team_size, game_duration_ms, team_counter, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		state.ID,
		state.Name,
		state.Settings.TeamSize,
		state.Settings.GameDuration.Milliseconds(),
		state.TeamCounter,
		state.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert session: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": state.ID,
		})
		return err
	}

	for _, player := range state.Players {
		if err := upsertPlayer(ctx, txx, state.ID, player); err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": state.ID,
				"playerID":  player.ID,
			})
			return err
		}
	}
	for _, team := range state.Teams {
		if err := upsertTeam(ctx, txx, state.ID, team); err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": state.ID,
				"teamID":    team.ID,
			})
			return err
		}
	}
	for _, court := range state.Courts {
		if err := upsertCourt(ctx, txx, state.ID, court); err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": state.ID,
				"courtID":   court.ID,
			})
			return err
		}
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": state.ID,
		})
		return err
	}

	return nil
}

func (p *Postgres) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.Load")
	defer span.End()

	if !strutils.UUIDIsNormalized(sessionID) {
		err := fmt.Errorf("session id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return domain.SessionState{}, err
	}

	txx, err := p.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return domain.SessionState{}, err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"schema": p.schema,
		})
		return domain.SessionState{}, err
	}

	var sessionRow dbSession
	err = txx.QueryRowxContext(
		ctx,
		`SELECT id, name, team_size, game_duration_ms, team_counter, created_at
		FROM sessions
		WHERE id = $1`,
		sessionID,
	).StructScan(&sessionRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SessionState{}, domain.ErrSessionNotFound
		}
		err := fmt.Errorf("failed to select session: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return domain.SessionState{}, err
	}

	var playerRows []dbPlayer
	err = txx.SelectContext(
		ctx,
		&playerRows,
		`SELECT id, name, state, game_count, last_game_end_at, teammate_history, gender, rank, created_at
		FROM players
		WHERE session_id = $1
		ORDER BY registered_seq`,
		sessionID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select players: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return domain.SessionState{}, err
	}

	var teamRows []dbTeam
	err = txx.SelectContext(
		ctx,
		&teamRows,
		`SELECT id, name, player_ids, state, court_id, started_at, ended_at
		FROM teams
		WHERE session_id = $1
		ORDER BY formed_seq`,
		sessionID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select teams: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return domain.SessionState{}, err
	}

	var courtRows []dbCourt
	err = txx.SelectContext(
		ctx,
		&courtRows,
		`SELECT id, name, position, status, team_id, timer_start, is_paused, paused_time_ms
		FROM courts
		WHERE session_id = $1
		ORDER BY position`,
		sessionID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select courts: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return domain.SessionState{}, err
	}

	state := domain.SessionState{
		ID:        sessionRow.ID,
		Name:      sessionRow.Name,
		CreatedAt: sessionRow.CreatedAt,
		Settings: domain.Settings{
			TeamSize:     sessionRow.TeamSize,
			GameDuration: time.Duration(sessionRow.GameDurationMS) * time.Millisecond,
		},
		Players:     make([]domain.Player, 0, len(playerRows)),
		Teams:       make([]domain.Team, 0, len(teamRows)),
		Courts:      make([]domain.Court, 0, len(courtRows)),
		TeamCounter: sessionRow.TeamCounter,
	}

	for _, row := range playerRows {
		player, err := rowToPlayer(row)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"playerID":  row.ID,
			})
			return domain.SessionState{}, err
		}
		state.Players = append(state.Players, player)
	}
	for _, row := range teamRows {
		team, err := rowToTeam(row)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"teamID":    row.ID,
			})
			return domain.SessionState{}, err
		}
		state.Teams = append(state.Teams, team)
	}
	for _, row := range courtRows {
		court, err := rowToCourt(row)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"courtID":   row.ID,
			})
			return domain.SessionState{}, err
		}
		state.Courts = append(state.Courts, court)
	}

	return state, nil
}

func (p *Postgres) SaveDelta(ctx context.Context, sessionID string, delta domain.Delta) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.SaveDelta")
	defer span.End()

	if !strutils.UUIDIsNormalized(sessionID) {
		err := fmt.Errorf("session id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return err
	}

	if delta.Empty() {
		return nil
	}

	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"schema": p.schema,
		})
		return err
	}

	for _, player := range delta.Players {
		if err := upsertPlayer(ctx, txx, sessionID, player); err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"playerID":  player.ID,
			})
			return err
		}
	}
	if len(delta.RemovedPlayerIDs) > 0 {
		_, err = txx.ExecContext(
			ctx,
			`DELETE FROM players WHERE session_id = $1 AND id = ANY($2::uuid[])`,
			sessionID,
			pq.Array(delta.RemovedPlayerIDs),
		)
		if err != nil {
			err := fmt.Errorf("failed to delete removed players: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
			})
			return err
		}
	}

	for _, team := range delta.Teams {
		if err := upsertTeam(ctx, txx, sessionID, team); err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"teamID":    team.ID,
			})
			return err
		}
	}
	if len(delta.RemovedTeamIDs) > 0 {
		_, err = txx.ExecContext(
			ctx,
			`DELETE FROM teams WHERE session_id = $1 AND id = ANY($2::uuid[])`,
			sessionID,
			pq.Array(delta.RemovedTeamIDs),
		)
		if err != nil {
			err := fmt.Errorf("failed to delete removed teams: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
			})
			return err
		}
	}

	for _, court := range delta.Courts {
		if err := upsertCourt(ctx, txx, sessionID, court); err != nil {
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"courtID":   court.ID,
			})
			return err
		}
	}

	if delta.TeamCounter != nil {
		_, err = txx.ExecContext(
			ctx,
			`UPDATE sessions SET team_counter = $2 WHERE id = $1`,
			sessionID,
			*delta.TeamCounter,
		)
		if err != nil {
			err := fmt.Errorf("failed to update team counter: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
			})
			return err
		}
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return err
	}

	return nil
}

func (p *Postgres) List(ctx context.Context) ([]domain.SessionInfo, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.List")
	defer span.End()

	type dbSessionInfo struct {
		ID             string    `db:"id"`
		Name           string    `db:"name"`
		TeamSize       int       `db:"team_size"`
		GameDurationMS int64     `db:"game_duration_ms"`
		CreatedAt      time.Time `db:"created_at"`
		PlayerCount    int       `db:"player_count"`
		CourtCount     int       `db:"court_count"`
	}

	var rows []dbSessionInfo
	err := p.db.SelectContext(ctx, &rows, fmt.Sprintf(`SELECT
		s.id, s.name, s.team_size, s.game_duration_ms, s.created_at,
		(SELECT COUNT(*) FROM %[1]s.players p WHERE p.session_id = s.id) AS player_count,
		(SELECT COUNT(*) FROM %[1]s.courts c WHERE c.session_id = s.id) AS court_count
		FROM %[1]s.sessions s
		ORDER BY s.created_at DESC, s.id`,
		pq.QuoteIdentifier(p.schema),
	))
	if err != nil {
		err := fmt.Errorf("failed to list sessions: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	infos := make([]domain.SessionInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, domain.SessionInfo{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			Settings: domain.Settings{
				TeamSize:     row.TeamSize,
				GameDuration: time.Duration(row.GameDurationMS) * time.Millisecond,
			},
			PlayerCount: row.PlayerCount,
			CourtCount:  row.CourtCount,
		})
	}

	return infos, nil
}

