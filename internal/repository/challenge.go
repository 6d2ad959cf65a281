package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/twentyhard/twentyhard/internal/model"
)

// challengeRow mirrors the challenges table. Nested values are JSON text.
type challengeRow struct {
	UserID         string     `db:"user_id"`
	StartDate      string     `db:"start_date"`
	CurrentStreak  int        `db:"current_streak"`
	LongestStreak  int        `db:"longest_streak"`
	CustomTasks    string     `db:"custom_tasks"`
	Badges         string     `db:"badges"`
	ChallengeWon   bool       `db:"challenge_won"`
	WonAt          *time.Time `db:"won_at"`
	WeightGoal     *string    `db:"weight_goal"`
	FailureHistory string     `db:"failure_history"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type dayLogRow struct {
	UserID string `db:"user_id"`
	Date   string `db:"date"`
	Tasks  string `db:"tasks"`
	Status string `db:"status"`
	Locked bool   `db:"locked"`
}

type challengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) ByUserID(ctx context.Context, userID string) (*model.Challenge, error) {
	row := challengeRow{}
	err := r.db.GetContext(ctx, &row, `SELECT * FROM challenges WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}

	var logs []dayLogRow
	err = r.db.SelectContext(ctx, &logs, `SELECT * FROM day_logs WHERE user_id = $1 ORDER BY date`, userID)
	if err != nil {
		return nil, err
	}

	return row.toModel(logs)
}

func (r *challengeRepository) Save(ctx context.Context, ch *model.Challenge) error {
	row, logs, err := fromModel(ch)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO challenges (user_id, start_date, current_streak, longest_streak, custom_tasks, badges,
	                                  challenge_won, won_at, weight_goal, failure_history, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (user_id) DO UPDATE SET
	              start_date = excluded.start_date,
	              current_streak = excluded.current_streak,
	              longest_streak = excluded.longest_streak,
	              custom_tasks = excluded.custom_tasks,
	              badges = excluded.badges,
	              challenge_won = excluded.challenge_won,
	              won_at = excluded.won_at,
	              weight_goal = excluded.weight_goal,
	              failure_history = excluded.failure_history,
	              updated_at = excluded.updated_at`

	_, err = tx.ExecContext(ctx, query,
		row.UserID,
		row.StartDate,
		row.CurrentStreak,
		row.LongestStreak,
		row.CustomTasks,
		row.Badges,
		row.ChallengeWon,
		row.WonAt,
		row.WeightGoal,
		row.FailureHistory,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert challenge: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM day_logs WHERE user_id = $1`, row.UserID)
	if err != nil {
		return fmt.Errorf("failed to clear day logs: %w", err)
	}

	for _, l := range logs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO day_logs (user_id, date, tasks, status, locked) VALUES ($1, $2, $3, $4, $5)`,
			l.UserID, l.Date, l.Tasks, l.Status, l.Locked,
		)
		if err != nil {
			return fmt.Errorf("failed to insert day log %s: %w", l.Date, err)
		}
	}

	return tx.Commit()
}

func (r *challengeRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrChallengeNotFound
	}

	return nil
}

func (r *challengeRepository) UserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM challenges ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func fromModel(ch *model.Challenge) (challengeRow, []dayLogRow, error) {
	row := challengeRow{
		UserID:        ch.UserID,
		StartDate:     ch.StartDate,
		CurrentStreak: ch.CurrentStreak,
		LongestStreak: ch.LongestStreak,
		ChallengeWon:  ch.ChallengeWon,
		CreatedAt:     ch.CreatedAt.UTC(),
		UpdatedAt:     ch.UpdatedAt.UTC(),
	}
	if ch.WonAt != nil {
		t := ch.WonAt.UTC()
		row.WonAt = &t
	}

	var err error
	if row.CustomTasks, err = jsonText(ch.CustomTasks, "[]"); err != nil {
		return row, nil, err
	}
	if row.Badges, err = jsonText(ch.Badges, "[]"); err != nil {
		return row, nil, err
	}
	if row.FailureHistory, err = jsonText(ch.FailureHistory, "[]"); err != nil {
		return row, nil, err
	}
	if ch.WeightGoal != nil {
		goal, err := jsonText(ch.WeightGoal, "null")
		if err != nil {
			return row, nil, err
		}
		row.WeightGoal = &goal
	}

	logs := make([]dayLogRow, 0, len(ch.DailyLogs))
	for _, l := range ch.DailyLogs {
		tasks, err := jsonText(l.Tasks, "{}")
		if err != nil {
			return row, nil, fmt.Errorf("failed to encode tasks for %s: %w", l.Date, err)
		}
		logs = append(logs, dayLogRow{UserID: ch.UserID, Date: l.Date, Tasks: tasks, Status: l.Status, Locked: l.Locked})
	}
	return row, logs, nil
}

func (row challengeRow) toModel(logs []dayLogRow) (*model.Challenge, error) {
	ch := &model.Challenge{
		UserID:        row.UserID,
		StartDate:     row.StartDate,
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		ChallengeWon:  row.ChallengeWon,
		WonAt:         row.WonAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		DailyLogs:     make([]model.DayLog, 0, len(logs)),
	}

	err := json.Unmarshal([]byte(row.CustomTasks), &ch.CustomTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to decode custom tasks: %w", err)
	}
	err = json.Unmarshal([]byte(row.Badges), &ch.Badges)
	if err != nil {
		return nil, fmt.Errorf("failed to decode badges: %w", err)
	}
	err = json.Unmarshal([]byte(row.FailureHistory), &ch.FailureHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to decode failure history: %w", err)
	}
	if row.WeightGoal != nil {
		err = json.Unmarshal([]byte(*row.WeightGoal), &ch.WeightGoal)
		if err != nil {
			return nil, fmt.Errorf("failed to decode weight goal: %w", err)
		}
	}

	for _, l := range logs {
		tasks := model.Tasks{}
		err = json.Unmarshal([]byte(l.Tasks), &tasks)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tasks for %s: %w", l.Date, err)
		}
		ch.DailyLogs = append(ch.DailyLogs, model.DayLog{Date: l.Date, Tasks: tasks, Status: l.Status, Locked: l.Locked})
	}
	return ch, nil
}

// jsonText encodes v, using empty for nil values.
func jsonText(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}
