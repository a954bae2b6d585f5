package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/socialproof/socialproof/internal/scenario"
	"github.com/socialproof/socialproof/internal/testutil"
)

// fakeQuerier records Exec calls and returns a scripted error.
type fakeQuerier struct {
	execSQL  string
	execArgs []any
	execErr  error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

// TestSaveScenario tests the insert arguments and generated ID.
func TestSaveScenario(t *testing.T) {
	q := &fakeQuerier{}
	store := New(q, testutil.DiscardLogger())

	res := scenario.Result{
		Content:         "Dear Customer, verify your account now.",
		ScenarioType:    scenario.TypeEmailPhish,
		DifficultyLabel: "Medium",
		DifficultyLevel: 5,
		Provider:        "google",
	}

	id, err := store.SaveScenario(context.Background(), "player-42", res)
	if err != nil {
		t.Fatalf("SaveScenario() error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("returned ID %q is not a UUID: %v", id, err)
	}

	if len(q.execArgs) != 7 {
		t.Fatalf("insert args = %d, want 7", len(q.execArgs))
	}
	if q.execArgs[0] != id {
		t.Errorf("arg 0 = %v, want returned ID", q.execArgs[0])
	}
	if q.execArgs[1] != "player-42" {
		t.Errorf("arg 1 = %v, want player-42", q.execArgs[1])
	}
	if q.execArgs[2] != scenario.TypeEmailPhish || q.execArgs[3] != res.Content {
		t.Errorf("scenario args = %v, %v", q.execArgs[2], q.execArgs[3])
	}
	if q.execArgs[4] != "Medium" || q.execArgs[5] != 5.0 || q.execArgs[6] != "google" {
		t.Errorf("difficulty/provider args = %v, %v, %v", q.execArgs[4], q.execArgs[5], q.execArgs[6])
	}
}

// TestSaveScenarioError tests error propagation from the database.
func TestSaveScenarioError(t *testing.T) {
	boom := errors.New("connection reset")
	store := New(&fakeQuerier{execErr: boom}, testutil.DiscardLogger())

	_, err := store.SaveScenario(context.Background(), "p", scenario.Result{})
	if !errors.Is(err, boom) {
		t.Errorf("SaveScenario() = %v, want wrapped %v", err, boom)
	}
}
