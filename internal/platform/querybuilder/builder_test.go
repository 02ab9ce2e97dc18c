package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelect_WhereOrderLimit(t *testing.T) {
	sql, args, err := Select("athlete_id", "played_at", "minutes").
		From("matchlogs").
		Where(Eq("athlete_id", "a-1")).
		OrderBy("played_at ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "SELECT athlete_id, played_at, minutes FROM matchlogs WHERE athlete_id = $1 ORDER BY played_at ASC LIMIT 10"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a-1"}) {
		t.Fatalf("args mismatch: %v", args)
	}
}

func TestSelect_InAndExprConditions(t *testing.T) {
	sql, args, err := Select("id").
		From("athletes").
		Where(
			In("id", []any{"a-1", "a-2"}),
			Expr("birth_date >= ?", "2000-01-01"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "SELECT id FROM athletes WHERE id IN ($1, $2) AND birth_date >= $3"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a-1", "a-2", "2000-01-01"}) {
		t.Fatalf("args mismatch: %v", args)
	}
}

func TestSelect_EmptyInNeverMatches(t *testing.T) {
	sql, args, err := Select("id").From("athletes").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if sql != "SELECT id FROM athletes WHERE 1=0" {
		t.Fatalf("sql mismatch: %s", sql)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestSelect_RequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
	if _, _, err := Select().From("athletes").ToSQL(); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestInsert_MultiRowWithSuffix(t *testing.T) {
	sql, args, err := InsertInto("athletes").
		Columns("id", "name").
		Values("a-1", "Ada").
		Values("a-2", "Ben").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "INSERT INTO athletes (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a-1", "Ada", "a-2", "Ben"}) {
		t.Fatalf("args mismatch: %v", args)
	}
}

func TestInsert_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("athletes").
		Columns("id", "name").
		Values("a-1").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestInsertModel_UsesDBTags(t *testing.T) {
	type row struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		Internal string `db:"-"`
		skipped  string
	}

	sql, args, err := InsertModel("athletes", row{ID: "a-1", Name: "Ada", Internal: "x", skipped: "y"}, "")
	if err != nil {
		t.Fatalf("InsertModel error: %v", err)
	}

	want := "INSERT INTO athletes (id, name) VALUES ($1, $2)"
	if sql != want {
		t.Fatalf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a-1", "Ada"}) {
		t.Fatalf("args mismatch: %v", args)
	}
}
