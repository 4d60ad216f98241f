package storage

import "testing"

func TestRebindPostgres(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM groups WHERE external_id = ?", "SELECT * FROM groups WHERE external_id = $1"},
		{"INSERT INTO groups (a, b, c) VALUES (?, ?, ?)", "INSERT INTO groups (a, b, c) VALUES ($1, $2, $3)"},
		{"UPDATE groups SET name = ? WHERE id = ?", "UPDATE groups SET name = $1 WHERE id = $2"},
	}
	for _, tc := range cases {
		if got := DialectPostgres.Rebind(tc.in); got != tc.want {
			t.Errorf("Rebind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRebindSQLiteIsIdentity(t *testing.T) {
	q := "SELECT * FROM groups WHERE external_id = ? AND is_active = ?"
	if got := DialectSQLite.Rebind(q); got != q {
		t.Errorf("Rebind changed sqlite query: %q", got)
	}
}

func TestBoolValue(t *testing.T) {
	if v := DialectPostgres.BoolValue(true); v != true {
		t.Errorf("postgres BoolValue(true) = %v", v)
	}
	if v := DialectPostgres.BoolValue(false); v != false {
		t.Errorf("postgres BoolValue(false) = %v", v)
	}
	if v := DialectSQLite.BoolValue(true); v != 1 {
		t.Errorf("sqlite BoolValue(true) = %v", v)
	}
	if v := DialectSQLite.BoolValue(false); v != 0 {
		t.Errorf("sqlite BoolValue(false) = %v", v)
	}
}

func TestParseDialect(t *testing.T) {
	for driver, want := range map[string]Dialect{
		"postgres":   DialectPostgres,
		"postgresql": DialectPostgres,
		"sqlite":     DialectSQLite,
		"sqlite3":    DialectSQLite,
	} {
		got, err := ParseDialect(driver)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %v, %v", driver, got, err)
		}
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
