package db

import "testing"

func TestRebind(t *testing.T) {
	query := `UPDATE users SET avatar_image = ? WHERE id = ?`

	pg := &SQLStore{driver: "postgres"}
	if got := pg.rebind(query); got != `UPDATE users SET avatar_image = $1 WHERE id = $2` {
		t.Errorf("Unexpected postgres rebind: %s", got)
	}

	lite := &SQLStore{driver: "sqlite"}
	if got := lite.rebind(query); got != query {
		t.Errorf("Expected sqlite query unchanged, got %s", got)
	}
}
