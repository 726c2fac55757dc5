package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestRacksMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_storage_topology.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS racks",
		"FOREIGN KEY (shelf_id) REFERENCES shelves(id) ON DELETE CASCADE",
		"CHECK (current_count >= 0)",
		"CHECK (status IN ('available', 'maintenance', 'retired'))",
		"DROP TABLE IF EXISTS racks",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAssignmentsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_assignments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS assignments",
		"FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE",
		"FOREIGN KEY (rack_id) REFERENCES racks(id) ON DELETE CASCADE",
		"CHECK (capacity_threshold_pct > 0 AND capacity_threshold_pct <= 100)",
		"idx_assignments_customer_rack_active",
		"DROP TABLE IF EXISTS assignments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDocumentsMigrationStatusesMatchEnum(t *testing.T) {
	content := readMigration(t, "*_create_documents.sql")

	if !strings.Contains(content, "CHECK (status IN ('pending', 'stored', 'archived', 'destroyed'))") {
		t.Errorf("documents status check does not cover the lifecycle statuses")
	}
	if !strings.Contains(content, "FOREIGN KEY (rack_id) REFERENCES racks(id) ON DELETE SET NULL") {
		t.Errorf("documents must not cascade-delete when a rack is removed")
	}
}
