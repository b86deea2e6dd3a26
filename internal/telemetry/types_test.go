package telemetry

import "testing"

func TestTableNameEnvOverride(t *testing.T) {
	t.Setenv("CRANE_STATE_TABLE", "custom_state")
	if got := tableName("CRANE_STATE_TABLE", "crane_state"); got != "custom_state" {
		t.Fatalf("expected env override, got %q", got)
	}
	if got := tableName("UNSET_TABLE_ENV_FOR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestRowTableNames(t *testing.T) {
	if (CraneStateRow{}).TableName() != CraneStateTableName {
		t.Fatal("crane state table name mismatch")
	}
	if (CollisionRow{}).TableName() != CollisionTableName {
		t.Fatal("collision table name mismatch")
	}
	if (AlertEventRow{}).TableName() != AlertEventTableName {
		t.Fatal("alert event table name mismatch")
	}
	if (SiteStatusRow{}).TableName() != SiteStatusTableName {
		t.Fatal("site status table name mismatch")
	}
}
